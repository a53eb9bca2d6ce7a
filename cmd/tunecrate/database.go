package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// openDatabase establishes a database connection and retries the first ping
// until the instance responds or the wait budget runs out.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	const (
		pingTimeout = 3 * time.Second
		maxWait     = 15 * time.Second
	)

	deadline := time.Now().Add(maxWait)
	backoff := 250 * time.Millisecond
	var lastErr error

	for {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			return db, nil
		}
		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}

		time.Sleep(backoff)
		backoff *= 2
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping database: %w", lastErr)
}
