package store

import (
	"context"
	"fmt"
)

// Catalog schema. Every statement is additive-only and safe to run repeatedly,
// so provisioning needs no rollback path.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS artists (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		bio TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS albums (
		id SERIAL PRIMARY KEY,
		title VARCHAR(100) NOT NULL,
		artist_id INTEGER NOT NULL REFERENCES artists(id),
		release_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS songs (
		id SERIAL PRIMARY KEY,
		title VARCHAR(100) NOT NULL,
		album_id INTEGER NOT NULL REFERENCES albums(id),
		duration INTEGER,
		file_path TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS playlists (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		user_id INTEGER NOT NULL REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS playlist_songs (
		playlist_id INTEGER NOT NULL REFERENCES playlists(id),
		song_id INTEGER NOT NULL REFERENCES songs(id),
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (playlist_id, song_id)
	)`,
	`CREATE TABLE IF NOT EXISTS play_history (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		song_id INTEGER NOT NULL REFERENCES songs(id),
		played_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS song_ratings (
		user_id INTEGER NOT NULL REFERENCES users(id),
		song_id INTEGER NOT NULL REFERENCES songs(id),
		rating INTEGER NOT NULL CHECK (rating >= 1 AND rating <= 5),
		PRIMARY KEY (user_id, song_id)
	)`,
	`CREATE TABLE IF NOT EXISTS song_likes (
		user_id INTEGER NOT NULL REFERENCES users(id),
		song_id INTEGER NOT NULL REFERENCES songs(id),
		liked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, song_id)
	)`,
	`CREATE TABLE IF NOT EXISTS artist_follows (
		user_id INTEGER NOT NULL REFERENCES users(id),
		artist_id INTEGER NOT NULL REFERENCES artists(id),
		followed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, artist_id)
	)`,
	`CREATE TABLE IF NOT EXISTS song_comments (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		song_id INTEGER NOT NULL REFERENCES songs(id),
		comment TEXT NOT NULL,
		commented_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Provision creates every catalog table that does not already exist. It is
// idempotent and may be called at startup or on demand.
func (s *Store) Provision(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("provision schema: %w", err)
		}
	}
	return nil
}
