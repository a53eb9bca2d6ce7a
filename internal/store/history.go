package store

import (
	"context"
	"fmt"
	"time"
)

// PlayEvent is one append-only play log row, joined with user and song
// names. Play events are never updated.
type PlayEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	SongID    int64     `json:"songId"`
	SongTitle string    `json:"song"`
	PlayedAt  time.Time `json:"playedAt"`
}

// HistoryFilter narrows ListPlayHistory to one user when set.
type HistoryFilter struct {
	UserID *int64
}

// RecordPlay appends a play event for an existing user and song.
func (s *Store) RecordPlay(ctx context.Context, userID, songID int64) (PlayEvent, error) {
	username, err := usernameByID(ctx, s.db, userID)
	if err != nil {
		return PlayEvent{}, err
	}
	songTitle, err := songTitleByID(ctx, s.db, songID)
	if err != nil {
		return PlayEvent{}, err
	}

	e := PlayEvent{UserID: userID, Username: username, SongID: songID, SongTitle: songTitle}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO play_history (user_id, song_id)
		VALUES ($1, $2)
		RETURNING id, played_at
	`, userID, songID).Scan(&e.ID, &e.PlayedAt)
	if err != nil {
		return PlayEvent{}, fmt.Errorf("insert play event: %w", err)
	}

	return e, nil
}

// ListPlayHistory returns play events most recent first, optionally limited
// to one user.
func (s *Store) ListPlayHistory(ctx context.Context, filter HistoryFilter) ([]PlayEvent, error) {
	query := `
		SELECT ph.id, ph.user_id, u.username, ph.song_id, s.title, ph.played_at
		FROM play_history ph
		JOIN users u ON ph.user_id = u.id
		JOIN songs s ON ph.song_id = s.id
	`
	var args []any
	if filter.UserID != nil {
		query += ` WHERE ph.user_id = $1`
		args = append(args, *filter.UserID)
	}
	query += ` ORDER BY ph.played_at DESC, ph.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select play history: %w", err)
	}
	defer rows.Close()

	var events []PlayEvent
	for rows.Next() {
		var e PlayEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.SongID, &e.SongTitle, &e.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan play event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate play history: %w", err)
	}

	return events, nil
}
