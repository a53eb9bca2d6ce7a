package store

import (
	"context"
	"fmt"
	"strings"
)

// ErrInvalidRating rejects ratings outside the 1..5 range.
var ErrInvalidRating = fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalid)

// Rating is one user's score for one song. At most one row exists per
// (user, song) pair.
type Rating struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	SongID    int64  `json:"songId"`
	SongTitle string `json:"song"`
	Rating    int    `json:"rating"`
}

// RatingFilter narrows ListRatings by user, song, or both.
type RatingFilter struct {
	UserID *int64
	SongID *int64
}

// RateSong records a rating for an existing user and song. Re-rating the
// same pair overwrites the previous value.
func (s *Store) RateSong(ctx context.Context, userID, songID int64, rating int) (Rating, error) {
	if rating < 1 || rating > 5 {
		return Rating{}, ErrInvalidRating
	}

	username, err := usernameByID(ctx, s.db, userID)
	if err != nil {
		return Rating{}, err
	}
	songTitle, err := songTitleByID(ctx, s.db, songID)
	if err != nil {
		return Rating{}, err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO song_ratings (user_id, song_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, song_id) DO UPDATE SET rating = EXCLUDED.rating
	`, userID, songID, rating); err != nil {
		return Rating{}, fmt.Errorf("upsert rating: %w", err)
	}

	return Rating{
		UserID:    userID,
		Username:  username,
		SongID:    songID,
		SongTitle: songTitle,
		Rating:    rating,
	}, nil
}

// ListRatings returns ratings ordered by song title then rating, highest
// first, optionally filtered by user and/or song.
func (s *Store) ListRatings(ctx context.Context, filter RatingFilter) ([]Rating, error) {
	query := `
		SELECT r.user_id, u.username, r.song_id, s.title, r.rating
		FROM song_ratings r
		JOIN users u ON r.user_id = u.id
		JOIN songs s ON r.song_id = s.id
	`

	var (
		clauses []string
		args    []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("r.user_id = $%d", len(args)))
	}
	if filter.SongID != nil {
		args = append(args, *filter.SongID)
		clauses = append(clauses, fmt.Sprintf("r.song_id = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY s.title ASC, r.rating DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select ratings: %w", err)
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.UserID, &r.Username, &r.SongID, &r.SongTitle, &r.Rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}

	return ratings, nil
}

// DeleteRating removes one user's rating for one song and reports how many
// rows were removed; 0 means the pair was absent.
func (s *Store) DeleteRating(ctx context.Context, userID, songID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM song_ratings
		WHERE user_id = $1 AND song_id = $2
	`, userID, songID)
	if err != nil {
		return 0, fmt.Errorf("delete rating: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}
