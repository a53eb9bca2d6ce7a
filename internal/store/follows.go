package store

import (
	"context"
	"fmt"
	"time"
)

// Follow marks that a user follows an artist. At most one row exists per
// (user, artist) pair.
type Follow struct {
	UserID     int64     `json:"userId"`
	Username   string    `json:"username"`
	ArtistID   int64     `json:"artistId"`
	ArtistName string    `json:"artist"`
	FollowedAt time.Time `json:"followedAt"`
}

// FollowFilter narrows ListFollows to one user when set.
type FollowFilter struct {
	UserID *int64
}

// FollowArtist records that a user follows an artist. Following twice is a
// no-op, reported by added=false rather than an error.
func (s *Store) FollowArtist(ctx context.Context, userID, artistID int64) (bool, error) {
	if _, err := usernameByID(ctx, s.db, userID); err != nil {
		return false, err
	}
	if _, err := artistNameByID(ctx, s.db, artistID); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO artist_follows (user_id, artist_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, artist_id) DO NOTHING
	`, userID, artistID)
	if err != nil {
		return false, fmt.Errorf("insert follow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

// ListFollows returns follows most recent first, optionally limited to one
// user.
func (s *Store) ListFollows(ctx context.Context, filter FollowFilter) ([]Follow, error) {
	query := `
		SELECT af.user_id, u.username, af.artist_id, a.name, af.followed_at
		FROM artist_follows af
		JOIN users u ON af.user_id = u.id
		JOIN artists a ON af.artist_id = a.id
	`
	var args []any
	if filter.UserID != nil {
		query += ` WHERE af.user_id = $1`
		args = append(args, *filter.UserID)
	}
	query += ` ORDER BY af.followed_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select follows: %w", err)
	}
	defer rows.Close()

	var follows []Follow
	for rows.Next() {
		var f Follow
		if err := rows.Scan(&f.UserID, &f.Username, &f.ArtistID, &f.ArtistName, &f.FollowedAt); err != nil {
			return nil, fmt.Errorf("scan follow: %w", err)
		}
		follows = append(follows, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate follows: %w", err)
	}

	return follows, nil
}

// UnfollowArtist removes a user's follow of an artist and reports how many
// rows were removed; 0 means the pair was absent.
func (s *Store) UnfollowArtist(ctx context.Context, userID, artistID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM artist_follows
		WHERE user_id = $1 AND artist_id = $2
	`, userID, artistID)
	if err != nil {
		return 0, fmt.Errorf("delete follow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}
