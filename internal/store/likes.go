package store

import (
	"context"
	"fmt"
	"time"
)

// Like marks that a user liked a song. At most one row exists per
// (user, song) pair.
type Like struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	SongID    int64     `json:"songId"`
	SongTitle string    `json:"song"`
	LikedAt   time.Time `json:"likedAt"`
}

// LikeFilter narrows ListLikes to one song when set.
type LikeFilter struct {
	SongID *int64
}

// LikeSong records that a user liked a song. Liking a song twice is a
// no-op, reported by added=false rather than an error.
func (s *Store) LikeSong(ctx context.Context, userID, songID int64) (bool, error) {
	if _, err := usernameByID(ctx, s.db, userID); err != nil {
		return false, err
	}
	if _, err := songTitleByID(ctx, s.db, songID); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO song_likes (user_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, song_id) DO NOTHING
	`, userID, songID)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

// ListLikes returns likes most recent first, optionally limited to one song.
func (s *Store) ListLikes(ctx context.Context, filter LikeFilter) ([]Like, error) {
	query := `
		SELECT sl.user_id, u.username, sl.song_id, s.title, sl.liked_at
		FROM song_likes sl
		JOIN users u ON sl.user_id = u.id
		JOIN songs s ON sl.song_id = s.id
	`
	var args []any
	if filter.SongID != nil {
		query += ` WHERE sl.song_id = $1`
		args = append(args, *filter.SongID)
	}
	query += ` ORDER BY sl.liked_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select likes: %w", err)
	}
	defer rows.Close()

	var likes []Like
	for rows.Next() {
		var l Like
		if err := rows.Scan(&l.UserID, &l.Username, &l.SongID, &l.SongTitle, &l.LikedAt); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		likes = append(likes, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate likes: %w", err)
	}

	return likes, nil
}

// UnlikeSong removes a user's like for a song and reports how many rows
// were removed; 0 means the pair was absent.
func (s *Store) UnlikeSong(ctx context.Context, userID, songID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM song_likes
		WHERE user_id = $1 AND song_id = $2
	`, userID, songID)
	if err != nil {
		return 0, fmt.Errorf("delete like: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}
