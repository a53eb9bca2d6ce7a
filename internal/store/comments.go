package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidComment rejects empty comment text.
var ErrInvalidComment = fmt.Errorf("%w: comment text is required", ErrInvalid)

// Comment is an append-only remark a user left on a song, independently
// deletable by id.
type Comment struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Username    string    `json:"username"`
	SongID      int64     `json:"songId"`
	SongTitle   string    `json:"song"`
	Text        string    `json:"text"`
	CommentedAt time.Time `json:"commentedAt"`
}

// NewComment carries the fields required to add a comment.
type NewComment struct {
	UserID int64
	SongID int64
	Text   string
}

// CreateComment appends a comment for an existing user and song.
func (s *Store) CreateComment(ctx context.Context, nc NewComment) (Comment, error) {
	nc.Text = strings.TrimSpace(nc.Text)
	if nc.Text == "" {
		return Comment{}, ErrInvalidComment
	}

	username, err := usernameByID(ctx, s.db, nc.UserID)
	if err != nil {
		return Comment{}, err
	}
	songTitle, err := songTitleByID(ctx, s.db, nc.SongID)
	if err != nil {
		return Comment{}, err
	}

	c := Comment{
		UserID:    nc.UserID,
		Username:  username,
		SongID:    nc.SongID,
		SongTitle: songTitle,
		Text:      nc.Text,
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO song_comments (user_id, song_id, comment)
		VALUES ($1, $2, $3)
		RETURNING id, commented_at
	`, nc.UserID, nc.SongID, nc.Text).Scan(&c.ID, &c.CommentedAt)
	if err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}

	return c, nil
}

// CommentFilter narrows ListComments to one song when set.
type CommentFilter struct {
	SongID *int64
}

// ListComments returns comments most recent first, optionally limited to
// one song.
func (s *Store) ListComments(ctx context.Context, filter CommentFilter) ([]Comment, error) {
	query := `
		SELECT sc.id, sc.user_id, u.username, sc.song_id, s.title, sc.comment, sc.commented_at
		FROM song_comments sc
		JOIN users u ON sc.user_id = u.id
		JOIN songs s ON sc.song_id = s.id
	`
	var args []any
	if filter.SongID != nil {
		query += ` WHERE sc.song_id = $1`
		args = append(args, *filter.SongID)
	}
	query += ` ORDER BY sc.commented_at DESC, sc.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.Username, &c.SongID, &c.SongTitle, &c.Text, &c.CommentedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

// DeleteComment removes a comment by id and reports how many rows were
// removed; 0 means the id was absent.
func (s *Store) DeleteComment(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM song_comments
		WHERE id = $1
	`, id)
	if err != nil {
		return 0, fmt.Errorf("delete comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}
