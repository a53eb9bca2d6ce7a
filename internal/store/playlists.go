package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPlaylistNotFound signals a missing playlist record.
	ErrPlaylistNotFound = fmt.Errorf("%w: playlist not found", ErrNotFound)
	// ErrInvalidPlaylist indicates validation failure for playlist data.
	ErrInvalidPlaylist = fmt.Errorf("%w: invalid playlist", ErrInvalid)
)

// Playlist is a named song collection owned by one user.
type Playlist struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UserID int64  `json:"userId"`
	Owner  string `json:"owner"`
}

// NewPlaylist carries the fields required to add a playlist.
type NewPlaylist struct {
	Name   string
	UserID int64
}

// CreatePlaylist inserts a new playlist for an existing user.
func (s *Store) CreatePlaylist(ctx context.Context, np NewPlaylist) (Playlist, error) {
	np.Name = strings.TrimSpace(np.Name)
	if err := validatePlaylistName(np.Name); err != nil {
		return Playlist{}, err
	}

	owner, err := usernameByID(ctx, s.db, np.UserID)
	if err != nil {
		return Playlist{}, err
	}

	p := Playlist{Name: np.Name, UserID: np.UserID, Owner: owner}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (name, user_id)
		VALUES ($1, $2)
		RETURNING id
	`, np.Name, np.UserID).Scan(&p.ID)
	if err != nil {
		return Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}

	return p, nil
}

// ListPlaylists returns all playlists with their owner usernames, ordered by
// name.
func (s *Store) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.user_id, u.username
		FROM playlists p
		JOIN users u ON p.user_id = u.id
		ORDER BY p.name ASC, p.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select playlists: %w", err)
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.UserID, &p.Owner); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}

	return playlists, nil
}

// GetPlaylist returns a single playlist by id.
func (s *Store) GetPlaylist(ctx context.Context, id int64) (Playlist, error) {
	var p Playlist
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.user_id, u.username
		FROM playlists p
		JOIN users u ON p.user_id = u.id
		WHERE p.id = $1
	`, id).Scan(&p.ID, &p.Name, &p.UserID, &p.Owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Playlist{}, ErrPlaylistNotFound
		}
		return Playlist{}, fmt.Errorf("get playlist: %w", err)
	}
	return p, nil
}

// UpdatePlaylist replaces a playlist's name and owner. The new owner must
// exist.
func (s *Store) UpdatePlaylist(ctx context.Context, id int64, np NewPlaylist) (Playlist, error) {
	np.Name = strings.TrimSpace(np.Name)
	if err := validatePlaylistName(np.Name); err != nil {
		return Playlist{}, err
	}

	owner, err := usernameByID(ctx, s.db, np.UserID)
	if err != nil {
		return Playlist{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE playlists
		SET name = $1, user_id = $2
		WHERE id = $3
	`, np.Name, np.UserID, id)
	if err != nil {
		return Playlist{}, fmt.Errorf("update playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Playlist{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return Playlist{}, ErrPlaylistNotFound
	}

	return Playlist{ID: id, Name: np.Name, UserID: np.UserID, Owner: owner}, nil
}

// DeletePlaylist removes a playlist and its entries in one transaction. The
// returned count covers the playlist row only; 0 means the id was absent.
func (s *Store) DeletePlaylist(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_songs WHERE playlist_id = $1`, id); err != nil {
			return fmt.Errorf("delete playlist entries: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete playlist: %w", err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func validatePlaylistName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidPlaylist)
	case len(name) > 100:
		return fmt.Errorf("%w: name exceeds 100 characters", ErrInvalidPlaylist)
	}
	return nil
}

func playlistNameByID(ctx context.Context, q querier, id int64) (string, error) {
	var name string
	err := q.QueryRowContext(ctx, `
		SELECT name FROM playlists WHERE id = $1
	`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrPlaylistNotFound
		}
		return "", fmt.Errorf("lookup playlist: %w", err)
	}
	return name, nil
}
