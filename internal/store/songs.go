package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSongNotFound signals a missing song record.
	ErrSongNotFound = fmt.Errorf("%w: song not found", ErrNotFound)
	// ErrInvalidSong indicates validation failure for song data.
	ErrInvalidSong = fmt.Errorf("%w: invalid song", ErrInvalid)
)

// Song is a track belonging to one album. Duration is in seconds and nil
// when never provided.
type Song struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	AlbumID    int64  `json:"albumId"`
	AlbumTitle string `json:"album"`
	ArtistName string `json:"artist"`
	Duration   *int   `json:"duration,omitempty"`
	FilePath   string `json:"filePath"`
}

// NewSong carries the fields required to add a song.
type NewSong struct {
	Title    string
	AlbumID  int64
	Duration *int
	FilePath string
}

// CreateSong inserts a new song under an existing album.
func (s *Store) CreateSong(ctx context.Context, ns NewSong) (Song, error) {
	ns.Title = strings.TrimSpace(ns.Title)
	ns.FilePath = strings.TrimSpace(ns.FilePath)
	if err := validateSong(ns); err != nil {
		return Song{}, err
	}

	albumTitle, artistName, err := albumContext(ctx, s.db, ns.AlbumID)
	if err != nil {
		return Song{}, err
	}

	song := Song{
		Title:      ns.Title,
		AlbumID:    ns.AlbumID,
		AlbumTitle: albumTitle,
		ArtistName: artistName,
		Duration:   ns.Duration,
		FilePath:   ns.FilePath,
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO songs (title, album_id, duration, file_path)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, ns.Title, ns.AlbumID, nullInt(ns.Duration), ns.FilePath).Scan(&song.ID)
	if err != nil {
		return Song{}, fmt.Errorf("insert song: %w", err)
	}

	return song, nil
}

// ListSongs returns all songs with album and artist names, ordered by title.
func (s *Store) ListSongs(ctx context.Context) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.album_id, al.title, ar.name, s.duration, s.file_path
		FROM songs s
		JOIN albums al ON s.album_id = al.id
		JOIN artists ar ON al.artist_id = ar.id
		ORDER BY s.title ASC, s.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select songs: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}

	return songs, nil
}

// GetSong returns a single song by id.
func (s *Store) GetSong(ctx context.Context, id int64) (Song, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.title, s.album_id, al.title, ar.name, s.duration, s.file_path
		FROM songs s
		JOIN albums al ON s.album_id = al.id
		JOIN artists ar ON al.artist_id = ar.id
		WHERE s.id = $1
	`, id)

	song, err := scanSong(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Song{}, ErrSongNotFound
		}
		return Song{}, err
	}
	return song, nil
}

// UpdateSong replaces a song's title, album, duration, and file path. The
// new album must exist.
func (s *Store) UpdateSong(ctx context.Context, id int64, ns NewSong) (Song, error) {
	ns.Title = strings.TrimSpace(ns.Title)
	ns.FilePath = strings.TrimSpace(ns.FilePath)
	if err := validateSong(ns); err != nil {
		return Song{}, err
	}

	albumTitle, artistName, err := albumContext(ctx, s.db, ns.AlbumID)
	if err != nil {
		return Song{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE songs
		SET title = $1, album_id = $2, duration = $3, file_path = $4
		WHERE id = $5
	`, ns.Title, ns.AlbumID, nullInt(ns.Duration), ns.FilePath, id)
	if err != nil {
		return Song{}, fmt.Errorf("update song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Song{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return Song{}, ErrSongNotFound
	}

	return Song{
		ID:         id,
		Title:      ns.Title,
		AlbumID:    ns.AlbumID,
		AlbumTitle: albumTitle,
		ArtistName: artistName,
		Duration:   ns.Duration,
		FilePath:   ns.FilePath,
	}, nil
}

// DeleteSong removes a song and every row referencing it: playlist entries,
// play history, ratings, likes, and comments, all in one transaction. The
// returned count covers the song row only; 0 means the id was absent.
func (s *Store) DeleteSong(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cascades := []struct {
			what  string
			query string
		}{
			{"playlist entries", `DELETE FROM playlist_songs WHERE song_id = $1`},
			{"play history", `DELETE FROM play_history WHERE song_id = $1`},
			{"ratings", `DELETE FROM song_ratings WHERE song_id = $1`},
			{"likes", `DELETE FROM song_likes WHERE song_id = $1`},
			{"comments", `DELETE FROM song_comments WHERE song_id = $1`},
		}
		for _, c := range cascades {
			if _, err := tx.ExecContext(ctx, c.query, id); err != nil {
				return fmt.Errorf("delete song %s: %w", c.what, err)
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete song: %w", err)
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

func validateSong(ns NewSong) error {
	switch {
	case ns.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidSong)
	case len(ns.Title) > 100:
		return fmt.Errorf("%w: title exceeds 100 characters", ErrInvalidSong)
	case ns.FilePath == "":
		return fmt.Errorf("%w: file path is required", ErrInvalidSong)
	case ns.Duration != nil && *ns.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive", ErrInvalidSong)
	}
	return nil
}

func scanSong(scanner rowScanner) (Song, error) {
	var (
		song     Song
		duration sql.NullInt64
	)
	if err := scanner.Scan(&song.ID, &song.Title, &song.AlbumID, &song.AlbumTitle,
		&song.ArtistName, &duration, &song.FilePath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Song{}, err
		}
		return Song{}, fmt.Errorf("scan song: %w", err)
	}
	if duration.Valid {
		v := int(duration.Int64)
		song.Duration = &v
	}
	return song, nil
}

func songTitleByID(ctx context.Context, q querier, id int64) (string, error) {
	var title string
	err := q.QueryRowContext(ctx, `
		SELECT title FROM songs WHERE id = $1
	`, id).Scan(&title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSongNotFound
		}
		return "", fmt.Errorf("lookup song: %w", err)
	}
	return title, nil
}

// albumContext resolves an album id to its title and artist name, erroring
// when the album is absent.
func albumContext(ctx context.Context, q querier, id int64) (string, string, error) {
	var albumTitle, artistName string
	err := q.QueryRowContext(ctx, `
		SELECT al.title, ar.name
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		WHERE al.id = $1
	`, id).Scan(&albumTitle, &artistName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrAlbumNotFound
		}
		return "", "", fmt.Errorf("lookup album: %w", err)
	}
	return albumTitle, artistName, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
