package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrAlbumNotFound signals a missing album record.
	ErrAlbumNotFound = fmt.Errorf("%w: album not found", ErrNotFound)
	// ErrAlbumHasSongs blocks deleting an album that still has songs.
	ErrAlbumHasSongs = fmt.Errorf("%w: album has songs", ErrConflict)
	// ErrInvalidAlbum indicates validation failure for album data.
	ErrInvalidAlbum = fmt.Errorf("%w: invalid album", ErrInvalid)
)

// Album is a release belonging to one artist. ReleaseDate is nil when never
// provided.
type Album struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	ArtistID    int64      `json:"artistId"`
	ArtistName  string     `json:"artist"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
}

// NewAlbum carries the fields required to add an album.
type NewAlbum struct {
	Title       string
	ArtistID    int64
	ReleaseDate *time.Time
}

// CreateAlbum inserts a new album under an existing artist.
func (s *Store) CreateAlbum(ctx context.Context, na NewAlbum) (Album, error) {
	na.Title = strings.TrimSpace(na.Title)
	if err := validateAlbumTitle(na.Title); err != nil {
		return Album{}, err
	}

	artistName, err := artistNameByID(ctx, s.db, na.ArtistID)
	if err != nil {
		return Album{}, err
	}

	a := Album{
		Title:       na.Title,
		ArtistID:    na.ArtistID,
		ArtistName:  artistName,
		ReleaseDate: na.ReleaseDate,
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO albums (title, artist_id, release_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`, na.Title, na.ArtistID, nullTime(na.ReleaseDate)).Scan(&a.ID)
	if err != nil {
		return Album{}, fmt.Errorf("insert album: %w", err)
	}

	return a, nil
}

// ListAlbums returns all albums with their artist names, ordered by title.
func (s *Store) ListAlbums(ctx context.Context) ([]Album, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT al.id, al.title, al.artist_id, ar.name, al.release_date
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		ORDER BY al.title ASC, al.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select albums: %w", err)
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}

	return albums, nil
}

// GetAlbum returns a single album by id.
func (s *Store) GetAlbum(ctx context.Context, id int64) (Album, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT al.id, al.title, al.artist_id, ar.name, al.release_date
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		WHERE al.id = $1
	`, id)

	a, err := scanAlbum(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Album{}, ErrAlbumNotFound
		}
		return Album{}, err
	}
	return a, nil
}

// UpdateAlbum replaces an album's title, artist, and release date. The new
// artist must exist.
func (s *Store) UpdateAlbum(ctx context.Context, id int64, na NewAlbum) (Album, error) {
	na.Title = strings.TrimSpace(na.Title)
	if err := validateAlbumTitle(na.Title); err != nil {
		return Album{}, err
	}

	artistName, err := artistNameByID(ctx, s.db, na.ArtistID)
	if err != nil {
		return Album{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE albums
		SET title = $1, artist_id = $2, release_date = $3
		WHERE id = $4
	`, na.Title, na.ArtistID, nullTime(na.ReleaseDate), id)
	if err != nil {
		return Album{}, fmt.Errorf("update album: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Album{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return Album{}, ErrAlbumNotFound
	}

	return Album{
		ID:          id,
		Title:       na.Title,
		ArtistID:    na.ArtistID,
		ArtistName:  artistName,
		ReleaseDate: na.ReleaseDate,
	}, nil
}

// DeleteAlbum removes an album, refusing while any song still references it.
func (s *Store) DeleteAlbum(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := canDeleteAlbum(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlbumHasSongs
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM albums WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete album: %w", err)
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

func validateAlbumTitle(title string) error {
	switch {
	case title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidAlbum)
	case len(title) > 100:
		return fmt.Errorf("%w: title exceeds 100 characters", ErrInvalidAlbum)
	}
	return nil
}

func scanAlbum(scanner rowScanner) (Album, error) {
	var (
		a        Album
		released sql.NullTime
	)
	if err := scanner.Scan(&a.ID, &a.Title, &a.ArtistID, &a.ArtistName, &released); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Album{}, err
		}
		return Album{}, fmt.Errorf("scan album: %w", err)
	}
	if released.Valid {
		a.ReleaseDate = &released.Time
	}
	return a, nil
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}
