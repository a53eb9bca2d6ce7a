package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrArtistNotFound signals a missing artist record.
	ErrArtistNotFound = fmt.Errorf("%w: artist not found", ErrNotFound)
	// ErrArtistHasAlbums blocks deleting an artist that still has albums.
	ErrArtistHasAlbums = fmt.Errorf("%w: artist has albums", ErrConflict)
	// ErrInvalidArtist indicates validation failure for artist data.
	ErrInvalidArtist = fmt.Errorf("%w: invalid artist", ErrInvalid)
)

// Artist is a performer in the catalog. Bio is nil when never provided.
type Artist struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Bio  *string `json:"bio,omitempty"`
}

// NewArtist carries the fields required to add an artist.
type NewArtist struct {
	Name string
	Bio  *string
}

// CreateArtist inserts a new artist.
func (s *Store) CreateArtist(ctx context.Context, na NewArtist) (Artist, error) {
	na.Name = strings.TrimSpace(na.Name)
	if err := validateArtistName(na.Name); err != nil {
		return Artist{}, err
	}

	var a Artist
	a.Name = na.Name
	a.Bio = na.Bio
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO artists (name, bio)
		VALUES ($1, $2)
		RETURNING id
	`, na.Name, nullString(na.Bio)).Scan(&a.ID)
	if err != nil {
		return Artist{}, fmt.Errorf("insert artist: %w", err)
	}

	return a, nil
}

// ListArtists returns all artists ordered by name.
func (s *Store) ListArtists(ctx context.Context) ([]Artist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, bio
		FROM artists
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select artists: %w", err)
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}

	return artists, nil
}

// GetArtist returns a single artist by id.
func (s *Store) GetArtist(ctx context.Context, id int64) (Artist, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, bio
		FROM artists
		WHERE id = $1
	`, id)

	a, err := scanArtist(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Artist{}, ErrArtistNotFound
		}
		return Artist{}, err
	}
	return a, nil
}

// UpdateArtist replaces an artist's name and bio.
func (s *Store) UpdateArtist(ctx context.Context, id int64, na NewArtist) (Artist, error) {
	na.Name = strings.TrimSpace(na.Name)
	if err := validateArtistName(na.Name); err != nil {
		return Artist{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE artists
		SET name = $1, bio = $2
		WHERE id = $3
	`, na.Name, nullString(na.Bio), id)
	if err != nil {
		return Artist{}, fmt.Errorf("update artist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Artist{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return Artist{}, ErrArtistNotFound
	}

	return Artist{ID: id, Name: na.Name, Bio: na.Bio}, nil
}

// DeleteArtist removes an artist, refusing while any album still references
// it. Follow rows pointing at the artist are removed in the same transaction.
// The returned count covers the artist row only.
func (s *Store) DeleteArtist(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := canDeleteArtist(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrArtistHasAlbums
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM artist_follows WHERE artist_id = $1`, id); err != nil {
			return fmt.Errorf("delete artist follows: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM artists WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete artist: %w", err)
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

func validateArtistName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidArtist)
	case len(name) > 100:
		return fmt.Errorf("%w: name exceeds 100 characters", ErrInvalidArtist)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtist(scanner rowScanner) (Artist, error) {
	var (
		a   Artist
		bio sql.NullString
	)
	if err := scanner.Scan(&a.ID, &a.Name, &bio); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Artist{}, err
		}
		return Artist{}, fmt.Errorf("scan artist: %w", err)
	}
	if bio.Valid {
		a.Bio = &bio.String
	}
	return a, nil
}

func artistNameByID(ctx context.Context, q querier, id int64) (string, error) {
	var name string
	err := q.QueryRowContext(ctx, `
		SELECT name FROM artists WHERE id = $1
	`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrArtistNotFound
		}
		return "", fmt.Errorf("lookup artist: %w", err)
	}
	return name, nil
}

// nullString maps an absent optional field to SQL NULL, never to "".
func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
