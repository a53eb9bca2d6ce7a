package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestProvisionCreatesEveryTable(t *testing.T) {
	s, mock := newMockStore(t)

	for range schemaStatements {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := s.Provision(context.Background()); err != nil {
		t.Fatalf("Provision error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProvisionStopsOnFirstFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").
		WillReturnError(fmt.Errorf("connection reset"))

	if err := s.Provision(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("boom")
	err := s.withTx(context.Background(), func(tx *sql.Tx) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("expected unique violation to be detected")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation misreported as unique violation")
	}
	if isUniqueViolation(errors.New("plain error")) {
		t.Fatalf("plain error misreported as unique violation")
	}
	wrapped := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"})
	if !isUniqueViolation(wrapped) {
		t.Fatalf("wrapped unique violation not detected")
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrUserExists, ErrConflict},
		{ErrArtistHasAlbums, ErrConflict},
		{ErrAlbumHasSongs, ErrConflict},
		{ErrUserNotFound, ErrNotFound},
		{ErrArtistNotFound, ErrNotFound},
		{ErrAlbumNotFound, ErrNotFound},
		{ErrSongNotFound, ErrNotFound},
		{ErrPlaylistNotFound, ErrNotFound},
		{ErrInvalidUser, ErrInvalid},
		{ErrInvalidArtist, ErrInvalid},
		{ErrInvalidAlbum, ErrInvalid},
		{ErrInvalidSong, ErrInvalid},
		{ErrInvalidPlaylist, ErrInvalid},
		{ErrInvalidRating, ErrInvalid},
		{ErrInvalidComment, ErrInvalid},
	}
	for _, tc := range tests {
		if !errors.Is(tc.err, tc.kind) {
			t.Fatalf("%v does not match its kind %v", tc.err, tc.kind)
		}
	}
}
