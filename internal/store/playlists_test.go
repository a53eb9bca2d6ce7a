package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreatePlaylistSuccess(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO playlists (name, user_id)
		VALUES ($1, $2)
		RETURNING id
	`)).
		WithArgs("Morning Mix", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(20)))

	got, err := s.CreatePlaylist(context.Background(), NewPlaylist{Name: " Morning Mix ", UserID: 1})
	if err != nil {
		t.Fatalf("CreatePlaylist error: %v", err)
	}
	if got.ID != 20 || got.Owner != "alice" {
		t.Fatalf("unexpected playlist %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePlaylistMissingOwner(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"username"}))

	_, err := s.CreatePlaylist(context.Background(), NewPlaylist{Name: "Orphan Mix", UserID: 404})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreatePlaylistInvalidName(t *testing.T) {
	s, _ := newMockStore(t)

	_, err := s.CreatePlaylist(context.Background(), NewPlaylist{Name: "  ", UserID: 1})
	if !errors.Is(err, ErrInvalidPlaylist) {
		t.Fatalf("expected ErrInvalidPlaylist, got %v", err)
	}
}

func TestDeletePlaylistRemovesEntries(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlist_songs WHERE playlist_id = $1`)).
		WithArgs(int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlists WHERE id = $1`)).
		WithArgs(int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := s.DeletePlaylist(context.Background(), 20)
	if err != nil {
		t.Fatalf("DeletePlaylist error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row affected, got %d", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetPlaylistNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT p.id, p.name, p.user_id, u.username
		FROM playlists p
		JOIN users u ON p.user_id = u.id
		WHERE p.id = $1
	`)).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id", "username"}))

	_, err := s.GetPlaylist(context.Background(), 8)
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
}
