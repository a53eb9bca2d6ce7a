package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFollowArtist(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name FROM artists WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Autechre"))
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO artist_follows (user_id, artist_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, artist_id) DO NOTHING
	`)).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	added, err := s.FollowArtist(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("FollowArtist error: %v", err)
	}
	if !added {
		t.Fatalf("expected added=true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFollowArtistTwiceIsNoOp(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name FROM artists WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Autechre"))
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO artist_follows (user_id, artist_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, artist_id) DO NOTHING
	`)).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	added, err := s.FollowArtist(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("FollowArtist error: %v", err)
	}
	if added {
		t.Fatalf("expected added=false for duplicate follow")
	}
}

func TestFollowArtistMissingArtist(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name FROM artists WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	_, err := s.FollowArtist(context.Background(), 1, 404)
	if !errors.Is(err, ErrArtistNotFound) {
		t.Fatalf("expected ErrArtistNotFound, got %v", err)
	}
}

func TestListFollowsByUser(t *testing.T) {
	s, mock := newMockStore(t)

	userID := int64(1)
	followed := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT af.user_id, u.username, af.artist_id, a.name, af.followed_at
		FROM artist_follows af
		JOIN users u ON af.user_id = u.id
		JOIN artists a ON af.artist_id = a.id
		WHERE af.user_id = $1 ORDER BY af.followed_at DESC
	`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "artist_id", "name", "followed_at"}).
			AddRow(userID, "alice", int64(2), "Autechre", followed))

	got, err := s.ListFollows(context.Background(), FollowFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("ListFollows error: %v", err)
	}
	if len(got) != 1 || got[0].ArtistName != "Autechre" {
		t.Fatalf("unexpected follows %+v", got)
	}
}

func TestUnfollowArtistAbsentPair(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM artist_follows
		WHERE user_id = $1 AND artist_id = $2
	`)).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := s.UnfollowArtist(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("UnfollowArtist error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows affected, got %d", n)
	}
}
