package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRateSongRejectsOutOfRange(t *testing.T) {
	s, mock := newMockStore(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := s.RateSong(context.Background(), 1, 100, rating)
		if !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}

	// Out-of-range ratings must be rejected before touching the database.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database activity: %v", err)
	}
}

func TestRateSongUpsert(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT title FROM songs WHERE id = $1`)).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Roygbiv"))
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO song_ratings (user_id, song_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, song_id) DO UPDATE SET rating = EXCLUDED.rating
	`)).
		WithArgs(int64(1), int64(100), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := s.RateSong(context.Background(), 1, 100, 4)
	if err != nil {
		t.Fatalf("RateSong error: %v", err)
	}
	if got.Rating != 4 || got.Username != "alice" || got.SongTitle != "Roygbiv" {
		t.Fatalf("unexpected rating %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRateSongMissingSong(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT title FROM songs WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"title"}))

	_, err := s.RateSong(context.Background(), 1, 404, 3)
	if !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
}

func TestListRatingsFilters(t *testing.T) {
	s, mock := newMockStore(t)

	userID := int64(1)
	songID := int64(100)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT r.user_id, u.username, r.song_id, s.title, r.rating
		FROM song_ratings r
		JOIN users u ON r.user_id = u.id
		JOIN songs s ON r.song_id = s.id
		WHERE r.user_id = $1 AND r.song_id = $2 ORDER BY s.title ASC, r.rating DESC
	`)).
		WithArgs(userID, songID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "song_id", "title", "rating"}).
			AddRow(userID, "alice", songID, "Roygbiv", 5))

	got, err := s.ListRatings(context.Background(), RatingFilter{UserID: &userID, SongID: &songID})
	if err != nil {
		t.Fatalf("ListRatings error: %v", err)
	}
	if len(got) != 1 || got[0].Rating != 5 {
		t.Fatalf("unexpected ratings %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListRatingsUnfiltered(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT r.user_id, u.username, r.song_id, s.title, r.rating
		FROM song_ratings r
		JOIN users u ON r.user_id = u.id
		JOIN songs s ON r.song_id = s.id
		ORDER BY s.title ASC, r.rating DESC
	`)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "song_id", "title", "rating"}))

	got, err := s.ListRatings(context.Background(), RatingFilter{})
	if err != nil {
		t.Fatalf("ListRatings error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no ratings, got %d", len(got))
	}
}

func TestDeleteRatingAbsentPair(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM song_ratings
		WHERE user_id = $1 AND song_id = $2
	`)).
		WithArgs(int64(1), int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := s.DeleteRating(context.Background(), 1, 100)
	if err != nil {
		t.Fatalf("DeleteRating error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows affected, got %d", n)
	}
}
