package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAddSongToPlaylist(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name FROM playlists WHERE id = $1`)).
		WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Morning Mix"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT title FROM songs WHERE id = $1`)).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Roygbiv"))
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO playlist_songs (playlist_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (playlist_id, song_id) DO NOTHING
	`)).
		WithArgs(int64(20), int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	added, err := s.AddSongToPlaylist(context.Background(), 20, 100)
	if err != nil {
		t.Fatalf("AddSongToPlaylist error: %v", err)
	}
	if !added {
		t.Fatalf("expected added=true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddSongToPlaylistDuplicateIsNoOp(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name FROM playlists WHERE id = $1`)).
		WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Morning Mix"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT title FROM songs WHERE id = $1`)).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Roygbiv"))
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO playlist_songs (playlist_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (playlist_id, song_id) DO NOTHING
	`)).
		WithArgs(int64(20), int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	added, err := s.AddSongToPlaylist(context.Background(), 20, 100)
	if err != nil {
		t.Fatalf("AddSongToPlaylist error: %v", err)
	}
	if added {
		t.Fatalf("expected added=false for duplicate entry")
	}
}

func TestAddSongToPlaylistMissingPlaylist(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name FROM playlists WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	_, err := s.AddSongToPlaylist(context.Background(), 404, 100)
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestListPlaylistSongsOrdering(t *testing.T) {
	s, mock := newMockStore(t)

	first := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name FROM playlists WHERE id = $1`)).
		WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Morning Mix"))
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT ps.song_id, s.title, al.title, ar.name, ps.added_at
		FROM playlist_songs ps
		JOIN songs s ON ps.song_id = s.id
		JOIN albums al ON s.album_id = al.id
		JOIN artists ar ON al.artist_id = ar.id
		WHERE ps.playlist_id = $1
		ORDER BY ps.added_at ASC, ps.song_id ASC
	`)).
		WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"song_id", "title", "album", "artist", "added_at"}).
			AddRow(int64(1), "Aquarius", "Album", "Artist", first).
			AddRow(int64(2), "Roygbiv", "Album", "Artist", second))

	got, err := s.ListPlaylistSongs(context.Background(), 20)
	if err != nil {
		t.Fatalf("ListPlaylistSongs error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Title != "Aquarius" || got[1].Title != "Roygbiv" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestRemoveSongFromPlaylistAbsentPair(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2
	`)).
		WithArgs(int64(20), int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := s.RemoveSongFromPlaylist(context.Background(), 20, 999)
	if err != nil {
		t.Fatalf("RemoveSongFromPlaylist error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows affected, got %d", n)
	}
}
