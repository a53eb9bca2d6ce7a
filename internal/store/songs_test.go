package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestValidateSong(t *testing.T) {
	duration := 245
	negative := -3

	tests := []struct {
		name    string
		song    NewSong
		wantErr bool
	}{
		{
			name: "valid song",
			song: NewSong{Title: "Roygbiv", AlbumID: 1, Duration: &duration, FilePath: "/music/roygbiv.flac"},
		},
		{
			name: "valid song without duration",
			song: NewSong{Title: "Roygbiv", AlbumID: 1, FilePath: "/music/roygbiv.flac"},
		},
		{
			name:    "missing title",
			song:    NewSong{AlbumID: 1, FilePath: "/music/x.flac"},
			wantErr: true,
		},
		{
			name:    "missing file path",
			song:    NewSong{Title: "Roygbiv", AlbumID: 1},
			wantErr: true,
		},
		{
			name:    "non-positive duration",
			song:    NewSong{Title: "Roygbiv", AlbumID: 1, Duration: &negative, FilePath: "/music/x.flac"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := validateSong(tc.song)
			if tc.wantErr && !errors.Is(err, ErrInvalidSong) {
				t.Fatalf("expected ErrInvalidSong, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected nil error but got %v", err)
			}
		})
	}
}

func TestCreateSongSuccess(t *testing.T) {
	s, mock := newMockStore(t)

	duration := 245
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT al.title, ar.name
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		WHERE al.id = $1
	`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"title", "name"}).
			AddRow("Music Has the Right to Children", "Boards of Canada"))
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO songs (title, album_id, duration, file_path)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`)).
		WithArgs("Roygbiv", int64(10), int64(245), "/music/roygbiv.flac").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))

	got, err := s.CreateSong(context.Background(), NewSong{
		Title:    " Roygbiv ",
		AlbumID:  10,
		Duration: &duration,
		FilePath: "/music/roygbiv.flac",
	})
	if err != nil {
		t.Fatalf("CreateSong error: %v", err)
	}
	if got.ID != 100 || got.AlbumTitle != "Music Has the Right to Children" || got.ArtistName != "Boards of Canada" {
		t.Fatalf("unexpected song %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSongMissingAlbum(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT al.title, ar.name
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		WHERE al.id = $1
	`)).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"title", "name"}))

	_, err := s.CreateSong(context.Background(), NewSong{
		Title:    "Orphan",
		AlbumID:  77,
		FilePath: "/music/orphan.flac",
	})
	if !errors.Is(err, ErrAlbumNotFound) {
		t.Fatalf("expected ErrAlbumNotFound, got %v", err)
	}
}

func TestDeleteSongCascades(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlist_songs WHERE song_id = $1`)).
		WithArgs(int64(100)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM play_history WHERE song_id = $1`)).
		WithArgs(int64(100)).WillReturnResult(sqlmock.NewResult(0, 6))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM song_ratings WHERE song_id = $1`)).
		WithArgs(int64(100)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM song_likes WHERE song_id = $1`)).
		WithArgs(int64(100)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM song_comments WHERE song_id = $1`)).
		WithArgs(int64(100)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM songs WHERE id = $1`)).
		WithArgs(int64(100)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := s.DeleteSong(context.Background(), 100)
	if err != nil {
		t.Fatalf("DeleteSong error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row affected, got %d", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListSongsScansNullDuration(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT s.id, s.title, s.album_id, al.title, ar.name, s.duration, s.file_path
		FROM songs s
		JOIN albums al ON s.album_id = al.id
		JOIN artists ar ON al.artist_id = ar.id
		ORDER BY s.title ASC, s.id ASC
	`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "album_id", "album_title", "artist", "duration", "file_path"}).
			AddRow(int64(1), "Aquarius", int64(10), "Album", "Artist", nil, "/music/a.flac").
			AddRow(int64(2), "Roygbiv", int64(10), "Album", "Artist", int64(245), "/music/r.flac"))

	got, err := s.ListSongs(context.Background())
	if err != nil {
		t.Fatalf("ListSongs error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(got))
	}
	if got[0].Duration != nil {
		t.Fatalf("expected nil duration for first song")
	}
	if got[1].Duration == nil || *got[1].Duration != 245 {
		t.Fatalf("expected duration 245 for second song, got %v", got[1].Duration)
	}
}
