package store

import (
	"context"
	"fmt"
	"time"
)

// PlaylistSong is one entry of a playlist, joined with song metadata.
type PlaylistSong struct {
	SongID     int64     `json:"songId"`
	Title      string    `json:"title"`
	AlbumTitle string    `json:"album"`
	ArtistName string    `json:"artist"`
	AddedAt    time.Time `json:"addedAt"`
}

// AddSongToPlaylist links a song into a playlist. Adding a song that is
// already present is a no-op, reported by added=false rather than an error.
func (s *Store) AddSongToPlaylist(ctx context.Context, playlistID, songID int64) (bool, error) {
	if _, err := playlistNameByID(ctx, s.db, playlistID); err != nil {
		return false, err
	}
	if _, err := songTitleByID(ctx, s.db, songID); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (playlist_id, song_id) DO NOTHING
	`, playlistID, songID)
	if err != nil {
		return false, fmt.Errorf("insert playlist entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

// ListPlaylistSongs returns the entries of a playlist in the order they were
// added. The playlist must exist.
func (s *Store) ListPlaylistSongs(ctx context.Context, playlistID int64) ([]PlaylistSong, error) {
	if _, err := playlistNameByID(ctx, s.db, playlistID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ps.song_id, s.title, al.title, ar.name, ps.added_at
		FROM playlist_songs ps
		JOIN songs s ON ps.song_id = s.id
		JOIN albums al ON s.album_id = al.id
		JOIN artists ar ON al.artist_id = ar.id
		WHERE ps.playlist_id = $1
		ORDER BY ps.added_at ASC, ps.song_id ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("select playlist entries: %w", err)
	}
	defer rows.Close()

	var entries []PlaylistSong
	for rows.Next() {
		var e PlaylistSong
		if err := rows.Scan(&e.SongID, &e.Title, &e.AlbumTitle, &e.ArtistName, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan playlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist entries: %w", err)
	}

	return entries, nil
}

// RemoveSongFromPlaylist unlinks a song from a playlist and reports how many
// entries were removed; 0 means the pair was absent.
func (s *Store) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2
	`, playlistID, songID)
	if err != nil {
		return 0, fmt.Errorf("delete playlist entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}
