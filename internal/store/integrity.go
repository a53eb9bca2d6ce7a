package store

import (
	"context"
	"fmt"
)

// Delete guards. Artists and albums are the only entities whose deletion is
// refused while dependents exist; everything else cascades instead.

func canDeleteArtist(ctx context.Context, q querier, id int64) (bool, error) {
	var albums int
	if err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM albums WHERE artist_id = $1
	`, id).Scan(&albums); err != nil {
		return false, fmt.Errorf("count artist albums: %w", err)
	}
	return albums == 0, nil
}

func canDeleteAlbum(ctx context.Context, q querier, id int64) (bool, error) {
	var songs int
	if err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM songs WHERE album_id = $1
	`, id).Scan(&songs); err != nil {
		return false, fmt.Errorf("count album songs: %w", err)
	}
	return songs == 0, nil
}
