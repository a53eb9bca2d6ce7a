package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"tunecrate/internal/logging"
	"tunecrate/internal/store"
)

// runMenu drives the interactive console. All catalog rules live in the
// store; this layer only prompts, dispatches, and renders.
func runMenu(ctx context.Context, st *store.Store) error {
	c := &console{in: bufio.NewReader(os.Stdin), out: os.Stdout, store: st}
	return c.run(ctx)
}

type console struct {
	in    *bufio.Reader
	out   io.Writer
	store *store.Store
	eof   bool
}

type menuItem struct {
	key, label string
}

func (c *console) run(ctx context.Context) error {
	for !c.eof {
		choice := c.menuChoice("Music Catalog", []menuItem{
			{"1", "Manage Users"},
			{"2", "Manage Artists"},
			{"3", "Manage Albums"},
			{"4", "Manage Songs"},
			{"5", "Manage Playlists"},
			{"6", "Manage Playlist Songs"},
			{"7", "Play History"},
			{"8", "Manage Ratings"},
			{"9", "Provision Tables"},
			{"10", "Manage Likes"},
			{"11", "Manage Follows"},
			{"12", "Manage Comments"},
			{"0", "Exit"},
		})
		switch choice {
		case "1":
			c.manageUsers(ctx)
		case "2":
			c.manageArtists(ctx)
		case "3":
			c.manageAlbums(ctx)
		case "4":
			c.manageSongs(ctx)
		case "5":
			c.managePlaylists(ctx)
		case "6":
			c.managePlaylistSongs(ctx)
		case "7":
			c.managePlayHistory(ctx)
		case "8":
			c.manageRatings(ctx)
		case "9":
			c.provision(ctx)
		case "10":
			c.manageLikes(ctx)
		case "11":
			c.manageFollows(ctx)
		case "12":
			c.manageComments(ctx)
		case "0":
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}
	}
	return nil
}

func (c *console) provision(ctx context.Context) {
	opCtx := opContext(ctx)
	if err := c.store.Provision(opCtx); err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("provision failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Msg("schema provisioned")
	fmt.Fprintln(c.out, "All tables created.")
}

// ---- Users ----

func (c *console) manageUsers(ctx context.Context) {
	for !c.eof {
		switch c.menuChoice("User Management", crudItems("User")) {
		case "1":
			c.addUser(ctx)
		case "2":
			c.showUsers(ctx)
		case "3":
			c.updateUser(ctx)
		case "4":
			c.deleteUser(ctx)
		case "5":
			return
		}
	}
}

func (c *console) addUser(ctx context.Context) {
	nu := store.NewUser{
		Username: c.prompt("Username"),
		Email:    c.prompt("Email"),
		Password: c.prompt("Password"),
	}

	opCtx := opContext(ctx)
	u, err := c.store.CreateUser(opCtx, nu)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("create user failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int64("user_id", u.ID).Msg("user created")
	fmt.Fprintf(c.out, "User %q added with id %d.\n", u.Username, u.ID)
}

func (c *console) showUsers(ctx context.Context) {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		c.report(err)
		return
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{formatID(u.ID), u.Username, u.Email, formatTime(u.CreatedAt)})
	}
	c.table([]string{"ID", "Username", "Email", "Created At"}, rows)
}

func (c *console) updateUser(ctx context.Context) {
	c.showUsers(ctx)
	id, ok := c.promptID("User id to update")
	if !ok {
		return
	}
	current, err := c.store.GetUser(ctx, id)
	if err != nil {
		c.report(err)
		return
	}

	up := store.UserUpdate{
		Username: c.promptDefault("New username", current.Username),
		Email:    c.promptDefault("New email", current.Email),
		Password: c.prompt("New password (blank keeps current)"),
	}

	opCtx := opContext(ctx)
	if _, err := c.store.UpdateUser(opCtx, id, up); err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("update user failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int64("user_id", id).Msg("user updated")
	fmt.Fprintf(c.out, "User %d updated.\n", id)
}

func (c *console) deleteUser(ctx context.Context) {
	c.showUsers(ctx)
	id, ok := c.promptID("User id to delete")
	if !ok {
		return
	}
	if !c.confirm(fmt.Sprintf("Delete user %d and everything it owns?", id)) {
		return
	}

	opCtx := opContext(ctx)
	n, err := c.store.DeleteUser(opCtx, id)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("delete user failed")
		c.report(err)
		return
	}
	if n == 0 {
		fmt.Fprintln(c.out, "User not found.")
		return
	}
	logging.FromContext(opCtx).Info().Int64("user_id", id).Msg("user deleted")
	fmt.Fprintf(c.out, "User %d deleted.\n", id)
}

// ---- Artists ----

func (c *console) manageArtists(ctx context.Context) {
	for !c.eof {
		switch c.menuChoice("Artist Management", crudItems("Artist")) {
		case "1":
			c.addArtist(ctx)
		case "2":
			c.showArtists(ctx)
		case "3":
			c.updateArtist(ctx)
		case "4":
			c.deleteArtist(ctx)
		case "5":
			return
		}
	}
}

func (c *console) addArtist(ctx context.Context) {
	na := store.NewArtist{
		Name: c.prompt("Artist name"),
		Bio:  c.promptOptional("Bio (optional)"),
	}

	opCtx := opContext(ctx)
	a, err := c.store.CreateArtist(opCtx, na)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("create artist failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int64("artist_id", a.ID).Msg("artist created")
	fmt.Fprintf(c.out, "Artist %q added with id %d.\n", a.Name, a.ID)
}

func (c *console) showArtists(ctx context.Context) {
	artists, err := c.store.ListArtists(ctx)
	if err != nil {
		c.report(err)
		return
	}
	rows := make([][]string, 0, len(artists))
	for _, a := range artists {
		rows = append(rows, []string{formatID(a.ID), a.Name, formatOptional(a.Bio)})
	}
	c.table([]string{"ID", "Name", "Bio"}, rows)
}

func (c *console) updateArtist(ctx context.Context) {
	c.showArtists(ctx)
	id, ok := c.promptID("Artist id to update")
	if !ok {
		return
	}
	current, err := c.store.GetArtist(ctx, id)
	if err != nil {
		c.report(err)
		return
	}

	na := store.NewArtist{
		Name: c.promptDefault("New name", current.Name),
		Bio:  c.promptOptionalDefault("New bio", current.Bio),
	}

	opCtx := opContext(ctx)
	if _, err := c.store.UpdateArtist(opCtx, id, na); err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("update artist failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int64("artist_id", id).Msg("artist updated")
	fmt.Fprintf(c.out, "Artist %d updated.\n", id)
}

func (c *console) deleteArtist(ctx context.Context) {
	c.showArtists(ctx)
	id, ok := c.promptID("Artist id to delete")
	if !ok {
		return
	}
	if !c.confirm(fmt.Sprintf("Delete artist %d?", id)) {
		return
	}

	opCtx := opContext(ctx)
	n, err := c.store.DeleteArtist(opCtx, id)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("delete artist failed")
		c.report(err)
		return
	}
	if n == 0 {
		fmt.Fprintln(c.out, "Artist not found.")
		return
	}
	logging.FromContext(opCtx).Info().Int64("artist_id", id).Msg("artist deleted")
	fmt.Fprintf(c.out, "Artist %d deleted.\n", id)
}

// ---- Albums ----

func (c *console) manageAlbums(ctx context.Context) {
	for !c.eof {
		switch c.menuChoice("Album Management", crudItems("Album")) {
		case "1":
			c.addAlbum(ctx)
		case "2":
			c.showAlbums(ctx)
		case "3":
			c.updateAlbum(ctx)
		case "4":
			c.deleteAlbum(ctx)
		case "5":
			return
		}
	}
}

func (c *console) addAlbum(ctx context.Context) {
	c.showArtists(ctx)
	artistID, ok := c.promptID("Artist id for the album")
	if !ok {
		return
	}
	title := c.prompt("Album title")
	released, ok := c.promptOptionalDate("Release date (YYYY-MM-DD, optional)")
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	a, err := c.store.CreateAlbum(opCtx, store.NewAlbum{Title: title, ArtistID: artistID, ReleaseDate: released})
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("create album failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int64("album_id", a.ID).Msg("album created")
	fmt.Fprintf(c.out, "Album %q added with id %d.\n", a.Title, a.ID)
}

func (c *console) showAlbums(ctx context.Context) {
	albums, err := c.store.ListAlbums(ctx)
	if err != nil {
		c.report(err)
		return
	}
	rows := make([][]string, 0, len(albums))
	for _, a := range albums {
		rows = append(rows, []string{formatID(a.ID), a.Title, a.ArtistName, formatDate(a.ReleaseDate)})
	}
	c.table([]string{"ID", "Title", "Artist", "Release Date"}, rows)
}

func (c *console) updateAlbum(ctx context.Context) {
	c.showAlbums(ctx)
	id, ok := c.promptID("Album id to update")
	if !ok {
		return
	}
	current, err := c.store.GetAlbum(ctx, id)
	if err != nil {
		c.report(err)
		return
	}

	title := c.promptDefault("New title", current.Title)
	c.showArtists(ctx)
	artistID, ok := c.promptIDDefault("New artist id", current.ArtistID)
	if !ok {
		return
	}
	released, ok := c.promptOptionalDate("New release date (YYYY-MM-DD, blank clears)")
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	if _, err := c.store.UpdateAlbum(opCtx, id, store.NewAlbum{Title: title, ArtistID: artistID, ReleaseDate: released}); err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("update album failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int64("album_id", id).Msg("album updated")
	fmt.Fprintf(c.out, "Album %d updated.\n", id)
}

func (c *console) deleteAlbum(ctx context.Context) {
	c.showAlbums(ctx)
	id, ok := c.promptID("Album id to delete")
	if !ok {
		return
	}
	if !c.confirm(fmt.Sprintf("Delete album %d?", id)) {
		return
	}

	opCtx := opContext(ctx)
	n, err := c.store.DeleteAlbum(opCtx, id)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("delete album failed")
		c.report(err)
		return
	}
	if n == 0 {
		fmt.Fprintln(c.out, "Album not found.")
		return
	}
	logging.FromContext(opCtx).Info().Int64("album_id", id).Msg("album deleted")
	fmt.Fprintf(c.out, "Album %d deleted.\n", id)
}

// ---- Songs ----

func (c *console) manageSongs(ctx context.Context) {
	for !c.eof {
		switch c.menuChoice("Song Management", crudItems("Song")) {
		case "1":
			c.addSong(ctx)
		case "2":
			c.showSongs(ctx)
		case "3":
			c.updateSong(ctx)
		case "4":
			c.deleteSong(ctx)
		case "5":
			return
		}
	}
}

func (c *console) addSong(ctx context.Context) {
	c.showAlbums(ctx)
	albumID, ok := c.promptID("Album id for the song")
	if !ok {
		return
	}
	title := c.prompt("Song title")
	duration, ok := c.promptOptionalInt("Duration in seconds (optional)")
	if !ok {
		return
	}
	filePath := c.prompt("File path")

	opCtx := opContext(ctx)
	song, err := c.store.CreateSong(opCtx, store.NewSong{Title: title, AlbumID: albumID, Duration: duration, FilePath: filePath})
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("create song failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int64("song_id", song.ID).Msg("song created")
	fmt.Fprintf(c.out, "Song %q added with id %d.\n", song.Title, song.ID)
}

func (c *console) showSongs(ctx context.Context) {
	songs, err := c.store.ListSongs(ctx)
	if err != nil {
		c.report(err)
		return
	}
	rows := make([][]string, 0, len(songs))
	for _, s := range songs {
		rows = append(rows, []string{
			formatID(s.ID), s.Title, s.AlbumTitle, s.ArtistName, formatSeconds(s.Duration), s.FilePath,
		})
	}
	c.table([]string{"ID", "Title", "Album", "Artist", "Duration (sec)", "File Path"}, rows)
}

func (c *console) updateSong(ctx context.Context) {
	c.showSongs(ctx)
	id, ok := c.promptID("Song id to update")
	if !ok {
		return
	}
	current, err := c.store.GetSong(ctx, id)
	if err != nil {
		c.report(err)
		return
	}

	title := c.promptDefault("New title", current.Title)
	c.showAlbums(ctx)
	albumID, ok := c.promptIDDefault("New album id", current.AlbumID)
	if !ok {
		return
	}
	duration, ok := c.promptOptionalInt("New duration in seconds (blank clears)")
	if !ok {
		return
	}
	filePath := c.promptDefault("New file path", current.FilePath)

	opCtx := opContext(ctx)
	if _, err := c.store.UpdateSong(opCtx, id, store.NewSong{Title: title, AlbumID: albumID, Duration: duration, FilePath: filePath}); err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("update song failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int64("song_id", id).Msg("song updated")
	fmt.Fprintf(c.out, "Song %d updated.\n", id)
}

func (c *console) deleteSong(ctx context.Context) {
	c.showSongs(ctx)
	id, ok := c.promptID("Song id to delete")
	if !ok {
		return
	}
	if !c.confirm(fmt.Sprintf("Delete song %d and every reference to it?", id)) {
		return
	}

	opCtx := opContext(ctx)
	n, err := c.store.DeleteSong(opCtx, id)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("delete song failed")
		c.report(err)
		return
	}
	if n == 0 {
		fmt.Fprintln(c.out, "Song not found.")
		return
	}
	logging.FromContext(opCtx).Info().Int64("song_id", id).Msg("song deleted")
	fmt.Fprintf(c.out, "Song %d deleted.\n", id)
}

// ---- Playlists ----

func (c *console) managePlaylists(ctx context.Context) {
	for !c.eof {
		switch c.menuChoice("Playlist Management", crudItems("Playlist")) {
		case "1":
			c.addPlaylist(ctx)
		case "2":
			c.showPlaylists(ctx)
		case "3":
			c.updatePlaylist(ctx)
		case "4":
			c.deletePlaylist(ctx)
		case "5":
			return
		}
	}
}

func (c *console) addPlaylist(ctx context.Context) {
	c.showUsers(ctx)
	userID, ok := c.promptID("User id for the playlist")
	if !ok {
		return
	}
	name := c.prompt("Playlist name")

	opCtx := opContext(ctx)
	p, err := c.store.CreatePlaylist(opCtx, store.NewPlaylist{Name: name, UserID: userID})
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("create playlist failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int64("playlist_id", p.ID).Msg("playlist created")
	fmt.Fprintf(c.out, "Playlist %q added with id %d.\n", p.Name, p.ID)
}

func (c *console) showPlaylists(ctx context.Context) {
	playlists, err := c.store.ListPlaylists(ctx)
	if err != nil {
		c.report(err)
		return
	}
	rows := make([][]string, 0, len(playlists))
	for _, p := range playlists {
		rows = append(rows, []string{formatID(p.ID), p.Name, p.Owner})
	}
	c.table([]string{"ID", "Name", "Owner"}, rows)
}

func (c *console) updatePlaylist(ctx context.Context) {
	c.showPlaylists(ctx)
	id, ok := c.promptID("Playlist id to update")
	if !ok {
		return
	}
	current, err := c.store.GetPlaylist(ctx, id)
	if err != nil {
		c.report(err)
		return
	}

	name := c.promptDefault("New name", current.Name)
	c.showUsers(ctx)
	userID, ok := c.promptIDDefault("New owner user id", current.UserID)
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	if _, err := c.store.UpdatePlaylist(opCtx, id, store.NewPlaylist{Name: name, UserID: userID}); err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("update playlist failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int64("playlist_id", id).Msg("playlist updated")
	fmt.Fprintf(c.out, "Playlist %d updated.\n", id)
}

func (c *console) deletePlaylist(ctx context.Context) {
	c.showPlaylists(ctx)
	id, ok := c.promptID("Playlist id to delete")
	if !ok {
		return
	}
	if !c.confirm(fmt.Sprintf("Delete playlist %d and its entries?", id)) {
		return
	}

	opCtx := opContext(ctx)
	n, err := c.store.DeletePlaylist(opCtx, id)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("delete playlist failed")
		c.report(err)
		return
	}
	if n == 0 {
		fmt.Fprintln(c.out, "Playlist not found.")
		return
	}
	logging.FromContext(opCtx).Info().Int64("playlist_id", id).Msg("playlist deleted")
	fmt.Fprintf(c.out, "Playlist %d deleted.\n", id)
}

// ---- Playlist songs ----

func (c *console) managePlaylistSongs(ctx context.Context) {
	for !c.eof {
		switch c.menuChoice("Playlist Songs", []menuItem{
			{"1", "Add Song to Playlist"},
			{"2", "View Songs in Playlist"},
			{"3", "Remove Song from Playlist"},
			{"4", "Back"},
		}) {
		case "1":
			c.addPlaylistSong(ctx)
		case "2":
			c.showPlaylistSongs(ctx)
		case "3":
			c.removePlaylistSong(ctx)
		case "4":
			return
		}
	}
}

func (c *console) addPlaylistSong(ctx context.Context) {
	c.showPlaylists(ctx)
	playlistID, ok := c.promptID("Playlist id")
	if !ok {
		return
	}
	c.showSongs(ctx)
	songID, ok := c.promptID("Song id to add")
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	added, err := c.store.AddSongToPlaylist(opCtx, playlistID, songID)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("add playlist song failed")
		c.report(err)
		return
	}
	if !added {
		fmt.Fprintln(c.out, "Song is already in this playlist.")
		return
	}
	logging.FromContext(opCtx).Info().Int64("playlist_id", playlistID).Int64("song_id", songID).Msg("playlist entry added")
	fmt.Fprintf(c.out, "Song %d added to playlist %d.\n", songID, playlistID)
}

func (c *console) showPlaylistSongs(ctx context.Context) {
	c.showPlaylists(ctx)
	playlistID, ok := c.promptID("Playlist id to view")
	if !ok {
		return
	}
	entries, err := c.store.ListPlaylistSongs(ctx, playlistID)
	if err != nil {
		c.report(err)
		return
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{formatID(e.SongID), e.Title, e.AlbumTitle, e.ArtistName, formatTime(e.AddedAt)})
	}
	c.table([]string{"Song ID", "Title", "Album", "Artist", "Added At"}, rows)
}

func (c *console) removePlaylistSong(ctx context.Context) {
	c.showPlaylists(ctx)
	playlistID, ok := c.promptID("Playlist id")
	if !ok {
		return
	}
	songID, ok := c.promptID("Song id to remove")
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	n, err := c.store.RemoveSongFromPlaylist(opCtx, playlistID, songID)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("remove playlist song failed")
		c.report(err)
		return
	}
	if n == 0 {
		fmt.Fprintln(c.out, "Song not found in this playlist.")
		return
	}
	fmt.Fprintf(c.out, "Song %d removed from playlist %d.\n", songID, playlistID)
}

// ---- Play history ----

func (c *console) managePlayHistory(ctx context.Context) {
	for !c.eof {
		switch c.menuChoice("Play History", []menuItem{
			{"1", "Record Play"},
			{"2", "View History"},
			{"3", "Back"},
		}) {
		case "1":
			c.recordPlay(ctx)
		case "2":
			c.showPlayHistory(ctx)
		case "3":
			return
		}
	}
}

func (c *console) recordPlay(ctx context.Context) {
	c.showUsers(ctx)
	userID, ok := c.promptID("User id")
	if !ok {
		return
	}
	c.showSongs(ctx)
	songID, ok := c.promptID("Song id")
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	e, err := c.store.RecordPlay(opCtx, userID, songID)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("record play failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int64("play_id", e.ID).Msg("play recorded")
	fmt.Fprintf(c.out, "Recorded play of %q by %s.\n", e.SongTitle, e.Username)
}

func (c *console) showPlayHistory(ctx context.Context) {
	filter := store.HistoryFilter{UserID: c.promptOptionalID("User id to filter (blank for all)")}
	events, err := c.store.ListPlayHistory(ctx, filter)
	if err != nil {
		c.report(err)
		return
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{formatID(e.ID), e.SongTitle, e.Username, formatTime(e.PlayedAt)})
	}
	c.table([]string{"ID", "Song", "User", "Played At"}, rows)
}

// ---- Ratings ----

func (c *console) manageRatings(ctx context.Context) {
	for !c.eof {
		switch c.menuChoice("Song Ratings", []menuItem{
			{"1", "Add/Update Rating"},
			{"2", "View Ratings"},
			{"3", "Delete Rating"},
			{"4", "Back"},
		}) {
		case "1":
			c.rateSong(ctx)
		case "2":
			c.showRatings(ctx)
		case "3":
			c.deleteRating(ctx)
		case "4":
			return
		}
	}
}

func (c *console) rateSong(ctx context.Context) {
	c.showUsers(ctx)
	userID, ok := c.promptID("User id")
	if !ok {
		return
	}
	c.showSongs(ctx)
	songID, ok := c.promptID("Song id")
	if !ok {
		return
	}
	rating, ok := c.promptInt("Rating (1-5)")
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	r, err := c.store.RateSong(opCtx, userID, songID, rating)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("rate song failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int("rating", r.Rating).Msg("rating saved")
	fmt.Fprintf(c.out, "Rating %d saved for %q by %s.\n", r.Rating, r.SongTitle, r.Username)
}

func (c *console) showRatings(ctx context.Context) {
	filter := store.RatingFilter{
		UserID: c.promptOptionalID("User id to filter (blank for all)"),
		SongID: c.promptOptionalID("Song id to filter (blank for all)"),
	}
	ratings, err := c.store.ListRatings(ctx, filter)
	if err != nil {
		c.report(err)
		return
	}
	rows := make([][]string, 0, len(ratings))
	for _, r := range ratings {
		rows = append(rows, []string{r.Username, r.SongTitle, stars(r.Rating)})
	}
	c.table([]string{"User", "Song", "Rating"}, rows)
}

func (c *console) deleteRating(ctx context.Context) {
	userID, ok := c.promptID("User id")
	if !ok {
		return
	}
	songID, ok := c.promptID("Song id")
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	n, err := c.store.DeleteRating(opCtx, userID, songID)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("delete rating failed")
		c.report(err)
		return
	}
	if n == 0 {
		fmt.Fprintln(c.out, "Rating not found.")
		return
	}
	fmt.Fprintln(c.out, "Rating deleted.")
}

// ---- Likes ----

func (c *console) manageLikes(ctx context.Context) {
	for !c.eof {
		switch c.menuChoice("Song Likes", []menuItem{
			{"1", "Add Like"},
			{"2", "Show Likes"},
			{"3", "Delete Like"},
			{"4", "Back"},
		}) {
		case "1":
			c.likeSong(ctx)
		case "2":
			c.showLikes(ctx)
		case "3":
			c.unlikeSong(ctx)
		case "4":
			return
		}
	}
}

func (c *console) likeSong(ctx context.Context) {
	c.showUsers(ctx)
	userID, ok := c.promptID("User id")
	if !ok {
		return
	}
	c.showSongs(ctx)
	songID, ok := c.promptID("Song id")
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	added, err := c.store.LikeSong(opCtx, userID, songID)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("like song failed")
		c.report(err)
		return
	}
	if !added {
		fmt.Fprintln(c.out, "User already liked this song.")
		return
	}
	fmt.Fprintln(c.out, "Like added.")
}

func (c *console) showLikes(ctx context.Context) {
	filter := store.LikeFilter{SongID: c.promptOptionalID("Song id to filter (blank for all)")}
	likes, err := c.store.ListLikes(ctx, filter)
	if err != nil {
		c.report(err)
		return
	}
	rows := make([][]string, 0, len(likes))
	for _, l := range likes {
		rows = append(rows, []string{l.Username, l.SongTitle, formatTime(l.LikedAt)})
	}
	c.table([]string{"User", "Song", "Liked At"}, rows)
}

func (c *console) unlikeSong(ctx context.Context) {
	userID, ok := c.promptID("User id")
	if !ok {
		return
	}
	songID, ok := c.promptID("Song id")
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	n, err := c.store.UnlikeSong(opCtx, userID, songID)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("unlike song failed")
		c.report(err)
		return
	}
	if n == 0 {
		fmt.Fprintln(c.out, "Like not found.")
		return
	}
	fmt.Fprintln(c.out, "Like deleted.")
}

// ---- Follows ----

func (c *console) manageFollows(ctx context.Context) {
	for !c.eof {
		switch c.menuChoice("Artist Follows", []menuItem{
			{"1", "Follow Artist"},
			{"2", "Show Follows"},
			{"3", "Unfollow Artist"},
			{"4", "Back"},
		}) {
		case "1":
			c.followArtist(ctx)
		case "2":
			c.showFollows(ctx)
		case "3":
			c.unfollowArtist(ctx)
		case "4":
			return
		}
	}
}

func (c *console) followArtist(ctx context.Context) {
	c.showUsers(ctx)
	userID, ok := c.promptID("User id")
	if !ok {
		return
	}
	c.showArtists(ctx)
	artistID, ok := c.promptID("Artist id")
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	added, err := c.store.FollowArtist(opCtx, userID, artistID)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("follow artist failed")
		c.report(err)
		return
	}
	if !added {
		fmt.Fprintln(c.out, "User already follows this artist.")
		return
	}
	fmt.Fprintln(c.out, "Artist followed.")
}

func (c *console) showFollows(ctx context.Context) {
	filter := store.FollowFilter{UserID: c.promptOptionalID("User id to filter (blank for all)")}
	follows, err := c.store.ListFollows(ctx, filter)
	if err != nil {
		c.report(err)
		return
	}
	rows := make([][]string, 0, len(follows))
	for _, f := range follows {
		rows = append(rows, []string{f.Username, f.ArtistName, formatTime(f.FollowedAt)})
	}
	c.table([]string{"User", "Artist", "Followed At"}, rows)
}

func (c *console) unfollowArtist(ctx context.Context) {
	userID, ok := c.promptID("User id")
	if !ok {
		return
	}
	artistID, ok := c.promptID("Artist id")
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	n, err := c.store.UnfollowArtist(opCtx, userID, artistID)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("unfollow artist failed")
		c.report(err)
		return
	}
	if n == 0 {
		fmt.Fprintln(c.out, "Follow not found.")
		return
	}
	fmt.Fprintln(c.out, "Unfollowed.")
}

// ---- Comments ----

func (c *console) manageComments(ctx context.Context) {
	for !c.eof {
		switch c.menuChoice("Song Comments", []menuItem{
			{"1", "Add Comment"},
			{"2", "Show Comments"},
			{"3", "Delete Comment"},
			{"4", "Back"},
		}) {
		case "1":
			c.addComment(ctx)
		case "2":
			c.showComments(ctx)
		case "3":
			c.deleteComment(ctx)
		case "4":
			return
		}
	}
}

func (c *console) addComment(ctx context.Context) {
	c.showUsers(ctx)
	userID, ok := c.promptID("User id")
	if !ok {
		return
	}
	c.showSongs(ctx)
	songID, ok := c.promptID("Song id")
	if !ok {
		return
	}
	text := c.prompt("Comment text")

	opCtx := opContext(ctx)
	cm, err := c.store.CreateComment(opCtx, store.NewComment{UserID: userID, SongID: songID, Text: text})
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("create comment failed")
		c.report(err)
		return
	}
	logging.FromContext(opCtx).Info().Int64("comment_id", cm.ID).Msg("comment created")
	fmt.Fprintln(c.out, "Comment added.")
}

func (c *console) showComments(ctx context.Context) {
	filter := store.CommentFilter{SongID: c.promptOptionalID("Song id to filter (blank for all)")}
	comments, err := c.store.ListComments(ctx, filter)
	if err != nil {
		c.report(err)
		return
	}
	rows := make([][]string, 0, len(comments))
	for _, cm := range comments {
		rows = append(rows, []string{formatID(cm.ID), cm.Username, cm.SongTitle, cm.Text, formatTime(cm.CommentedAt)})
	}
	c.table([]string{"ID", "User", "Song", "Comment", "Commented At"}, rows)
}

func (c *console) deleteComment(ctx context.Context) {
	c.showComments(ctx)
	id, ok := c.promptID("Comment id to delete")
	if !ok {
		return
	}

	opCtx := opContext(ctx)
	n, err := c.store.DeleteComment(opCtx, id)
	if err != nil {
		logging.FromContext(opCtx).Error().Err(err).Msg("delete comment failed")
		c.report(err)
		return
	}
	if n == 0 {
		fmt.Fprintln(c.out, "Comment not found.")
		return
	}
	fmt.Fprintln(c.out, "Comment deleted.")
}

// ---- Prompt and render helpers ----

func opContext(ctx context.Context) context.Context {
	return logging.WithRequestID(ctx, uuid.NewString())
}

func crudItems(entity string) []menuItem {
	return []menuItem{
		{"1", "Add " + entity},
		{"2", "View All " + entity + "s"},
		{"3", "Update " + entity},
		{"4", "Delete " + entity},
		{"5", "Back"},
	}
}

func (c *console) menuChoice(title string, items []menuItem) string {
	fmt.Fprintf(c.out, "\n== %s ==\n", title)
	for _, item := range items {
		fmt.Fprintf(c.out, "  %s) %s\n", item.key, item.label)
	}
	return c.prompt("Choose an option")
}

func (c *console) prompt(label string) string {
	fmt.Fprintf(c.out, "%s: ", label)
	line, err := c.in.ReadString('\n')
	if err != nil {
		c.eof = true
	}
	return strings.TrimSpace(line)
}

func (c *console) promptDefault(label, current string) string {
	value := c.prompt(fmt.Sprintf("%s (current: %s)", label, current))
	if value == "" {
		return current
	}
	return value
}

func (c *console) promptOptional(label string) *string {
	value := c.prompt(label)
	if value == "" {
		return nil
	}
	return &value
}

func (c *console) promptOptionalDefault(label string, current *string) *string {
	value := c.prompt(fmt.Sprintf("%s (current: %s)", label, formatOptional(current)))
	if value == "" {
		return current
	}
	return &value
}

func (c *console) promptID(label string) (int64, bool) {
	value := c.prompt(label)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		fmt.Fprintf(c.out, "Not a valid id: %q\n", value)
		return 0, false
	}
	return id, true
}

func (c *console) promptIDDefault(label string, current int64) (int64, bool) {
	value := c.prompt(fmt.Sprintf("%s (current: %d)", label, current))
	if value == "" {
		return current, true
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		fmt.Fprintf(c.out, "Not a valid id: %q\n", value)
		return 0, false
	}
	return id, true
}

func (c *console) promptOptionalID(label string) *int64 {
	value := c.prompt(label)
	if value == "" {
		return nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		fmt.Fprintf(c.out, "Ignoring invalid id %q.\n", value)
		return nil
	}
	return &id
}

func (c *console) promptInt(label string) (int, bool) {
	value := c.prompt(label)
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(c.out, "Not a valid number: %q\n", value)
		return 0, false
	}
	return n, true
}

func (c *console) promptOptionalInt(label string) (*int, bool) {
	value := c.prompt(label)
	if value == "" {
		return nil, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(c.out, "Not a valid number: %q\n", value)
		return nil, false
	}
	return &n, true
}

func (c *console) promptOptionalDate(label string) (*time.Time, bool) {
	value := c.prompt(label)
	if value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		fmt.Fprintf(c.out, "Not a valid date: %q (want YYYY-MM-DD)\n", value)
		return nil, false
	}
	return &t, true
}

func (c *console) confirm(question string) bool {
	answer := strings.ToLower(c.prompt(question + " [y/N]"))
	return answer == "y" || answer == "yes"
}

func (c *console) report(err error) {
	switch {
	case errors.Is(err, store.ErrInvalid):
		fmt.Fprintf(c.out, "Invalid input: %v\n", err)
	case errors.Is(err, store.ErrConflict):
		fmt.Fprintf(c.out, "Refused: %v\n", err)
	case errors.Is(err, store.ErrNotFound):
		fmt.Fprintf(c.out, "Not found: %v\n", err)
	default:
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

func (c *console) table(header []string, rows [][]string) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("2006-01-02")
}

func formatOptional(v *string) string {
	if v == nil {
		return "N/A"
	}
	return *v
}

func formatSeconds(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}

func stars(rating int) string {
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
