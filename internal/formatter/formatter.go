// package formatter renders playback state into chat-ready announcement lines
package formatter

import (
	"fmt"
	"strings"

	"github.com/desertthunder/nowplaying/internal/services"
)

const (
	unknownTrack = "Unknown Track"
	unknownAlbum = "Unknown Album"
)

// Announce renders a playback state as a single announcement line.
//
// Returns the empty string when there is nothing to display: a nil state or
// one where nothing is playing. Artist names are comma-joined in API order,
// missing track and album names fall back to placeholders, and the Listen
// segment is omitted entirely when the track has no external URL.
func Announce(playback *services.Playback) string {
	if playback == nil || !playback.Playing {
		return ""
	}

	var artists, title, album, listenURL string
	var durationMS int

	if track := playback.Track; track != nil {
		artists = strings.Join(track.Artists, ", ")
		title = track.Title
		album = track.Album
		listenURL = track.URL
		durationMS = track.DurationMS
	}

	if title == "" {
		title = unknownTrack
	}
	if album == "" {
		album = unknownAlbum
	}

	line := fmt.Sprintf("Now playing: %s - %s | (from %s) | Progress: %s/%s",
		artists, title, album, Timestamp(playback.ProgressMS), Timestamp(durationMS))

	if listenURL != "" {
		line += " | Listen: " + listenURL
	}

	return line
}

// Timestamp renders a millisecond offset as minutes:seconds with the seconds
// zero-padded to two digits. Milliseconds truncate via integer division.
func Timestamp(ms int) string {
	totalSeconds := ms / 1000
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
