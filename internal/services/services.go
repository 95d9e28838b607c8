// package services defines interface Service for playback providers
package services

import (
	"context"
)

// Service defines the interface for a music playback provider that can report
// the currently playing track.
type Service interface {
	// AuthURL returns the OAuth2 authorization URL for user login.
	// Pure URL construction; no side effects.
	AuthURL(state string) string

	// StartAuthentication prompts the user to reauthorize: logs the
	// authorization URL and attempts to open it in a browser. The URL is
	// always logged so a user without a browser can copy it manually.
	StartAuthentication()

	// ExchangeCode exchanges a pasted authorization code for tokens and
	// persists the issued refresh token.
	ExchangeCode(ctx context.Context, code string) error

	// Refresh mints a new access token from the stored refresh token.
	Refresh(ctx context.Context) error

	// NowPlaying fetches the provider's current playback state.
	// A nil error with Playing == false means nothing is playing.
	NowPlaying(ctx context.Context) (*Playback, error)

	// Name returns the name of the provider (e.g., "Spotify")
	Name() string
}

// Playback represents the playback state returned per request. Not persisted.
type Playback struct {
	Playing    bool
	ProgressMS int
	Track      *Track
}

// Track represents the currently playing track from any provider
type Track struct {
	Title      string
	Artists    []string
	Album      string
	DurationMS int
	URL        string
}
