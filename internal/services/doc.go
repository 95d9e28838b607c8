// Package services defines the [Service] interface for playback providers and implements it for Spotify.
//
// # Service Interface
//
// A provider reports the currently playing track and manages its own OAuth
// token lifecycle. The interface exists so command handlers can be exercised
// against a test double.
//
// # Spotify Implementation
//
// [SpotifyService] holds the process-wide token state. Access tokens are
// replaced wholesale on every exchange or refresh and treated as expired once
// they are within 60 seconds of their stated expiry. Token endpoint requests
// are hand-rolled form posts rather than [oauth2.Config.Exchange] calls
// because the refresh path must inspect the raw error body: a remote
// invalid_grant means the refresh token is permanently dead and the user has
// to reauthorize by pasting a fresh code.
//
// There is no retry or backoff anywhere. Every failure is logged once and
// surfaces to the caller as a typed error:
//   - [shared.ErrMissingCredentials] : client id/secret absent at construction
//   - [shared.ErrAuthFailed] : code exchange rejected
//   - [shared.ErrRefreshFailed] : refresh rejected for any reason but invalid_grant
//   - [shared.ErrReauthRequired] : refresh token rejected with invalid_grant
//   - [shared.ErrNetworkFailure] : timeout, DNS, connection refused
//   - [shared.ErrAPIRequest] : unexpected status from the resource endpoint
//
// The currently-playing fetch carries a 5 second timeout and a courtesy rate
// limiter; a 204 response is Spotify's contract for "nothing playing" and is
// mapped to a non-playing [Playback] rather than an error.
package services
