// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL       = "https://accounts.spotify.com/authorize"
	spotifyTokenURL      = "https://accounts.spotify.com/api/token"
	spotifyNowPlayingURL = "https://api.spotify.com/v1/me/player/currently-playing"

	defaultRedirectURI = "http://localhost:8080"

	// Access tokens within this window of their expiry are refreshed before use.
	tokenExpiryMargin = 60 * time.Second

	// The currently-playing fetch blocks with a short timeout; the token
	// endpoint posts have none.
	fetchTimeout = 5 * time.Second
)

// tokenResponse is the token endpoint's success payload for both the
// authorization_code and refresh_token grants.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// tokenError is the token endpoint's error payload.
type tokenError struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

type playingAlbum struct {
	Name string `json:"name"`
}

type playingArtist struct {
	Name string `json:"name"`
}

// playingItem represents the track object inside a currently-playing payload.
type playingItem struct {
	Name         string            `json:"name"`
	DurationMS   int               `json:"duration_ms"`
	Album        playingAlbum      `json:"album"`
	Artists      []playingArtist   `json:"artists"`
	ExternalURLs map[string]string `json:"external_urls"`
}

// currentlyPlaying represents the /me/player/currently-playing payload.
type currentlyPlaying struct {
	IsPlaying  bool         `json:"is_playing"`
	ProgressMS int          `json:"progress_ms"`
	Item       *playingItem `json:"item"`
}

// TokenPersister persists rotated refresh tokens. Implemented by
// [credentials.Store].
type TokenPersister interface {
	Save(refreshToken string) error
}

// SpotifyService implements the [Service] interface for the Spotify Web API.
//
// Holds the OAuth2 token state for the process: an access token is considered
// valid only while more than [tokenExpiryMargin] remains before its expiry,
// and is replaced wholesale on every successful exchange or refresh.
type SpotifyService struct {
	config      *oauth2.Config
	token       *oauth2.Token
	store       TokenPersister
	httpClient  *http.Client
	fetchClient *http.Client
	limiter     *rate.Limiter
	logger      *log.Logger
	openBrowser func(string) error
	now         func() time.Time

	tokenURL      string
	nowPlayingURL string
}

// SpotifyOpts contains configuration options for creating a SpotifyService.
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	RefreshToken string

	Store       TokenPersister
	Logger      *log.Logger
	HTTPClient  *http.Client
	OpenBrowser func(string) error

	// Endpoint overrides, used by tests. Zero values select the real
	// Spotify endpoints.
	AuthURL       string
	TokenURL      string
	NowPlayingURL string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(opts SpotifyOpts) (*SpotifyService, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}
	if opts.RedirectURI == "" {
		opts.RedirectURI = defaultRedirectURI
	}
	if opts.AuthURL == "" {
		opts.AuthURL = spotifyAuthURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.NowPlayingURL == "" {
		opts.NowPlayingURL = spotifyNowPlayingURL
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	config := &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		RedirectURL:  opts.RedirectURI,
		Scopes:       []string{"user-read-currently-playing"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  opts.AuthURL,
			TokenURL: opts.TokenURL,
		},
	}

	return &SpotifyService{
		config:      config,
		token:       &oauth2.Token{RefreshToken: opts.RefreshToken},
		store:       opts.Store,
		httpClient:  opts.HTTPClient,
		fetchClient: &http.Client{Transport: opts.HTTPClient.Transport, Timeout: fetchTimeout},
		limiter:     rate.NewLimiter(rate.Every(time.Second), 1),
		logger:      opts.Logger,
		openBrowser: opts.OpenBrowser,
		now:         time.Now,

		tokenURL:      opts.TokenURL,
		nowPlayingURL: opts.NowPlayingURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// StartAuthentication logs the authorization URL and attempts to open it in
// the default browser. The URL is logged regardless so it can be copied by
// hand, and the follow-up command for the pasted code is named.
func (s *SpotifyService) StartAuthentication() {
	authURL := s.AuthURL("")
	s.logger.Infof("visit this URL to authorize: %s", authURL)
	s.logger.Info("after authorizing, run: np auth code <code>")

	if err := s.openBrowser(authURL); err != nil {
		s.logger.Warnf("could not open browser automatically, copy the URL above: %v", err)
	}
}

// ExchangeCode posts an authorization_code grant to the token endpoint.
//
// On success the whole token state is replaced, expiry is computed from
// expires_in, and the issued refresh token is persisted. Anything other than
// a 200 is logged with the raw response body. No retry.
func (s *SpotifyService) ExchangeCode(ctx context.Context, code string) error {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {s.config.RedirectURL},
		"client_id":     {s.config.ClientID},
		"client_secret": {s.config.ClientSecret},
	}

	parsed, status, body, err := s.postToken(ctx, form)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		s.logger.Warnf("token exchange rejected: %s", body)
		return fmt.Errorf("%w: token exchange returned status %d", shared.ErrAuthFailed, status)
	}

	s.setToken(parsed)
	s.persistRefreshToken(parsed.RefreshToken)
	s.logger.Info("authenticated with Spotify")

	return nil
}

// Refresh posts a refresh_token grant to the token endpoint.
//
// A refresh rejected with the remote error code invalid_grant means the
// refresh token is permanently dead; the reauthorization prompt is triggered
// exactly once and the caller gets [shared.ErrReauthRequired]. Recovery is
// manual (a human pastes a fresh code). Any other failure is logged and
// surfaced as [shared.ErrRefreshFailed].
func (s *SpotifyService) Refresh(ctx context.Context) error {
	if s.token == nil || s.token.RefreshToken == "" {
		return fmt.Errorf("%w: no refresh token held", shared.ErrNotAuthenticated)
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {s.token.RefreshToken},
		"client_id":     {s.config.ClientID},
		"client_secret": {s.config.ClientSecret},
	}

	parsed, status, body, err := s.postToken(ctx, form)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		s.logger.Warnf("token refresh rejected: %s", body)

		var remote tokenError
		if jsonErr := json.Unmarshal(body, &remote); jsonErr == nil && remote.Code == "invalid_grant" {
			s.logger.Warn("refresh token is no longer valid, reauthorization required")
			s.StartAuthentication()
			return fmt.Errorf("%w: refresh token rejected with invalid_grant", shared.ErrReauthRequired)
		}

		return fmt.Errorf("%w: token endpoint returned status %d", shared.ErrRefreshFailed, status)
	}

	// The refresh response only sometimes rotates the refresh token.
	if parsed.RefreshToken == "" {
		parsed.RefreshToken = s.token.RefreshToken
		s.setToken(parsed)
	} else {
		s.setToken(parsed)
		s.persistRefreshToken(parsed.RefreshToken)
	}

	return nil
}

// NowPlaying fetches the currently playing track.
//
// Refreshes first when no access token is held or the held one is within the
// expiry margin; a failed refresh surfaces as the refresh error and no fetch
// is attempted. A 204 from the API is Spotify's contract for "nothing
// playing" and maps to a non-playing state rather than an error.
func (s *SpotifyService) NowPlaying(ctx context.Context) (*Playback, error) {
	if !s.tokenValid() {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetworkFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.nowPlayingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)

	resp, err := s.fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload currentlyPlaying
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
		return payload.toPlayback(), nil
	case http.StatusNoContent:
		return &Playback{Playing: false}, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		s.logger.Warnf("currently-playing request failed: %s", body)
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
}

// tokenValid reports whether the held access token is usable without a
// refresh: present and more than the expiry margin away from expiring.
func (s *SpotifyService) tokenValid() bool {
	if s.token == nil || s.token.AccessToken == "" {
		return false
	}
	return s.now().Before(s.token.Expiry.Add(-tokenExpiryMargin))
}

// setToken replaces the token state wholesale.
func (s *SpotifyService) setToken(parsed *tokenResponse) {
	s.token = &oauth2.Token{
		AccessToken:  parsed.AccessToken,
		TokenType:    parsed.TokenType,
		RefreshToken: parsed.RefreshToken,
		Expiry:       s.now().Add(time.Duration(parsed.ExpiresIn) * time.Second),
	}
}

// persistRefreshToken saves a refresh token through the credential store.
// Persistence failures are logged, not fatal: the in-memory token still works
// for this process.
func (s *SpotifyService) persistRefreshToken(refreshToken string) {
	if s.store == nil || refreshToken == "" {
		return
	}
	if err := s.store.Save(refreshToken); err != nil {
		s.logger.Warnf("failed to persist refresh token: %v", err)
	}
}

// postToken posts a form to the token endpoint and returns the parsed
// response for 200s alongside the raw body and status for everything else.
func (s *SpotifyService) postToken(ctx context.Context, form url.Values) (*tokenResponse, int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("%w: %v", shared.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, body, nil
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, resp.StatusCode, body, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &parsed, resp.StatusCode, body, nil
}

// toPlayback maps the wire payload to the provider-neutral playback state.
func (p *currentlyPlaying) toPlayback() *Playback {
	playback := &Playback{
		Playing:    p.IsPlaying,
		ProgressMS: p.ProgressMS,
	}

	if p.Item == nil {
		return playback
	}

	track := &Track{
		Title:      p.Item.Name,
		Album:      p.Item.Album.Name,
		DurationMS: p.Item.DurationMS,
		URL:        p.Item.ExternalURLs["spotify"],
	}
	for _, artist := range p.Item.Artists {
		track.Artists = append(track.Artists, artist.Name)
	}
	playback.Track = track

	return playback
}
