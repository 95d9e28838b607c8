// Package credentials reads and writes the on-disk Spotify credential files.
//
// Two files are involved: a structured JSON credentials file holding
// client_id, client_secret and optionally refresh_token, and a plain-text
// cache file holding only the current refresh token. Both files predate this
// tool and are shared with another consumer, so writes must not disturb
// anything beyond the refresh token itself.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/nowplaying/internal/shared"
)

// Credentials holds the OAuth client credentials and the current refresh token.
//
// ClientID and ClientSecret are fixed for the process lifetime. RefreshToken
// reflects the latest value issued by Spotify and is rewritten through
// [Store.Save] whenever it rotates.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

type credentialsFile struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
}

// Store resolves credentials across the JSON file and the token cache file.
type Store struct {
	path      string
	cachePath string
}

// NewStore creates a Store reading from the given JSON credentials file and
// plain-text cache file.
func NewStore(path, cachePath string) *Store {
	return &Store{path: path, cachePath: cachePath}
}

// LoadClient reads only the OAuth client credentials from the JSON file.
// Used before any refresh token exists, during first-time authorization.
func (s *Store) LoadClient() (*Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrMissingCredentials, s.path, err)
	}

	var file credentialsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", shared.ErrInvalidCredentials, s.path, err)
	}

	creds := &Credentials{
		ClientID:     file.ClientID,
		ClientSecret: file.ClientSecret,
		RefreshToken: file.RefreshToken,
	}

	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	return creds, nil
}

// Load reads client credentials from the JSON file, resolving the refresh
// token from the JSON file first and the cache file second.
func (s *Store) Load() (*Credentials, error) {
	creds, err := s.LoadClient()
	if err != nil {
		return nil, err
	}

	if creds.RefreshToken == "" {
		if cached, err := os.ReadFile(s.cachePath); err == nil {
			creds.RefreshToken = strings.TrimSpace(string(cached))
		}
	}

	if creds.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token in %s or %s", shared.ErrMissingCredentials, s.path, s.cachePath)
	}

	return creds, nil
}

// Save persists a refresh token to both locations.
//
// The cache file is overwritten unconditionally. The JSON file's
// refresh_token field is rewritten in place only when the field already
// exists; the key is never introduced and every other field's value is left
// untouched.
func (s *Store) Save(refreshToken string) error {
	if err := os.WriteFile(s.cachePath, []byte(refreshToken), 0600); err != nil {
		return fmt.Errorf("failed to write token cache %s: %w", s.cachePath, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	// json.RawMessage keeps every other field's value byte-for-byte.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	if _, ok := fields["refresh_token"]; !ok {
		return nil
	}

	encoded, err := json.Marshal(refreshToken)
	if err != nil {
		return fmt.Errorf("failed to encode refresh token: %w", err)
	}
	fields["refresh_token"] = encoded

	updated, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.path, err)
	}

	if err := os.WriteFile(s.path, updated, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}

	return nil
}
