package credentials

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/nowplaying/internal/shared"
	tu "github.com/desertthunder/nowplaying/internal/testing"
)

func writeFiles(t *testing.T, credentialsJSON, cache string) *Store {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "spotify_credentials.json")
	cachePath := filepath.Join(dir, ".spotify_cache")

	if credentialsJSON != "" {
		if err := os.WriteFile(path, []byte(credentialsJSON), 0600); err != nil {
			t.Fatalf("failed to write credentials file: %v", err)
		}
	}
	if cache != "" {
		if err := os.WriteFile(cachePath, []byte(cache), 0600); err != nil {
			t.Fatalf("failed to write cache file: %v", err)
		}
	}

	return NewStore(path, cachePath)
}

func TestStore(t *testing.T) {
	t.Run("Load", func(t *testing.T) {
		t.Run("Refresh Token From JSON File", func(t *testing.T) {
			store := writeFiles(t, `{"client_id":"id","client_secret":"secret","refresh_token":"tok"}`, "")

			creds, err := store.Load()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if creds.ClientID != "id" || creds.ClientSecret != "secret" {
				t.Errorf("unexpected client credentials: %+v", creds)
			}
			if creds.RefreshToken != "tok" {
				t.Errorf("expected refresh token tok, got %s", creds.RefreshToken)
			}
		})

		t.Run("Refresh Token Falls Back To Cache File", func(t *testing.T) {
			store := writeFiles(t, `{"client_id":"id","client_secret":"secret"}`, "cached_token\n")

			creds, err := store.Load()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if creds.RefreshToken != "cached_token" {
				t.Errorf("expected cached_token, got %s", creds.RefreshToken)
			}
		})

		t.Run("JSON File Takes Precedence Over Cache", func(t *testing.T) {
			store := writeFiles(t, `{"client_id":"id","client_secret":"secret","refresh_token":"from_json"}`, "from_cache")

			creds, err := store.Load()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if creds.RefreshToken != "from_json" {
				t.Errorf("expected from_json, got %s", creds.RefreshToken)
			}
		})

		t.Run("Missing Credentials File", func(t *testing.T) {
			store := writeFiles(t, "", "")

			if _, err := store.Load(); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			store := writeFiles(t, `{"client_id":"id","refresh_token":"tok"}`, "")

			if _, err := store.Load(); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("No Resolvable Refresh Token", func(t *testing.T) {
			store := writeFiles(t, `{"client_id":"id","client_secret":"secret"}`, "")

			if _, err := store.Load(); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Malformed JSON", func(t *testing.T) {
			store := writeFiles(t, `{not json`, "")

			if _, err := store.Load(); !errors.Is(err, shared.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	})

	t.Run("LoadClient", func(t *testing.T) {
		t.Run("Succeeds Without Refresh Token", func(t *testing.T) {
			store := writeFiles(t, `{"client_id":"id","client_secret":"secret"}`, "")

			creds, err := store.LoadClient()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if creds.ClientID != "id" || creds.ClientSecret != "secret" {
				t.Errorf("unexpected client credentials: %+v", creds)
			}
			if creds.RefreshToken != "" {
				t.Errorf("expected empty refresh token, got %s", creds.RefreshToken)
			}
		})

		t.Run("Requires Client ID", func(t *testing.T) {
			store := writeFiles(t, `{"client_secret":"secret"}`, "")

			if _, err := store.LoadClient(); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("Save", func(t *testing.T) {
		t.Run("Overwrites Cache File Unconditionally", func(t *testing.T) {
			store := writeFiles(t, `{"client_id":"id","client_secret":"secret"}`, "old_token")

			if err := store.Save("new_token"); err != nil {
				t.Fatalf("save failed: %v", err)
			}

			tu.AssertFileExists(t, store.cachePath)
			if cached := tu.MustReadFile(t, store.cachePath); cached != "new_token" {
				t.Errorf("expected cache to contain new_token, got %s", cached)
			}
		})

		t.Run("Updates Existing refresh_token Field In Place", func(t *testing.T) {
			store := writeFiles(t, `{"client_id":"id","client_secret":"secret","refresh_token":"old","note":"keep me","count":42}`, "")

			if err := store.Save("rotated"); err != nil {
				t.Fatalf("save failed: %v", err)
			}

			data := tu.MustReadFile(t, store.path)

			var fields map[string]json.RawMessage
			if err := json.Unmarshal([]byte(data), &fields); err != nil {
				t.Fatalf("rewritten file is not valid JSON: %v", err)
			}

			if string(fields["refresh_token"]) != `"rotated"` {
				t.Errorf("expected refresh_token to be rotated, got %s", fields["refresh_token"])
			}
			if string(fields["client_id"]) != `"id"` {
				t.Errorf("client_id changed: %s", fields["client_id"])
			}
			if string(fields["note"]) != `"keep me"` {
				t.Errorf("unrelated string field changed: %s", fields["note"])
			}
			if string(fields["count"]) != `42` {
				t.Errorf("unrelated numeric field changed: %s", fields["count"])
			}
		})

		t.Run("Never Introduces refresh_token Key", func(t *testing.T) {
			original := `{"client_id":"id","client_secret":"secret"}`
			store := writeFiles(t, original, "")

			if err := store.Save("tok"); err != nil {
				t.Fatalf("save failed: %v", err)
			}

			if data := tu.MustReadFile(t, store.path); data != original {
				t.Errorf("credentials file should be untouched, got %s", data)
			}

			if cached := tu.MustReadFile(t, store.cachePath); cached != "tok" {
				t.Errorf("cache file should still be written, got %s", cached)
			}
		})

		t.Run("Missing Credentials File", func(t *testing.T) {
			store := writeFiles(t, "", "")

			if err := store.Save("tok"); err == nil {
				t.Error("expected error when credentials file is missing")
			}
		})
	})
}
