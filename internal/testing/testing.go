// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/nowplaying/internal/services"
)

// MockService is a test double for [services.Service]
type MockService struct {
	Playback    *services.Playback
	PlaybackErr error
	RefreshErr  error
	AuthStarted int
	Refreshed   int
	Exchanged   []string
}

func (m *MockService) AuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (m *MockService) StartAuthentication() {
	m.AuthStarted++
}

func (m *MockService) ExchangeCode(ctx context.Context, code string) error {
	m.Exchanged = append(m.Exchanged, code)
	return nil
}

func (m *MockService) Refresh(ctx context.Context) error {
	m.Refreshed++
	return m.RefreshErr
}

func (m *MockService) NowPlaying(ctx context.Context) (*services.Playback, error) {
	if m.PlaybackErr != nil {
		return nil, m.PlaybackErr
	}
	if m.Playback != nil {
		return m.Playback, nil
	}
	return &services.Playback{Playing: false}, nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
