package formatter

import (
	"strings"
	"testing"

	"github.com/desertthunder/nowplaying/internal/services"
)

func TestAnnounce(t *testing.T) {
	t.Run("Full Playback State", func(t *testing.T) {
		playback := &services.Playback{
			Playing:    true,
			ProgressMS: 65000,
			Track: &services.Track{
				Title:      "X",
				Artists:    []string{"B", "C"},
				Album:      "A",
				DurationMS: 185000,
				URL:        "u",
			},
		}

		line := Announce(playback)
		for _, want := range []string{
			"B, C - X",
			"(from A)",
			"Progress: 1:05/3:05",
			"Listen: u",
		} {
			if !strings.Contains(line, want) {
				t.Errorf("announcement missing %q: %s", want, line)
			}
		}
	})

	t.Run("Nothing Playing", func(t *testing.T) {
		if line := Announce(&services.Playback{Playing: false}); line != "" {
			t.Errorf("expected empty announcement, got %s", line)
		}
	})

	t.Run("Nil Playback", func(t *testing.T) {
		if line := Announce(nil); line != "" {
			t.Errorf("expected empty announcement, got %s", line)
		}
	})

	t.Run("Missing Track Fields Use Placeholders", func(t *testing.T) {
		playback := &services.Playback{
			Playing: true,
			Track:   &services.Track{},
		}

		line := Announce(playback)
		if !strings.Contains(line, "Unknown Track") {
			t.Errorf("expected Unknown Track placeholder, got %s", line)
		}
		if !strings.Contains(line, "(from Unknown Album)") {
			t.Errorf("expected Unknown Album placeholder, got %s", line)
		}
	})

	t.Run("Listen Segment Omitted Without URL", func(t *testing.T) {
		playback := &services.Playback{
			Playing: true,
			Track: &services.Track{
				Title:   "X",
				Artists: []string{"B"},
				Album:   "A",
			},
		}

		line := Announce(playback)
		if strings.Contains(line, "Listen:") {
			t.Errorf("expected no Listen segment, got %s", line)
		}
		if strings.HasSuffix(line, "| ") || strings.HasSuffix(line, "|") {
			t.Errorf("expected no trailing separator, got %q", line)
		}
	})

	t.Run("Playing Without Track Item", func(t *testing.T) {
		line := Announce(&services.Playback{Playing: true})
		if !strings.Contains(line, "Unknown Track") {
			t.Errorf("expected placeholder line, got %s", line)
		}
	})
}

func TestTimestamp(t *testing.T) {
	tc := []struct {
		name string
		ms   int
		want string
	}{
		{name: "zero", ms: 0, want: "0:00"},
		{name: "seconds zero padded", ms: 65000, want: "1:05"},
		{name: "three minutes five", ms: 185000, want: "3:05"},
		{name: "sub-second truncates", ms: 999, want: "0:00"},
		{name: "over ten minutes", ms: 725000, want: "12:05"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Timestamp(tt.ms); got != tt.want {
				t.Errorf("Timestamp(%d) = %v, want %v", tt.ms, got, tt.want)
			}
		})
	}
}
