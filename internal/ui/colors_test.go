package ui

import (
	"strings"
	"testing"
)

func TestRenderHelpers(t *testing.T) {
	tc := []struct {
		name   string
		render func(string) string
	}{
		{name: "Title", render: Title},
		{name: "OK", render: OK},
		{name: "Err", render: Err},
		{name: "Warn", render: Warn},
		{name: "Help", render: Help},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.render("status text"); !strings.Contains(got, "status text") {
				t.Errorf("%s lost its input text: %q", tt.name, got)
			}
		})
	}
}
