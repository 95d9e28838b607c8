package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/nowplaying/internal/formatter"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/desertthunder/nowplaying/internal/ui"
	"github.com/urfave/cli/v3"
)

// historyEntry is the JSON shape for `np history list --json`.
type historyEntry struct {
	ID          string    `json:"id"`
	Artists     string    `json:"artists"`
	Title       string    `json:"title"`
	Album       string    `json:"album"`
	URL         string    `json:"url,omitempty"`
	ProgressMS  int       `json:"progress_ms"`
	DurationMS  int       `json:"duration_ms"`
	AnnouncedAt time.Time `json:"announced_at"`
}

func toEntry(a *models.Announcement) historyEntry {
	return historyEntry{
		ID:          a.ID(),
		Artists:     a.Artists(),
		Title:       a.Title(),
		Album:       a.Album(),
		URL:         a.URL(),
		ProgressMS:  a.ProgressMS(),
		DurationMS:  a.DurationMS(),
		AnnouncedAt: a.AnnouncedAt(),
	}
}

// HistoryList prints recent announcements, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	useJSON := cmd.Bool("json")

	if r.history == nil {
		return fmt.Errorf("%w: history database not initialized, run: np setup", shared.ErrServiceUnavailable)
	}

	announcements, err := r.history.Recent(limit)
	if err != nil {
		return fmt.Errorf("failed to list announcements: %w", err)
	}

	if useJSON {
		entries := make([]historyEntry, 0, len(announcements))
		for _, a := range announcements {
			entries = append(entries, toEntry(a))
		}
		return r.writeJSON(entries, true)
	}

	if len(announcements) == 0 {
		r.writePlain("No announcements recorded yet.\n")
		return nil
	}

	for _, a := range announcements {
		r.writePlain("%s  %s - %s\n",
			ui.Help(a.AnnouncedAt().Local().Format("2006-01-02 15:04")),
			a.Artists(),
			ui.Title(a.Title()),
		)
		if a.Album() != "" {
			r.writePlain("                  from %s\n", a.Album())
		}
	}

	return nil
}

// HistoryShow prints a single announcement by ID.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	if r.history == nil {
		return fmt.Errorf("%w: history database not initialized, run: np setup", shared.ErrServiceUnavailable)
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: announcement ID argument is required", shared.ErrMissingArgument)
	}

	a, err := r.history.Get(id)
	if err != nil {
		return fmt.Errorf("failed to load announcement: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(toEntry(a), true)
	}

	r.writePlain("%s - %s\n", a.Artists(), ui.Title(a.Title()))
	if a.Album() != "" {
		r.writePlain("Album:     %s\n", a.Album())
	}
	if a.URL() != "" {
		r.writePlain("Listen:    %s\n", a.URL())
	}
	r.writePlain("Progress:  %s/%s\n", formatter.Timestamp(a.ProgressMS()), formatter.Timestamp(a.DurationMS()))
	r.writePlain("Announced: %s\n", ui.Help(a.AnnouncedAt().Local().Format("2006-01-02 15:04")))

	return nil
}

// HistoryPurge deletes announcements older than the retention window.
func (r *Runner) HistoryPurge(ctx context.Context, cmd *cli.Command) error {
	days := int(cmd.Int("days"))

	if r.history == nil {
		return fmt.Errorf("%w: history database not initialized, run: np setup", shared.ErrServiceUnavailable)
	}

	if days <= 0 {
		return fmt.Errorf("%w: --days must be positive", shared.ErrInvalidArgument)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := r.history.Purge(cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge announcements: %w", err)
	}

	r.writePlain("✓ Purged %d announcement(s) older than %d day(s)\n", removed, days)

	return nil
}
