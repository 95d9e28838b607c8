package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/nowplaying/internal/formatter"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/services"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/urfave/cli/v3"
)

// Now fetches the current playback state and prints the announcement line.
//
// Nothing playing produces no output and a zero exit: the command is meant
// to be wired into scripts and status bars where silence is the right
// rendition of an idle player.
func (r *Runner) Now(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: no usable credentials, check %s", shared.ErrMissingCredentials, r.config.Credentials.Path)
	}

	playback, err := r.service.NowPlaying(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrReauthRequired) {
			// The service already printed the reauthorization instructions.
			return err
		}
		return fmt.Errorf("failed to fetch playback state: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playback, true)
	}

	line := formatter.Announce(playback)
	if line == "" {
		r.logger.Info("nothing is playing")
		return nil
	}

	if err := r.writePlain("%s\n", line); err != nil {
		return err
	}

	if !cmd.Bool("no-history") {
		r.record(playback)
	}

	return nil
}

// record stores an announcement in history. Failures are logged, not fatal:
// the announcement itself already succeeded.
func (r *Runner) record(playback *services.Playback) {
	if r.history == nil || playback.Track == nil {
		r.logger.Debug("history recording skipped")
		return
	}

	announcement := models.NewAnnouncement(
		playback.Track.Artists,
		playback.Track.Title,
		playback.Track.Album,
		playback.Track.URL,
		playback.ProgressMS,
		playback.Track.DurationMS,
	)

	if err := r.history.Create(announcement); err != nil {
		r.logger.Warnf("failed to record announcement: %v", err)
	}
}
