package main

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/desertthunder/nowplaying/internal/credentials"
	"github.com/desertthunder/nowplaying/internal/services"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	store := credentials.NewStore(config.Credentials.Path, config.Credentials.CachePath)

	var service services.Service
	creds, err := store.Load()
	if err != nil {
		// First run: client credentials may exist without a refresh token yet.
		creds, err = store.LoadClient()
	}
	if err == nil {
		if svc, svcErr := services.NewSpotifyService(services.SpotifyOpts{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURI:  config.Spotify.RedirectURI,
			RefreshToken: creds.RefreshToken,
			Store:        store,
			Logger:       logger,
		}); svcErr == nil {
			service = svc
		}
	} else {
		logger.Debugf("credentials not loaded: %v", err)
	}

	var db *sql.DB
	if _, err := os.Stat(config.Database.Path); err == nil {
		if opened, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(opened, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			db = opened
			defer db.Close()
		} else {
			logger.Warnf("failed to open history database: %v", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: service,
		Store:   store,
		DB:      db,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "np",
		Usage:    "Announce the track currently playing on Spotify",
		Version:  "0.2.0",
		Commands: runner.register(),
		Action:   runner.Now,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrReauthRequired) {
			logger.Warn("reauthorization required, follow the printed instructions")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
