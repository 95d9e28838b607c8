package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/nowplaying/internal/server"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/desertthunder/nowplaying/internal/ui"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the OAuth2 authorization flow.
//
// By default a local HTTP server captures the redirect and the code is
// exchanged automatically. With --manual the authorization URL is printed
// and the user pastes the code into `np auth code`.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: no usable credentials, check %s", shared.ErrMissingCredentials, r.config.Credentials.Path)
	}

	if cmd.Bool("manual") {
		r.service.StartAuthentication()
		return nil
	}

	code, err := r.doOAuth(ctx)
	if err != nil {
		return err
	}

	if err := r.service.ExchangeCode(ctx, code); err != nil {
		return fmt.Errorf("code exchange failed: %w", err)
	}

	r.writePlain("%s\n", ui.OK("✓ Authorization successful"))
	r.writePlain("Refresh token saved to %s\n", r.config.Credentials.CachePath)

	return nil
}

// AuthCode exchanges a manually pasted authorization code for tokens.
func (r *Runner) AuthCode(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: no usable credentials, check %s", shared.ErrMissingCredentials, r.config.Credentials.Path)
	}

	code := cmd.StringArg("code")
	if code == "" {
		return fmt.Errorf("%w: authorization code argument is required", shared.ErrMissingArgument)
	}

	if err := r.service.ExchangeCode(ctx, code); err != nil {
		return fmt.Errorf("code exchange failed: %w", err)
	}

	r.writePlain("%s\n", ui.OK("✓ Authorization successful"))

	return nil
}

// AuthStatus reports the credential files and verifies the refresh token by
// minting a fresh access token.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.writePlain("Credentials file: %s\n", r.config.Credentials.Path)
	r.writePlain("Token cache:      %s\n", r.config.Credentials.CachePath)

	if r.store == nil {
		return fmt.Errorf("%w: credential store not configured", shared.ErrMissingCredentials)
	}

	creds, err := r.store.Load()
	if err != nil {
		r.writePlain("Refresh token:    %s\n", ui.Err("✗ not found"))
		r.writePlain("%s\n", ui.Help("Run: np auth login"))
		return nil
	}

	r.writePlain("Client ID:        %s\n", creds.ClientID)
	r.writePlain("Refresh token:    %s\n", ui.OK("✓ present"))

	if r.service == nil {
		return nil
	}

	if err := r.service.Refresh(ctx); err != nil {
		r.writePlain("Token refresh:    %s\n", ui.Err("✗ failed"))
		return fmt.Errorf("refresh check failed: %w", err)
	}

	r.writePlain("Token refresh:    %s\n", ui.OK("✓ ok"))

	return nil
}

// doOAuth runs the browser flow with a local HTTP server and returns the
// captured authorization code.
func (r *Runner) doOAuth(ctx context.Context) (string, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := r.service.AuthURL(state)
	handler := server.NewCallbackHandler(state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(handler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("%s", ui.Warn("⚠ Could not open browser automatically."))
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.CallbackResult

	select {
	case result = <-handler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return "", fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return "", fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return "", fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Code == "" {
		return "", fmt.Errorf("no authorization code received")
	}

	return result.Code, nil
}
