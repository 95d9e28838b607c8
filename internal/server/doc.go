// Package server provides HTTP routing, middleware, and the OAuth callback capture for the login flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers so the first middleware added is the outermost and executes first.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally; every route is GET-only,
// since an OAuth redirect is the only request this server ever handles.
//
// # Callback Handler
//
// [CallbackHandler] captures the authorization code from the OAuth2 redirect.
//
// The handler validates the state parameter (CSRF protection) and sends the raw code through a channel;
// the token exchange itself lives in the services layer, which is also what the pasted-code command uses.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user runs `np auth login`, a temporary HTTP server starts on the configured loopback address,
// captures the redirect, and shuts down after handing over the authorization code. The server exists only
// for the duration of one login flow; nothing else in the tool serves HTTP.
package server
