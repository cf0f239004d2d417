// Package client is the HTTP layer between the console and the SAS backend.
//
// # Overview
//
// The package provides:
//  1. Pipeline, an http.RoundTripper that runs ordered request hooks, the
//     base transport, then ordered response hooks. Response hooks receive a
//     Sender that re-enters the whole pipeline, which is how AuthHook resends
//     a request after refreshing the access token.
//  2. The shipped hooks: RequestIDHook, BearerHook, LoggingHook and AuthHook.
//  3. Client, a thin JSON/multipart REST client over an *http.Client, and
//     Page, the normalized shape of list responses.
//
// # Session expiry
//
// AuthHook recovers an expired access token at most once per request. When
// recovery is impossible it clears both stored tokens, invokes the logout
// callback and fails the request with ErrSessionExpired. Concurrent requests
// that expire together refresh independently.
//
// # Error Handling
//
// Non-2xx responses surface as *APIError, which matches the sentinel errors
// ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound and
// ErrUnavailable under errors.Is. Transport failures wrap ErrUnavailable.
package client
