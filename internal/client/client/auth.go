package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cgea-sas/console/internal/client/credstore"
	"github.com/cgea-sas/console/internal/logging"
)

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type retriedKey struct{}

func isRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey{}).(bool)
	return v
}

// AuthHook handles authentication failures.
//
// A 401 carrying code "token_not_valid" on a request that was not retried
// yet is recovered once: the refresh token is exchanged, the new access
// token stored and the request resent with it. Every other 401, and a failed
// refresh, clears both tokens, calls onLogout and fails with
// ErrSessionExpired. Other responses, 403 included, pass through untouched.
func AuthHook(store credstore.Store, refresher Refresher, onLogout func(), log logging.Logger) ResponseHook {
	expire := func(ctx context.Context, reason string) error {
		log.Info(ctx, "session expired, logging out", "reason", reason)
		credstore.Clear(ctx, store)
		if onLogout != nil {
			onLogout()
		}
		return ErrSessionExpired
	}

	return func(req *http.Request, resp *http.Response, err error, resend Sender) (*http.Response, error) {
		if err != nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
			return resp, err
		}

		ctx := req.Context()
		expired := tokenNotValid(resp)
		discard(resp)

		if !expired {
			return nil, expire(ctx, "unauthorized")
		}
		if isRetried(ctx) {
			return nil, expire(ctx, "rejected after refresh")
		}
		refreshToken, ok := credstore.RefreshToken(ctx, store)
		if !ok {
			return nil, expire(ctx, "no refresh token")
		}

		retry, err := replay(req)
		if err != nil {
			return nil, expire(ctx, "request body not replayable")
		}

		log.Info(ctx, "access token expired, refreshing")
		access, err := refresher.Refresh(ctx, refreshToken)
		if err != nil {
			log.Warn(ctx, "token refresh failed", "error", err)
			return nil, expire(ctx, "refresh failed")
		}

		store.Set(ctx, credstore.AccessKey, access)
		retry.Header.Set("Authorization", "Bearer "+access)
		return resend(retry)
	}
}

// tokenNotValid peeks at the error code of resp, leaving the body readable.
func tokenNotValid(resp *http.Response) bool {
	if resp.Body == nil {
		return false
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return false
	}

	var eb errorBody
	if json.Unmarshal(body, &eb) != nil {
		return false
	}
	return eb.Code == codeTokenNotValid
}

// replay clones req marked as retried, with a fresh copy of its body.
func replay(req *http.Request) (*http.Request, error) {
	out := req.Clone(context.WithValue(req.Context(), retriedKey{}, true))
	if req.Body == nil || req.Body == http.NoBody {
		return out, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("%s %s: body cannot be replayed", req.Method, req.URL.Path)
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	out.Body = body
	return out, nil
}

func discard(resp *http.Response) {
	if resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
}
