package client

import (
	"context"
	"net/http"
	"time"

	"github.com/cgea-sas/console/internal/client/credstore"
	"github.com/cgea-sas/console/internal/logging"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type startedAtKey struct{}

// RequestIDHook tags every request with a fresh X-Request-ID unless the
// caller set one, and records the start time for LoggingHook.
func RequestIDHook() RequestHook {
	return func(req *http.Request) (*http.Request, error) {
		ctx := context.WithValue(req.Context(), startedAtKey{}, time.Now())
		out := req.Clone(ctx)
		if out.Header.Get(RequestIDHeader) == "" {
			out.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return out, nil
	}
}

// BearerHook attaches the stored access token, if any.
func BearerHook(store credstore.Store) RequestHook {
	return func(req *http.Request) (*http.Request, error) {
		token, ok := credstore.AccessToken(req.Context(), store)
		if !ok {
			return req, nil
		}
		out := req.Clone(req.Context())
		out.Header.Set("Authorization", "Bearer "+token)
		return out, nil
	}
}

func LoggingHook(log logging.Logger) ResponseHook {
	return func(req *http.Request, resp *http.Response, err error, _ Sender) (*http.Response, error) {
		ctx := req.Context()
		args := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", req.Header.Get(RequestIDHeader),
		}
		if started, ok := ctx.Value(startedAtKey{}).(time.Time); ok {
			args = append(args, "duration", time.Since(started))
		}

		if err != nil {
			log.Debug(ctx, "request failed", append(args, "error", err)...)
			return resp, err
		}
		log.Debug(ctx, "request done", append(args, "status", resp.StatusCode)...)
		return resp, err
	}
}
