package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

type step func(req *http.Request) (*http.Response, error)

// fakeTransport replays scripted steps and records every request it sees.
type fakeTransport struct {
	mu     sync.Mutex
	steps  []step
	calls  []*http.Request
	bodies []string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body string
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		_ = req.Body.Close()
		body = string(b)
	}
	f.calls = append(f.calls, req)
	f.bodies = append(f.bodies, body)

	if len(f.steps) == 0 {
		return respond(http.StatusOK, `{}`), nil
	}
	next := f.steps[0]
	f.steps = f.steps[1:]
	return next(req)
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func reply(status int, body string) step {
	return func(*http.Request) (*http.Response, error) { return respond(status, body), nil }
}

func fail(err error) step {
	return func(*http.Request) (*http.Response, error) { return nil, err }
}

const expiredBody = `{"detail":"Given token not valid for any token type","code":"token_not_valid"}`

type fakeRefresher struct {
	mu       sync.Mutex
	access   string
	err      error
	calls    int
	received []string
}

func (f *fakeRefresher) Refresh(_ context.Context, refresh string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.received = append(f.received, refresh)
	return f.access, f.err
}

var errNetwork = errors.New("connection refused")
