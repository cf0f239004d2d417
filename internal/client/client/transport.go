package client

import (
	"net/http"
	"time"

	"github.com/cgea-sas/console/internal/client/credstore"
	"github.com/cgea-sas/console/internal/logging"
)

// NewPlain returns a Client that tags and logs requests but carries no
// credentials. The token endpoints use it.
func NewPlain(baseURL string, timeout time.Duration, log logging.Logger) (*Client, error) {
	p := NewPipeline(nil,
		WithRequestHooks(RequestIDHook()),
		WithResponseHooks(LoggingHook(log)),
	)
	return New(baseURL, &http.Client{Transport: p, Timeout: timeout})
}

// NewAuthenticated returns a Client that sends the stored access token and
// recovers or ends the session on authentication failures.
func NewAuthenticated(baseURL string, timeout time.Duration, store credstore.Store, refresher Refresher, onLogout func(), log logging.Logger) (*Client, error) {
	p := NewPipeline(nil,
		WithRequestHooks(RequestIDHook(), BearerHook(store)),
		WithResponseHooks(AuthHook(store, refresher, onLogout, log), LoggingHook(log)),
	)
	return New(baseURL, &http.Client{Transport: p, Timeout: timeout})
}
