package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cgea-sas/console/internal/client/credstore"
	"github.com/cgea-sas/console/internal/client/models"
	"github.com/cgea-sas/console/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	store     *credstore.MemoryStore
	transport *fakeTransport
	refresher *fakeRefresher
	logouts   int
	http      *http.Client
}

func newAuthFixture(t *testing.T, tokens *models.TokenPair, steps ...step) *authFixture {
	t.Helper()
	f := &authFixture{
		store:     credstore.NewMemoryStore(),
		transport: &fakeTransport{steps: steps},
		refresher: &fakeRefresher{access: "new-access"},
	}
	if tokens != nil {
		credstore.SavePair(context.Background(), f.store, *tokens)
	}
	p := NewPipeline(f.transport,
		WithRequestHooks(RequestIDHook(), BearerHook(f.store)),
		WithResponseHooks(
			AuthHook(f.store, f.refresher, func() { f.logouts++ }, logging.NewNop()),
			LoggingHook(logging.NewNop()),
		),
	)
	f.http = &http.Client{Transport: p}
	return f
}

func (f *authFixture) get(t *testing.T) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://backend.test/api/cere/", nil)
	require.NoError(t, err)
	return f.http.Do(req)
}

func (f *authFixture) tokens() (string, string) {
	ctx := context.Background()
	a, _ := credstore.AccessToken(ctx, f.store)
	r, _ := credstore.RefreshToken(ctx, f.store)
	return a, r
}

func TestAuthHook_SuccessPassesThrough(t *testing.T) {
	f := newAuthFixture(t, &models.TokenPair{Access: "acc", Refresh: "ref"}, reply(http.StatusOK, `[]`))

	resp, err := f.get(t)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, f.transport.callCount())
	assert.Equal(t, "Bearer acc", f.transport.calls[0].Header.Get("Authorization"))
	assert.Zero(t, f.refresher.calls)
}

func TestAuthHook_ExpiredTokenRefreshesOnceAndRetriesOnce(t *testing.T) {
	f := newAuthFixture(t, &models.TokenPair{Access: "old-access", Refresh: "ref"},
		reply(http.StatusUnauthorized, expiredBody),
		reply(http.StatusOK, `{"results":[{"id":1}]}`),
	)

	resp, err := f.get(t)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, `{"results":[{"id":1}]}`, string(body))

	assert.Equal(t, 1, f.refresher.calls)
	assert.Equal(t, []string{"ref"}, f.refresher.received)
	require.Equal(t, 2, f.transport.callCount())
	assert.Equal(t, "Bearer old-access", f.transport.calls[0].Header.Get("Authorization"))
	assert.Equal(t, "Bearer new-access", f.transport.calls[1].Header.Get("Authorization"))
	assert.Equal(t, f.transport.calls[0].Header.Get(RequestIDHeader), f.transport.calls[1].Header.Get(RequestIDHeader))

	access, refresh := f.tokens()
	assert.Equal(t, "new-access", access)
	assert.Equal(t, "ref", refresh)
	assert.Zero(t, f.logouts)
}

func TestAuthHook_RefreshFailureClearsTokensAndLogsOut(t *testing.T) {
	f := newAuthFixture(t, &models.TokenPair{Access: "acc", Refresh: "ref"},
		reply(http.StatusUnauthorized, expiredBody),
	)
	f.refresher.err = errors.New("refresh rejected")

	resp, err := f.get(t)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSessionExpired)

	assert.Equal(t, 1, f.refresher.calls)
	assert.Equal(t, 1, f.transport.callCount())
	assert.Equal(t, 1, f.logouts)
	access, refresh := f.tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestAuthHook_RetryRejectedAgainLogsOut(t *testing.T) {
	f := newAuthFixture(t, &models.TokenPair{Access: "acc", Refresh: "ref"},
		reply(http.StatusUnauthorized, expiredBody),
		reply(http.StatusUnauthorized, expiredBody),
	)

	_, err := f.get(t)
	assert.ErrorIs(t, err, ErrSessionExpired)

	assert.Equal(t, 1, f.refresher.calls)
	assert.Equal(t, 2, f.transport.callCount())
	assert.Equal(t, 1, f.logouts)
	access, _ := f.tokens()
	assert.Empty(t, access)
}

func TestAuthHook_ExpiredWithoutRefreshTokenLogsOut(t *testing.T) {
	f := newAuthFixture(t, nil, reply(http.StatusUnauthorized, expiredBody))
	f.store.Set(context.Background(), credstore.AccessKey, "acc")

	_, err := f.get(t)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, f.refresher.calls)
	assert.Equal(t, 1, f.logouts)
	access, _ := f.tokens()
	assert.Empty(t, access)
}

func TestAuthHook_GenericUnauthorizedLogsOutWithoutRefresh(t *testing.T) {
	f := newAuthFixture(t, &models.TokenPair{Access: "acc", Refresh: "ref"},
		reply(http.StatusUnauthorized, `{"detail":"Authentication credentials were not provided."}`),
	)

	_, err := f.get(t)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, f.refresher.calls)
	assert.Equal(t, 1, f.logouts)
	access, refresh := f.tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestAuthHook_ForbiddenPassesThroughWithoutSideEffects(t *testing.T) {
	f := newAuthFixture(t, &models.TokenPair{Access: "acc", Refresh: "ref"},
		reply(http.StatusForbidden, `{"detail":"You do not have permission to perform this action."}`),
	)

	resp, err := f.get(t)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, f.refresher.calls)
	assert.Zero(t, f.logouts)
	access, refresh := f.tokens()
	assert.Equal(t, "acc", access)
	assert.Equal(t, "ref", refresh)
}

func TestAuthHook_TransportErrorPassesThrough(t *testing.T) {
	f := newAuthFixture(t, &models.TokenPair{Access: "acc", Refresh: "ref"}, fail(errNetwork))

	_, err := f.get(t)
	assert.ErrorIs(t, err, errNetwork)
	assert.NotErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, f.logouts)
}

func TestAuthHook_RetryReplaysBody(t *testing.T) {
	f := newAuthFixture(t, &models.TokenPair{Access: "acc", Refresh: "ref"},
		reply(http.StatusUnauthorized, expiredBody),
		reply(http.StatusCreated, `{"id":9}`),
	)

	req, err := http.NewRequest(http.MethodPost, "http://backend.test/api/produit/", strings.NewReader(`{"designation":"Cobalt"}`))
	require.NoError(t, err)
	resp, err := f.http.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, f.transport.bodies, 2)
	assert.Equal(t, f.transport.bodies[0], f.transport.bodies[1])
	assert.Equal(t, `{"designation":"Cobalt"}`, f.transport.bodies[1])
}

func TestAuthHook_UnreplayableBodyLogsOut(t *testing.T) {
	f := newAuthFixture(t, &models.TokenPair{Access: "acc", Refresh: "ref"},
		reply(http.StatusUnauthorized, expiredBody),
	)

	req, err := http.NewRequest(http.MethodPost, "http://backend.test/api/produit/", io.NopCloser(strings.NewReader(`{}`)))
	require.NoError(t, err)
	req.GetBody = nil

	_, err = f.http.Do(req)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, f.refresher.calls)
	assert.Equal(t, 1, f.logouts)
}

func TestBearerHook_NoTokenNoHeader(t *testing.T) {
	f := newAuthFixture(t, nil, reply(http.StatusOK, `[]`))

	resp, err := f.get(t)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, f.transport.calls[0].Header.Get("Authorization"))
}
