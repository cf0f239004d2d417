package api

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/cgea-sas/console/internal/client/api/apitest"
	"github.com/cgea-sas/console/internal/client/client"
	"github.com/cgea-sas/console/internal/client/credstore"
	"github.com/cgea-sas/console/internal/client/models"
	"github.com/cgea-sas/console/internal/client/tokencodec"
	"github.com/cgea-sas/console/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend *apitest.Backend
	store   *credstore.MemoryStore
	auth    *AuthAPI
	api     *API
	logouts int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{backend: apitest.NewBackend(), store: credstore.NewMemoryStore()}
	t.Cleanup(f.backend.Close)
	f.backend.AddUser("agent", "secret")

	log := logging.NewNop()
	plain, err := client.NewPlain(f.backend.URL(), 5*time.Second, log)
	require.NoError(t, err)
	f.auth = NewAuthAPI(plain)

	authed, err := client.NewAuthenticated(f.backend.URL(), 5*time.Second, f.store, f.auth, func() { f.logouts++ }, log)
	require.NoError(t, err)
	f.api = New(authed)
	return f
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	pair, err := f.auth.Login(context.Background(), models.Credentials{Username: "agent", Password: "secret"})
	require.NoError(t, err)
	credstore.SavePair(context.Background(), f.store, pair)
}

func TestLogin_ReturnsDecodableTokens(t *testing.T) {
	f := newFixture(t)

	pair, err := f.auth.Login(context.Background(), models.Credentials{Username: "agent", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Refresh)

	claims, ok := tokencodec.Decode(pair.Access)
	require.True(t, ok)
	assert.Equal(t, "agent", tokencodec.Username(claims))
}

func TestLogin_InvalidCredentialsIsPlainError(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Login(context.Background(), models.Credentials{Username: "agent", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.NotErrorIs(t, err, client.ErrSessionExpired)
	assert.Zero(t, f.logouts)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	refresh, _ := credstore.RefreshToken(context.Background(), f.store)

	access, err := f.auth.Refresh(context.Background(), refresh)
	require.NoError(t, err)
	_, ok := tokencodec.Decode(access)
	assert.True(t, ok)

	_, err = f.auth.Refresh(context.Background(), "unknown")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestResource_ListPagesAndAll(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	for i := 0; i < 5; i++ {
		f.backend.Seed("produit", apitest.Record{"designation": "P" + string(rune('a'+i))})
	}
	ctx := context.Background()

	page, err := f.api.Products.List(ctx, ListOptions{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)
	assert.Equal(t, 5, page.Count)
	assert.NotEmpty(t, page.Next)

	all, err := f.api.Products.All(ctx, ListOptions{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "Pa", all[0].Designation)
	assert.Equal(t, "Pe", all[4].Designation)

	bare, err := f.api.Products.All(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, bare, 5)
}

func TestResource_ListParams(t *testing.T) {
	opts := ListOptions{Page: 3, PageSize: 10000, Params: url.Values{"search": {"cu"}}}
	v := opts.values()
	assert.Equal(t, "3", v.Get("page"))
	assert.Equal(t, "10000", v.Get("page_size"))
	assert.Equal(t, "cu", v.Get("search"))
	assert.Empty(t, opts.Params.Get("page"))
}

func TestCere_CreateUpdateGetDelete(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.Seed("exportateur", apitest.Record{"id": 1, "designation": "Alpha"})
	f.backend.Seed("produit", apitest.Record{"id": 3, "designation": "Cuivre"})
	f.backend.Seed("poste", apitest.Record{"id": 4, "poste": "Kasumbalesa"})
	ctx := context.Background()

	form := models.CereForm{
		Number: "LSH-1234-2025", IssueDate: "2025-03-02", ExporterID: 1, ProductID: 3,
		IssuedAtID: 4, RadioactivityRate: "0.4", Weight: "1200",
		Scan: &models.Attachment{Filename: "scan.pdf", Data: []byte("%PDF")},
	}
	created, err := f.api.Cere.CreateForm(ctx, form)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, "Alpha", created.Exporter.Label())
	assert.Equal(t, "Kasumbalesa", created.IssuedAt.PostLabel())
	assert.Nil(t, created.Forwarder)
	assert.Equal(t, models.Decimal(1200), created.Weight)
	assert.Equal(t, "/media/scans/scan.pdf", created.Scan)

	form.Scan = nil
	form.Weight = "1300"
	updated, err := f.api.Cere.UpdateForm(ctx, created.ID, form)
	require.NoError(t, err)
	assert.Equal(t, models.Decimal(1300), updated.Weight)
	assert.Equal(t, "/media/scans/scan.pdf", updated.Scan)

	got, err := f.api.Cere.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "LSH-1234-2025", got.Number)

	_, err = f.api.Cere.CreateForm(ctx, form)
	assert.ErrorIs(t, err, client.ErrBadRequest)

	require.NoError(t, f.api.Cere.Delete(ctx, created.ID))
	_, err = f.api.Cere.Get(ctx, created.ID)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestEntity_JSONCreateUpdate(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	created, err := f.api.Exporters.Create(ctx, models.Exporter{Designation: "Alpha", Sigle: "ALP"})
	require.NoError(t, err)
	assert.Equal(t, "ALP", created.Sigle)

	created.Email = "contact@alpha.cd"
	updated, err := f.api.Exporters.Update(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "contact@alpha.cd", updated.Email)
}

func TestExpiredAccessTokenIsRefreshedTransparently(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.Seed("cere", apitest.Record{"numero_cere": "LSH-1234-2025"})
	before, _ := credstore.AccessToken(context.Background(), f.store)
	f.backend.ExpireAccessTokens()

	items, err := f.api.Cere.All(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	after, _ := credstore.AccessToken(context.Background(), f.store)
	assert.NotEqual(t, before, after)
	assert.Equal(t, 1, f.backend.RefreshCalls())
	assert.Equal(t, 2, f.backend.Requests("GET /api/cere/"))
	assert.Zero(t, f.logouts)
}

func TestRevokedRefreshTokenEndsSession(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.ExpireAccessTokens()
	f.backend.RevokeRefreshTokens()

	_, err := f.api.Certl.All(context.Background(), ListOptions{})
	assert.ErrorIs(t, err, client.ErrSessionExpired)
	assert.Equal(t, 1, f.logouts)

	_, ok := credstore.AccessToken(context.Background(), f.store)
	assert.False(t, ok)
	_, ok = credstore.RefreshToken(context.Background(), f.store)
	assert.False(t, ok)
}

func TestForbiddenIsPassedToCaller(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.Forbid("poste")

	_, err := f.api.Posts.All(context.Background(), ListOptions{})
	assert.ErrorIs(t, err, client.ErrForbidden)
	assert.Zero(t, f.logouts)
	_, ok := credstore.AccessToken(context.Background(), f.store)
	assert.True(t, ok)
}

func TestExportAndScanURL(t *testing.T) {
	c, err := client.New("https://cgea-sas-backend.onrender.com/api/", nil)
	require.NoError(t, err)
	a := New(c)

	assert.Equal(t, "https://cgea-sas-backend.onrender.com/api/export/cere/excel/", a.ExportURL(ExportCere))
	assert.Equal(t, "https://cgea-sas-backend.onrender.com/api/export/postes/excel/", a.ExportURL(ExportPosts))

	assert.Equal(t, "https://cdn.example/scan.pdf", a.ScanURL("https://cdn.example/scan.pdf"))
	assert.Equal(t, "https://cgea-sas-backend.onrender.com/media/scan.pdf", a.ScanURL("/media/scan.pdf"))
	assert.Equal(t, "https://cgea-sas-backend.onrender.com/media/scan.pdf", a.ScanURL("media/scan.pdf"))
	assert.Empty(t, a.ScanURL(""))
}
