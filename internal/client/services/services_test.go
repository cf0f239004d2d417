package services

import (
	"context"
	"testing"
	"time"

	"github.com/cgea-sas/console/internal/client/api"
	"github.com/cgea-sas/console/internal/client/api/apitest"
	"github.com/cgea-sas/console/internal/client/client"
	"github.com/cgea-sas/console/internal/client/credstore"
	"github.com/cgea-sas/console/internal/client/models"
	"github.com/cgea-sas/console/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*apitest.Backend, *api.API) {
	t.Helper()
	backend := apitest.NewBackend()
	t.Cleanup(backend.Close)
	backend.AddUser("agent", "secret")

	log := logging.NewNop()
	plain, err := client.NewPlain(backend.URL(), 5*time.Second, log)
	require.NoError(t, err)
	auth := api.NewAuthAPI(plain)

	store := credstore.NewMemoryStore()
	pair, err := auth.Login(context.Background(), models.Credentials{Username: "agent", Password: "secret"})
	require.NoError(t, err)
	credstore.SavePair(context.Background(), store, pair)

	authed, err := client.NewAuthenticated(backend.URL(), 5*time.Second, store, auth, nil, log)
	require.NoError(t, err)
	return backend, api.New(authed)
}

func TestCereService_LoadFillsView(t *testing.T) {
	backend, a := setup(t)
	backend.Seed("cere",
		apitest.Record{"numero_cere": "LSH-0001-2025", "date_emission": "2025-01-02", "poids": "10"},
		apitest.Record{"numero_cere": "LSH-0002-2025", "date_emission": "2025-01-05", "poids": 20},
	)
	svc := NewCereService(a, 10, logging.NewNop())

	require.NoError(t, svc.Load(context.Background()))

	res := svc.View().Result()
	require.Equal(t, 2, res.Total)
	assert.Equal(t, "LSH-0002-2025", res.Items[0].Number)
	assert.Equal(t, 30.0, svc.View().Stats().TotalWeight)
	assert.Equal(t, models.KindCere, svc.Kind())
}

func TestCereService_LoadFailureEmptiesView(t *testing.T) {
	backend, a := setup(t)
	backend.Seed("cere", apitest.Record{"numero_cere": "LSH-0001-2025"})
	svc := NewCereService(a, 10, logging.NewNop())
	require.NoError(t, svc.Load(context.Background()))

	backend.FailNext("cere", 1)
	err := svc.Load(context.Background())
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.Zero(t, svc.View().Result().Total)

	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, 1, svc.View().Result().Total)
}

func TestCereService_CreateValidatesNumberFirst(t *testing.T) {
	backend, a := setup(t)
	svc := NewCereService(a, 10, logging.NewNop())

	_, draft, err := svc.Create(context.Background(), models.CereForm{Number: "xyz-1234-2025"})
	assert.ErrorIs(t, err, models.ErrNumberCode)
	assert.Equal(t, "XYZ-1234-2025", draft.Number)
	assert.Zero(t, backend.Requests("POST /api/cere/"))

	_, _, err = svc.Create(context.Background(), models.CereForm{Number: "lsh-1234-1999"})
	assert.ErrorIs(t, err, models.ErrNumberYear)
}

func TestCereService_CreateUpdateDelete(t *testing.T) {
	backend, a := setup(t)
	backend.Seed("exportateur", apitest.Record{"id": 1, "designation": "Alpha"})
	svc := NewCereService(a, 10, logging.NewNop())
	ctx := context.Background()

	created, _, err := svc.Create(ctx, models.CereForm{Number: "lsh-1234-2025", ExporterID: 1, IssueDate: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "LSH-1234-2025", created.Number)
	assert.Equal(t, "Alpha", created.Exporter.Label())

	form := models.CereFormFrom(created)
	form.LotNumber = "L-2"
	updated, _, err := svc.Update(ctx, created.ID, form)
	require.NoError(t, err)
	assert.Equal(t, "L-2", updated.LotNumber)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "L-2", got.LotNumber)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, backend.Records("cere"))
}

func TestCereService_BackendRejectionKeepsDraft(t *testing.T) {
	backend, a := setup(t)
	backend.Seed("cere", apitest.Record{"numero_cere": "LSH-1234-2025"})
	svc := NewCereService(a, 10, logging.NewNop())

	_, draft, err := svc.Create(context.Background(), models.CereForm{Number: "LSH-1234-2025", LotNumber: "L-1"})
	assert.ErrorIs(t, err, client.ErrBadRequest)
	assert.Equal(t, "L-1", draft.LotNumber)
}

func TestCertlService_AcceptsFreeFormNumbers(t *testing.T) {
	_, a := setup(t)
	svc := NewCertlService(a, 10, logging.NewNop())

	created, _, err := svc.Create(context.Background(), models.CertlForm{Number: "certl 42", Origin: "Likasi"})
	require.NoError(t, err)
	assert.Equal(t, "CERTL 42", created.Number)
	assert.Equal(t, "Likasi", created.Origin)
}

func TestLookupService_LoadsAllFourLists(t *testing.T) {
	backend, a := setup(t)
	backend.Seed("exportateur", apitest.Record{"designation": "Alpha"}, apitest.Record{"designation": "Beta"})
	backend.Seed("transitaire", apitest.Record{"designation": "Trans"})
	backend.Seed("produit", apitest.Record{"designation": "Cuivre", "taux_maximum": "2.5"})
	backend.Seed("poste", apitest.Record{"site": "Kasumbalesa", "poste": "Frontière"})

	lk, err := NewLookupService(a).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, lk.Exporters, 2)
	assert.Len(t, lk.Forwarders, 1)
	assert.Equal(t, models.Decimal(2.5), lk.Products[0].MaximumRate)
	assert.Equal(t, "Kasumbalesa", lk.Posts[0].Label())

	assert.Equal(t, 1, backend.Requests("GET /api/exportateur/"))
	assert.Equal(t, 1, backend.Requests("GET /api/poste/"))
}

func TestLookupService_AnyFailureFailsLoad(t *testing.T) {
	backend, a := setup(t)
	backend.Forbid("produit")

	_, err := NewLookupService(a).Load(context.Background())
	assert.ErrorIs(t, err, client.ErrForbidden)
}
