package services

import (
	"context"
	"fmt"

	"github.com/cgea-sas/console/internal/client/api"
	"github.com/cgea-sas/console/internal/client/models"
	"golang.org/x/sync/errgroup"
)

// lookupPageSize asks for every row in one page.
const lookupPageSize = 10000

// Lookups are the reference lists of the certificate forms.
type Lookups struct {
	Exporters  []models.Exporter
	Forwarders []models.Forwarder
	Products   []models.Product
	Posts      []models.Post
}

type LookupService struct {
	api *api.API
}

func NewLookupService(a *api.API) *LookupService {
	return &LookupService{api: a}
}

// Load fetches the four lists concurrently. Any failure fails the whole load.
func (s *LookupService) Load(ctx context.Context) (Lookups, error) {
	var out Lookups
	opts := api.ListOptions{PageSize: lookupPageSize}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Exporters, err = s.api.Exporters.All(ctx, opts)
		return err
	})
	g.Go(func() (err error) {
		out.Forwarders, err = s.api.Forwarders.All(ctx, opts)
		return err
	})
	g.Go(func() (err error) {
		out.Products, err = s.api.Products.All(ctx, opts)
		return err
	})
	g.Go(func() (err error) {
		out.Posts, err = s.api.Posts.All(ctx, opts)
		return err
	})

	if err := g.Wait(); err != nil {
		return Lookups{}, fmt.Errorf("load lookups: %w", err)
	}
	return out, nil
}

func (s *LookupService) Exporters(ctx context.Context) ([]models.Exporter, error) {
	return s.api.Exporters.All(ctx, api.ListOptions{PageSize: lookupPageSize})
}

func (s *LookupService) Forwarders(ctx context.Context) ([]models.Forwarder, error) {
	return s.api.Forwarders.All(ctx, api.ListOptions{PageSize: lookupPageSize})
}

func (s *LookupService) Products(ctx context.Context) ([]models.Product, error) {
	return s.api.Products.All(ctx, api.ListOptions{PageSize: lookupPageSize})
}

func (s *LookupService) Posts(ctx context.Context) ([]models.Post, error) {
	return s.api.Posts.All(ctx, api.ListOptions{PageSize: lookupPageSize})
}
