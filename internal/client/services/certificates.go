package services

import (
	"context"
	"fmt"

	"github.com/cgea-sas/console/internal/client/api"
	"github.com/cgea-sas/console/internal/client/models"
	"github.com/cgea-sas/console/internal/client/query"
	"github.com/cgea-sas/console/internal/logging"
)

// Form is a certificate form that can normalize and validate itself.
type Form[F any] interface {
	api.Form
	Normalized() F
	Validate() error
}

// CertificateService manages one certificate kind.
type CertificateService[T any, F Form[F]] struct {
	kind models.Kind
	res  *api.Resource[T]
	view *query.View[T]
	log  logging.Logger
}

func NewCertificateService[T any, F Form[F]](kind models.Kind, res *api.Resource[T], cols query.Columns[T], pageSize int, log logging.Logger) *CertificateService[T, F] {
	return &CertificateService[T, F]{
		kind: kind,
		res:  res,
		view: query.NewView(cols, pageSize),
		log:  log.With("kind", string(kind)),
	}
}

type CereService = CertificateService[models.Cere, models.CereForm]

type CertlService = CertificateService[models.Certl, models.CertlForm]

func NewCereService(a *api.API, pageSize int, log logging.Logger) *CereService {
	return NewCertificateService[models.Cere, models.CereForm](models.KindCere, a.Cere, query.CereColumns, pageSize, log)
}

func NewCertlService(a *api.API, pageSize int, log logging.Logger) *CertlService {
	return NewCertificateService[models.Certl, models.CertlForm](models.KindCertl, a.Certl, query.CertlColumns, pageSize, log)
}

func (s *CertificateService[T, F]) Kind() models.Kind {
	return s.kind
}

func (s *CertificateService[T, F]) View() *query.View[T] {
	return s.view
}

// Load replaces the view records with the full backend list. On failure
// the view is emptied and the error returned for display.
func (s *CertificateService[T, F]) Load(ctx context.Context) error {
	items, err := s.res.All(ctx, api.ListOptions{})
	if err != nil {
		s.view.SetRecords(nil)
		s.log.Warn(ctx, "list fetch failed", "error", err)
		return fmt.Errorf("load %s: %w", s.kind, err)
	}
	s.view.SetRecords(items)
	s.log.Debug(ctx, "list loaded", "count", len(items))
	return nil
}

func (s *CertificateService[T, F]) Get(ctx context.Context, id int64) (T, error) {
	return s.res.Get(ctx, id)
}

// Create validates form and sends it. The returned form is the normalized
// one, to be kept as a draft when the call fails.
func (s *CertificateService[T, F]) Create(ctx context.Context, form F) (T, F, error) {
	form = form.Normalized()
	var zero T
	if err := form.Validate(); err != nil {
		return zero, form, fmt.Errorf("invalid %s number: %w", s.kind, err)
	}
	out, err := s.res.CreateForm(ctx, form)
	if err != nil {
		return zero, form, err
	}
	s.log.Info(ctx, "certificate created")
	return out, form, nil
}

func (s *CertificateService[T, F]) Update(ctx context.Context, id int64, form F) (T, F, error) {
	form = form.Normalized()
	var zero T
	if err := form.Validate(); err != nil {
		return zero, form, fmt.Errorf("invalid %s number: %w", s.kind, err)
	}
	out, err := s.res.UpdateForm(ctx, id, form)
	if err != nil {
		return zero, form, err
	}
	s.log.Info(ctx, "certificate updated", "id", id)
	return out, form, nil
}

func (s *CertificateService[T, F]) Delete(ctx context.Context, id int64) error {
	if err := s.res.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "certificate deleted", "id", id)
	return nil
}
