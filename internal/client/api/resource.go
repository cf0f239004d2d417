package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/cgea-sas/console/internal/client/client"
	"github.com/cgea-sas/console/internal/client/models"
)

// Resource paths under the API base URL.
const (
	CerePath      = "cere/"
	CertlPath     = "certl/"
	ExporterPath  = "exportateur/"
	ForwarderPath = "transitaire/"
	ProductPath   = "produit/"
	PostPath      = "poste/"
)

// maxPages bounds All against a backend that keeps returning next links.
const maxPages = 1000

// ListOptions selects one page of a list endpoint. Zero Page and PageSize
// are left to the backend defaults.
type ListOptions struct {
	Page     int
	PageSize int
	Params   url.Values
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	for k, vals := range o.Params {
		v[k] = append([]string(nil), vals...)
	}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(o.PageSize))
	}
	return v
}

// Resource is a CRUD endpoint returning records of type T.
type Resource[T any] struct {
	c    *client.Client
	path string
}

func NewResource[T any](c *client.Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: path}
}

func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) itemPath(id int64) string {
	return r.path + strconv.FormatInt(id, 10) + "/"
}

func (r *Resource[T]) List(ctx context.Context, opts ListOptions) (client.Page[T], error) {
	var page client.Page[T]
	if err := r.c.GetJSON(ctx, r.path, opts.values(), &page); err != nil {
		return client.Page[T]{}, fmt.Errorf("list %s: %w", r.path, err)
	}
	return page, nil
}

// All fetches the first page and then follows next links.
func (r *Resource[T]) All(ctx context.Context, opts ListOptions) ([]T, error) {
	page, err := r.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	items := page.Results
	for i := 0; page.Next != "" && i < maxPages; i++ {
		next := page.Next
		page = client.Page[T]{}
		if err := r.c.GetURL(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("list %s: %w", r.path, err)
		}
		items = append(items, page.Results...)
	}
	return items, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	if err := r.c.GetJSON(ctx, r.itemPath(id), nil, &out); err != nil {
		return out, fmt.Errorf("get %s%d: %w", r.path, id, err)
	}
	return out, nil
}

func (r *Resource[T]) Create(ctx context.Context, in any) (T, error) {
	var out T
	if err := r.c.PostJSON(ctx, r.path, in, &out); err != nil {
		return out, fmt.Errorf("create %s: %w", r.path, err)
	}
	return out, nil
}

func (r *Resource[T]) Update(ctx context.Context, id int64, in any) (T, error) {
	var out T
	if err := r.c.PutJSON(ctx, r.itemPath(id), in, &out); err != nil {
		return out, fmt.Errorf("update %s%d: %w", r.path, id, err)
	}
	return out, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	if err := r.c.Delete(ctx, r.itemPath(id)); err != nil {
		return fmt.Errorf("delete %s%d: %w", r.path, id, err)
	}
	return nil
}

// Form is a certificate form sent as multipart data.
type Form interface {
	Fields() []models.FormField
	Attachment() *models.Attachment
}

func (r *Resource[T]) CreateForm(ctx context.Context, f Form) (T, error) {
	var out T
	if err := r.c.PostMultipart(ctx, r.path, f.Fields(), f.Attachment(), &out); err != nil {
		return out, fmt.Errorf("create %s: %w", r.path, err)
	}
	return out, nil
}

func (r *Resource[T]) UpdateForm(ctx context.Context, id int64, f Form) (T, error) {
	var out T
	if err := r.c.PutMultipart(ctx, r.itemPath(id), f.Fields(), f.Attachment(), &out); err != nil {
		return out, fmt.Errorf("update %s%d: %w", r.path, id, err)
	}
	return out, nil
}
