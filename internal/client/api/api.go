package api

import (
	"net/url"
	"strings"

	"github.com/cgea-sas/console/internal/client/client"
	"github.com/cgea-sas/console/internal/client/models"
)

// API groups the backend resources behind one intercepted client.
type API struct {
	base *url.URL

	Cere       *Resource[models.Cere]
	Certl      *Resource[models.Certl]
	Exporters  *Resource[models.Exporter]
	Forwarders *Resource[models.Forwarder]
	Products   *Resource[models.Product]
	Posts      *Resource[models.Post]
}

func New(c *client.Client) *API {
	return &API{
		base:       c.BaseURL(),
		Cere:       NewResource[models.Cere](c, CerePath),
		Certl:      NewResource[models.Certl](c, CertlPath),
		Exporters:  NewResource[models.Exporter](c, ExporterPath),
		Forwarders: NewResource[models.Forwarder](c, ForwarderPath),
		Products:   NewResource[models.Product](c, ProductPath),
		Posts:      NewResource[models.Post](c, PostPath),
	}
}

// ExportKind names a spreadsheet export.
type ExportKind string

const (
	ExportCere       ExportKind = "cere"
	ExportCertl      ExportKind = "certl"
	ExportExporters  ExportKind = "exportateurs"
	ExportForwarders ExportKind = "transitaires"
	ExportProducts   ExportKind = "produits"
	ExportPosts      ExportKind = "postes"
)

func (a *API) origin() string {
	return a.base.Scheme + "://" + a.base.Host
}

// ExportURL is the Excel export address of kind. Opening it is left to the user.
func (a *API) ExportURL(kind ExportKind) string {
	return a.origin() + "/api/export/" + string(kind) + "/excel/"
}

// ScanURL makes a stored scan reference absolute. Empty stays empty.
func (a *API) ScanURL(scan string) string {
	switch {
	case scan == "":
		return ""
	case strings.HasPrefix(scan, "http"):
		return scan
	case strings.HasPrefix(scan, "/"):
		return a.origin() + scan
	default:
		return a.origin() + "/" + scan
	}
}
