package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cgea-sas/console/internal/client/api"
	"github.com/cgea-sas/console/internal/client/models"
)

var entityExports = map[string]api.ExportKind{
	"exporters":  api.ExportExporters,
	"forwarders": api.ExportForwarders,
	"products":   api.ExportProducts,
	"posts":      api.ExportPosts,
}

func id64(id int64) string { return strconv.FormatInt(id, 10) }

var partyColumns = []column[models.Exporter]{
	{"ID", func(e models.Exporter) string { return id64(e.ID) }},
	{"DÉSIGNATION", func(e models.Exporter) string { return e.Designation }},
	{"SIGLE", func(e models.Exporter) string { return e.Sigle }},
	{"CONTACT", func(e models.Exporter) string { return e.Contact }},
	{"EMAIL", func(e models.Exporter) string { return e.Email }},
}

var productColumns = []column[models.Product]{
	{"ID", func(p models.Product) string { return id64(p.ID) }},
	{"DÉSIGNATION", func(p models.Product) string { return p.Designation }},
	{"ABRÉVIATION", func(p models.Product) string { return p.Abbreviation }},
	{"TAUX MAXIMUM", func(p models.Product) string { return p.MaximumRate.String() }},
	{"NOTES", func(p models.Product) string { return p.Notes }},
}

var postColumns = []column[models.Post]{
	{"ID", func(p models.Post) string { return id64(p.ID) }},
	{"SITE", func(p models.Post) string { return p.Site }},
	{"POSTE", func(p models.Post) string { return p.Poste }},
	{"VILLE", func(p models.Post) string { return p.Ville }},
	{"ANTENNE", func(p models.Post) string { return p.Antenne }},
}

// Entities lists or exports one reference list.
func (a *App) Entities(ctx context.Context, name string, args []string) error {
	ok, err := a.guard(ctx)
	if !ok {
		return err
	}

	sub := "list"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}
	switch sub {
	case "export":
		fmt.Fprintf(a.out, "Excel export: %s\n", a.api.ExportURL(entityExports[name]))
		return nil
	case "list", "ls":
	default:
		return fmt.Errorf("unknown %s command %q", name, sub)
	}

	switch name {
	case "exporters":
		items, err := a.lookups.Exporters(ctx)
		if err != nil {
			return err
		}
		return renderEntities(a, partyColumns, items)
	case "forwarders":
		items, err := a.lookups.Forwarders(ctx)
		if err != nil {
			return err
		}
		parties := make([]models.Exporter, len(items))
		for i, f := range items {
			parties[i] = models.Exporter(f)
		}
		return renderEntities(a, partyColumns, parties)
	case "products":
		items, err := a.lookups.Products(ctx)
		if err != nil {
			return err
		}
		return renderEntities(a, productColumns, items)
	case "posts":
		items, err := a.lookups.Posts(ctx)
		if err != nil {
			return err
		}
		return renderEntities(a, postColumns, items)
	}
	return fmt.Errorf("unknown list %q", name)
}

func renderEntities[T any](a *App, cols []column[T], items []T) error {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No records.")
		return nil
	}
	if err := renderTable(a.out, cols, items); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d records\n", len(items))
	return nil
}
