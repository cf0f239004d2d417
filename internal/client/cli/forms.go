package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cgea-sas/console/internal/client/models"
	"github.com/cgea-sas/console/internal/filex"
)

// choice is one selectable reference in a form.
type choice struct {
	ID    int64
	Label string
}

// prompter walks the fields of a form. The first error stops every later
// prompt and is reported by err.
type prompter struct {
	a   *App
	err error
}

func (p *prompter) text(label string, v *string) {
	if p.err != nil {
		return
	}
	*v, p.err = GetWithDefault(p.a.reader, label, *v, p.a.out)
}

// ref lists choices and reads an id. An empty answer keeps the current one.
func (p *prompter) ref(label string, choices []choice, v *int64) {
	if p.err != nil {
		return
	}
	tw := newTable(p.a.out)
	for _, c := range choices {
		fmt.Fprintf(tw, "  %d\t%s\n", c.ID, dash(c.Label))
	}
	if p.err = tw.Flush(); p.err != nil {
		return
	}

	current := ""
	if *v != 0 {
		current = strconv.FormatInt(*v, 10)
	}
	var answer string
	if answer, p.err = GetWithDefault(p.a.reader, label+" (id)", current, p.a.out); p.err != nil || answer == "" {
		return
	}
	id, err := strconv.ParseInt(answer, 10, 64)
	if err != nil || id <= 0 {
		p.err = fmt.Errorf("%s: %q is not an id", label, answer)
		return
	}
	*v = id
}

// file reads an attachment path. An empty answer keeps the current file,
// or leaves the stored scan untouched on edit.
func (p *prompter) file(label string, v **models.Attachment) {
	if p.err != nil {
		return
	}
	current := ""
	if *v != nil {
		current = (*v).Filename
	}
	var path string
	if path, p.err = GetSimpleText(p.a.reader, label+" (file path, empty to keep)", p.a.out); p.err != nil || path == "" {
		return
	}
	if path == current {
		return
	}
	name, data, err := filex.ReadUpload(path)
	if err != nil {
		p.err = err
		return
	}
	*v = &models.Attachment{Filename: name, Data: data}
}

func exporterChoices(items []models.Exporter) []choice {
	out := make([]choice, len(items))
	for i, e := range items {
		out[i] = choice{e.ID, e.Designation}
	}
	return out
}

func forwarderChoices(items []models.Forwarder) []choice {
	out := make([]choice, len(items))
	for i, f := range items {
		out[i] = choice{f.ID, f.Designation}
	}
	return out
}

func productChoices(items []models.Product) []choice {
	out := make([]choice, len(items))
	for i, p := range items {
		out[i] = choice{p.ID, p.Designation}
	}
	return out
}

func postChoices(items []models.Post) []choice {
	out := make([]choice, len(items))
	for i, p := range items {
		out[i] = choice{p.ID, p.Label()}
	}
	return out
}

func fillCere(ctx context.Context, a *App, f models.CereForm) (models.CereForm, error) {
	lk, err := a.lookups.Load(ctx)
	if err != nil {
		return f, err
	}
	p := &prompter{a: a}
	p.text("Numéro CERE (e.g. LSH-0001-2025)", &f.Number)
	p.text("Date d'émission (YYYY-MM-DD)", &f.IssueDate)
	p.ref("Exportateur", exporterChoices(lk.Exporters), &f.ExporterID)
	p.ref("Transitaire", forwarderChoices(lk.Forwarders), &f.ForwarderID)
	p.text("Numéro de lot", &f.LotNumber)
	p.ref("Produit", productChoices(lk.Products), &f.ProductID)
	p.text("Taux de radioactivité", &f.RadioactivityRate)
	p.text("Poids", &f.Weight)
	p.ref("Émis à", postChoices(lk.Posts), &f.IssuedAtID)
	p.text("Enregistré le (YYYY-MM-DD)", &f.RecordedOn)
	p.text("Enregistré par", &f.RecordedBy)
	p.file("Scan", &f.Scan)
	return f, p.err
}

// fillCertl offers exporters for both the mining operator and the recipient.
func fillCertl(ctx context.Context, a *App, f models.CertlForm) (models.CertlForm, error) {
	lk, err := a.lookups.Load(ctx)
	if err != nil {
		return f, err
	}
	exporters := exporterChoices(lk.Exporters)
	p := &prompter{a: a}
	p.text("Numéro de certificat", &f.Number)
	p.text("Date d'émission (YYYY-MM-DD)", &f.IssueDate)
	p.ref("Opérateur minier", exporters, &f.MiningOperatorID)
	p.ref("Destinateur", exporters, &f.RecipientID)
	p.text("Origine", &f.Origin)
	p.ref("Produit", productChoices(lk.Products), &f.ProductID)
	p.text("Taux de radioactivité", &f.RadioactivityRate)
	p.text("Poids", &f.Weight)
	p.ref("Émis à", postChoices(lk.Posts), &f.IssuedAtID)
	p.file("Scan", &f.Scan)
	return f, p.err
}
