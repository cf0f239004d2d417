package query

import (
	"github.com/cgea-sas/console/internal/client/models"
)

// SortKey reads the value a list is ordered by. Exactly one of Text and
// Number is set.
type SortKey[T any] struct {
	Text   func(T) string
	Number func(T) float64
}

// Chart is a bar-chart series definition: one bar per label, valued by
// Value, or by record count when Value is nil.
type Chart[T any] struct {
	Title string
	Label func(T) string
	Value func(T) float64
}

// Columns describes how to read records of one kind.
type Columns[T any] struct {
	Date    func(T) string
	Text    map[string]func(T) string
	Sort    map[string]SortKey[T]
	Weight  func(T) float64
	Rate    func(T) float64
	Charts  map[string]Chart[T]
	DateKey string
}

const unknownLabel = "Inconnu"

// series labels a record "<designation> - <date>", Inconnu standing in for
// a missing designation.
func series[T any](date func(T) string, name func(T) string) func(T) string {
	return func(r T) string {
		n := name(r)
		if n == "" {
			n = unknownLabel
		}
		return n + " - " + date(r)
	}
}

func cereDate(c models.Cere) string { return c.IssueDate }

func cereWeight(c models.Cere) float64 { return c.Weight.Float64() }

// CereColumns reads CERE records.
var CereColumns = Columns[models.Cere]{
	Date:    cereDate,
	DateKey: "date_emission",
	Text: map[string]func(models.Cere) string{
		"numero_cere": func(c models.Cere) string { return c.Number },
		"exportateur": func(c models.Cere) string { return c.Exporter.Label() },
		"transitaire": func(c models.Cere) string { return c.Forwarder.Label() },
		"produit":     func(c models.Cere) string { return c.Product.Label() },
		"emis_a":      func(c models.Cere) string { return c.IssuedAt.PostLabel() },
	},
	Sort: map[string]SortKey[models.Cere]{
		"date_emission": {Text: cereDate},
		"numero_cere":   {Text: func(c models.Cere) string { return c.Number }},
		"exportateur":   {Text: func(c models.Cere) string { return c.Exporter.Label() }},
		"transitaire":   {Text: func(c models.Cere) string { return c.Forwarder.Label() }},
		"produit":       {Text: func(c models.Cere) string { return c.Product.Label() }},
		"emis_a":        {Text: func(c models.Cere) string { return c.IssuedAt.PostLabel() }},
		"poids":         {Number: cereWeight},
	},
	Weight: cereWeight,
	Rate:   func(c models.Cere) float64 { return c.RadioactivityRate.Float64() },
	Charts: map[string]Chart[models.Cere]{
		"exportateur": {
			Title: "CERE par exportateur",
			Label: series(cereDate, func(c models.Cere) string { return c.Exporter.Label() }),
		},
		"transitaire": {
			Title: "CERE par transitaire",
			Label: series(cereDate, func(c models.Cere) string { return c.Forwarder.Label() }),
		},
		"produit": {
			Title: "Poids par produit",
			Label: series(cereDate, func(c models.Cere) string { return c.Product.Label() }),
			Value: cereWeight,
		},
	},
}

func certlDate(c models.Certl) string { return c.IssueDate }

func certlWeight(c models.Certl) float64 { return c.Weight.Float64() }

// CertlColumns reads CERTL records.
var CertlColumns = Columns[models.Certl]{
	Date:    certlDate,
	DateKey: "date_emission",
	Text: map[string]func(models.Certl) string{
		"numero_certificat": func(c models.Certl) string { return c.Number },
		"operateur_minier":  func(c models.Certl) string { return c.MiningOperator.Label() },
		"destinateur":       func(c models.Certl) string { return c.Recipient.Label() },
		"produit":           func(c models.Certl) string { return c.Product.Label() },
		"origine":           func(c models.Certl) string { return c.Origin },
		"emis_a":            func(c models.Certl) string { return c.IssuedAt.PostLabel() },
	},
	Sort: map[string]SortKey[models.Certl]{
		"date_emission":     {Text: certlDate},
		"numero_certificat": {Text: func(c models.Certl) string { return c.Number }},
		"operateur_minier":  {Text: func(c models.Certl) string { return c.MiningOperator.Label() }},
		"destinateur":       {Text: func(c models.Certl) string { return c.Recipient.Label() }},
		"produit":           {Text: func(c models.Certl) string { return c.Product.Label() }},
		"origine":           {Text: func(c models.Certl) string { return c.Origin }},
		"emis_a":            {Text: func(c models.Certl) string { return c.IssuedAt.PostLabel() }},
		"poids":             {Number: certlWeight},
	},
	Weight: certlWeight,
	Rate:   func(c models.Certl) float64 { return c.RadioactivityRate.Float64() },
	Charts: map[string]Chart[models.Certl]{
		"operateur_minier": {
			Title: "CERTL par opérateur minier",
			Label: series(certlDate, func(c models.Certl) string { return c.MiningOperator.Label() }),
		},
		"destinateur": {
			Title: "CERTL par destinateur",
			Label: series(certlDate, func(c models.Certl) string { return c.Recipient.Label() }),
		},
		"produit": {
			Title: "Poids par produit",
			Label: series(certlDate, func(c models.Certl) string { return c.Product.Label() }),
			Value: certlWeight,
		},
	},
}
