package cli

import (
	"strconv"

	"github.com/cgea-sas/console/internal/client/api"
	"github.com/cgea-sas/console/internal/client/models"
	"github.com/cgea-sas/console/internal/client/services"
)

func newCereCommands(a *App, svc *services.CereService) *certCommands[models.Cere, models.CereForm] {
	return &certCommands[models.Cere, models.CereForm]{
		app:    a,
		svc:    svc,
		label:  "CERE",
		export: api.ExportCere,
		table: []column[models.Cere]{
			{"ID", func(c models.Cere) string { return strconv.FormatInt(c.ID, 10) }},
			{"NUMÉRO", func(c models.Cere) string { return c.Number }},
			{"DATE", func(c models.Cere) string { return c.IssueDate }},
			{"EXPORTATEUR", func(c models.Cere) string { return c.Exporter.Label() }},
			{"TRANSITAIRE", func(c models.Cere) string { return c.Forwarder.Label() }},
			{"PRODUIT", func(c models.Cere) string { return c.Product.Label() }},
			{"POIDS", func(c models.Cere) string { return c.Weight.String() }},
			{"TAUX", func(c models.Cere) string { return c.RadioactivityRate.String() }},
			{"ÉMIS À", func(c models.Cere) string { return c.IssuedAt.PostLabel() }},
		},
		detail: func(c models.Cere) []field {
			return []field{
				{"ID", strconv.FormatInt(c.ID, 10)},
				{"Numéro CERE", c.Number},
				{"Date d'émission", c.IssueDate},
				{"Exportateur", c.Exporter.Label()},
				{"Transitaire", c.Forwarder.Label()},
				{"Numéro de lot", c.LotNumber},
				{"Produit", c.Product.Label()},
				{"Taux de radioactivité", c.RadioactivityRate.String()},
				{"Poids", c.Weight.String()},
				{"Émis à", c.IssuedAt.PostLabel()},
				{"Enregistré le", c.RecordedOn},
				{"Enregistré par", c.RecordedBy},
			}
		},
		id:   func(c models.Cere) int64 { return c.ID },
		scan: func(c models.Cere) string { return c.Scan },
		from: models.CereFormFrom,
		fill: fillCere,
	}
}

func newCertlCommands(a *App, svc *services.CertlService) *certCommands[models.Certl, models.CertlForm] {
	return &certCommands[models.Certl, models.CertlForm]{
		app:    a,
		svc:    svc,
		label:  "CERTL",
		export: api.ExportCertl,
		table: []column[models.Certl]{
			{"ID", func(c models.Certl) string { return strconv.FormatInt(c.ID, 10) }},
			{"NUMÉRO", func(c models.Certl) string { return c.Number }},
			{"DATE", func(c models.Certl) string { return c.IssueDate }},
			{"OPÉRATEUR MINIER", func(c models.Certl) string { return c.MiningOperator.Label() }},
			{"DESTINATEUR", func(c models.Certl) string { return c.Recipient.Label() }},
			{"PRODUIT", func(c models.Certl) string { return c.Product.Label() }},
			{"ORIGINE", func(c models.Certl) string { return c.Origin }},
			{"POIDS", func(c models.Certl) string { return c.Weight.String() }},
			{"TAUX", func(c models.Certl) string { return c.RadioactivityRate.String() }},
		},
		detail: func(c models.Certl) []field {
			return []field{
				{"ID", strconv.FormatInt(c.ID, 10)},
				{"Numéro de certificat", c.Number},
				{"Date d'émission", c.IssueDate},
				{"Opérateur minier", c.MiningOperator.Label()},
				{"Destinateur", c.Recipient.Label()},
				{"Origine", c.Origin},
				{"Produit", c.Product.Label()},
				{"Taux de radioactivité", c.RadioactivityRate.String()},
				{"Poids", c.Weight.String()},
				{"Émis à", c.IssuedAt.PostLabel()},
			}
		},
		id:   func(c models.Certl) int64 { return c.ID },
		scan: func(c models.Certl) string { return c.Scan },
		from: models.CertlFormFrom,
		fill: fillCertl,
	}
}
