package models

import (
	"strconv"
	"strings"
)

// Kind identifies a certificate record kind.
type Kind string

const (
	KindCere  Kind = "cere"
	KindCertl Kind = "certl"
)

// Cere is an export radioactivity-evaluation certificate.
type Cere struct {
	ID                int64   `json:"id"`
	Number            string  `json:"numero_cere"`
	IssueDate         string  `json:"date_emission"`
	Exporter          *Ref    `json:"exportateur"`
	Forwarder         *Ref    `json:"transitaire"`
	LotNumber         string  `json:"numero_lot"`
	RadioactivityRate Decimal `json:"taux_radioactivite"`
	Product           *Ref    `json:"produit"`
	Weight            Decimal `json:"poids"`
	Scan              string  `json:"scan"`
	IssuedAt          *Ref    `json:"emis_a"`
	RecordedOn        string  `json:"enregistre_le"`
	RecordedBy        string  `json:"enregistre_par"`
}

// Certl is a local-transaction radioactivity-evaluation certificate.
type Certl struct {
	ID                int64   `json:"id"`
	Number            string  `json:"numero_certificat"`
	IssueDate         string  `json:"date_emission"`
	MiningOperator    *Ref    `json:"operateur_minier"`
	Recipient         *Ref    `json:"destinateur"`
	Origin            string  `json:"origine"`
	Product           *Ref    `json:"produit"`
	RadioactivityRate Decimal `json:"taux_radioactivite"`
	Weight            Decimal `json:"poids"`
	Scan              string  `json:"scan"`
	IssuedAt          *Ref    `json:"emis_a"`
}

// Attachment is a scanned document sent as the "scan" multipart part.
type Attachment struct {
	Filename string
	Data     []byte
}

// FormField is one multipart text field, in submission order.
type FormField struct {
	Name  string
	Value string
}

// CereForm is the editable state of a CERE create/edit form.
type CereForm struct {
	Number            string
	IssueDate         string
	ExporterID        int64
	ForwarderID       int64
	LotNumber         string
	RadioactivityRate string
	ProductID         int64
	Weight            string
	IssuedAtID        int64
	RecordedOn        string
	RecordedBy        string
	Scan              *Attachment
}

// CereFormFrom pre-fills a form from an existing record.
func CereFormFrom(c Cere) CereForm {
	return CereForm{
		Number:            c.Number,
		IssueDate:         c.IssueDate,
		ExporterID:        refID(c.Exporter),
		ForwarderID:       refID(c.Forwarder),
		LotNumber:         c.LotNumber,
		RadioactivityRate: c.RadioactivityRate.String(),
		ProductID:         refID(c.Product),
		Weight:            c.Weight.String(),
		IssuedAtID:        refID(c.IssuedAt),
		RecordedOn:        c.RecordedOn,
		RecordedBy:        c.RecordedBy,
	}
}

// Normalized returns f with the certificate number upper-cased.
func (f CereForm) Normalized() CereForm {
	f.Number = strings.ToUpper(strings.TrimSpace(f.Number))
	return f
}

func (f CereForm) Validate() error {
	return ValidateCereNumber(f.Number)
}

func (f CereForm) Fields() []FormField {
	return []FormField{
		{"exportateur_id", idString(f.ExporterID)},
		{"transitaire_id", idString(f.ForwarderID)},
		{"produit_id", idString(f.ProductID)},
		{"emis_a_id", idString(f.IssuedAtID)},
		{"numero_cere", f.Number},
		{"date_emission", f.IssueDate},
		{"numero_lot", f.LotNumber},
		{"taux_radioactivite", f.RadioactivityRate},
		{"poids", f.Weight},
		{"enregistre_le", f.RecordedOn},
		{"enregistre_par", f.RecordedBy},
	}
}

func (f CereForm) Attachment() *Attachment {
	return f.Scan
}

// CertlForm is the editable state of a CERTL create/edit form.
type CertlForm struct {
	Number            string
	IssueDate         string
	MiningOperatorID  int64
	RecipientID       int64
	Origin            string
	ProductID         int64
	RadioactivityRate string
	Weight            string
	IssuedAtID        int64
	Scan              *Attachment
}

func CertlFormFrom(c Certl) CertlForm {
	return CertlForm{
		Number:            c.Number,
		IssueDate:         c.IssueDate,
		MiningOperatorID:  refID(c.MiningOperator),
		RecipientID:       refID(c.Recipient),
		Origin:            c.Origin,
		ProductID:         refID(c.Product),
		RadioactivityRate: c.RadioactivityRate.String(),
		Weight:            c.Weight.String(),
		IssuedAtID:        refID(c.IssuedAt),
	}
}

func (f CertlForm) Normalized() CertlForm {
	f.Number = strings.ToUpper(strings.TrimSpace(f.Number))
	return f
}

// Validate accepts any CERTL number; only CERE numbers have a fixed format.
func (f CertlForm) Validate() error {
	return nil
}

func (f CertlForm) Fields() []FormField {
	return []FormField{
		{"operateur_minier_id", idString(f.MiningOperatorID)},
		{"destinateur_id", idString(f.RecipientID)},
		{"produit_id", idString(f.ProductID)},
		{"emis_a_id", idString(f.IssuedAtID)},
		{"date_emission", f.IssueDate},
		{"numero_certificat", f.Number},
		{"origine", f.Origin},
		{"taux_radioactivite", f.RadioactivityRate},
		{"poids", f.Weight},
	}
}

func (f CertlForm) Attachment() *Attachment {
	return f.Scan
}

func refID(r *Ref) int64 {
	if r == nil {
		return 0
	}
	return r.ID
}

// idString renders an unset reference as an empty field.
func idString(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
