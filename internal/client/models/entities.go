package models

// Ref is a related entity as nested inside a certificate. Issuing posts
// carry poste/site/antenne instead of, or next to, a designation.
type Ref struct {
	ID          int64  `json:"id"`
	Designation string `json:"designation,omitempty"`
	Poste       string `json:"poste,omitempty"`
	Site        string `json:"site,omitempty"`
	Antenne     string `json:"antenne,omitempty"`
}

// Label is the designation of r, or "" for a nil reference.
func (r *Ref) Label() string {
	if r == nil {
		return ""
	}
	return r.Designation
}

// PostLabel names an issuing post: poste, falling back to designation.
func (r *Ref) PostLabel() string {
	if r == nil {
		return ""
	}
	if r.Poste != "" {
		return r.Poste
	}
	return r.Designation
}

type Exporter struct {
	ID          int64  `json:"id"`
	Designation string `json:"designation"`
	Sigle       string `json:"sigle"`
	Contact     string `json:"contact"`
	Email       string `json:"email"`
}

// Forwarder (transitaire) has the same shape as an exporter.
type Forwarder struct {
	ID          int64  `json:"id"`
	Designation string `json:"designation"`
	Sigle       string `json:"sigle"`
	Contact     string `json:"contact"`
	Email       string `json:"email"`
}

type Product struct {
	ID           int64   `json:"id"`
	Designation  string  `json:"designation"`
	Abbreviation string  `json:"abbreviation"`
	MaximumRate  Decimal `json:"taux_maximum"`
	Notes        string  `json:"notes"`
}

// Post is an issuing post (poste d'émission).
type Post struct {
	ID          int64  `json:"id"`
	Site        string `json:"site"`
	Poste       string `json:"poste"`
	Ville       string `json:"ville"`
	Antenne     string `json:"antenne"`
	Designation string `json:"designation,omitempty"`
}

// Label is the name shown in selection lists: site, poste, antenne, then designation.
func (p Post) Label() string {
	for _, s := range []string{p.Site, p.Poste, p.Antenne, p.Designation} {
		if s != "" {
			return s
		}
	}
	return ""
}
