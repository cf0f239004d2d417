// Package models defines the records exchanged with the certification
// backend: certificates (CERE, CERTL), the entities they reference, the
// session token pair and the client-side certificate-number validator.
package models
