// Package services contains the application services of the console.
//
// CertificateService backs the CERE and CERTL screens: it loads the full
// list into a query.View and performs create, update and delete calls with
// client-side validation. LookupService fetches the reference lists used by
// form prompts and the entity screens.
package services
