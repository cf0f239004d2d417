// Package cli provides the interactive SAS certification console.
//
// It wires configuration, the local token database, the intercepted HTTP
// client, the session and the certificate services, then runs a REPL.
// Typical flow: restore the stored session or prompt for credentials, then
// browse, filter and edit CERE and CERTL certificates.
//
// Key features:
//   - Login / Logout / Whoami, with a forced return to the login prompt
//     when the session cannot be refreshed
//   - Paged, filtered and sorted certificate lists with statistics and
//     text bar charts
//   - Create / Edit / Delete with client-side CERE number validation and
//     scan upload; a failed save keeps the form as a draft
//   - Reference lists and Excel export links
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
