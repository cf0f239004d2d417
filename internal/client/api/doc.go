// Package api binds the backend REST endpoints to typed calls.
//
// AuthAPI talks to the token endpoints over a client without the auth
// interceptors, so a rejected login or refresh is an ordinary error and never
// a forced logout. Every other resource goes through the intercepted client.
package api
