// Package credstore keeps the two bearer tokens of the session.
//
// Callers never see storage errors: an unreadable store reads as "no token"
// and failed writes are logged and dropped.
package credstore

import (
	"context"

	"github.com/cgea-sas/console/internal/client/models"
)

// Well-known keys; no other keys are written by the console.
const (
	AccessKey  = "access_token"
	RefreshKey = "refresh_token"
)

// Store is a persistent string key/value store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Remove(ctx context.Context, key string)
}

// pairStore is implemented by stores that can write or clear both tokens atomically.
type pairStore interface {
	SetPair(ctx context.Context, pair models.TokenPair)
	ClearPair(ctx context.Context)
}

// SavePair stores both tokens of pair.
func SavePair(ctx context.Context, s Store, pair models.TokenPair) {
	if ps, ok := s.(pairStore); ok {
		ps.SetPair(ctx, pair)
		return
	}
	s.Set(ctx, AccessKey, pair.Access)
	s.Set(ctx, RefreshKey, pair.Refresh)
}

// Clear removes both tokens. It is safe to call on an empty store.
func Clear(ctx context.Context, s Store) {
	if ps, ok := s.(pairStore); ok {
		ps.ClearPair(ctx)
		return
	}
	s.Remove(ctx, AccessKey)
	s.Remove(ctx, RefreshKey)
}

// AccessToken returns the stored access token; empty values count as absent.
func AccessToken(ctx context.Context, s Store) (string, bool) {
	v, ok := s.Get(ctx, AccessKey)
	return v, ok && v != ""
}

// RefreshToken returns the stored refresh token; empty values count as absent.
func RefreshToken(ctx context.Context, s Store) (string, bool) {
	v, ok := s.Get(ctx, RefreshKey)
	return v, ok && v != ""
}
