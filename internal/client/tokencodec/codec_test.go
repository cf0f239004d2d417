package tokencodec

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segment(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func token(payload string) string {
	return segment(`{"alg":"HS256","typ":"JWT"}`) + "." + segment(payload) + ".sig"
}

func TestDecode_Malformed(t *testing.T) {
	tests := map[string]string{
		"empty":           "",
		"one segment":     "abc",
		"two segments":    "a." + segment(`{"a":1}`),
		"four segments":   "a." + segment(`{"a":1}`) + ".c.d",
		"invalid base64":  "a.%%%.c",
		"not json":        "a." + segment("hello") + ".c",
		"json array":      "a." + segment(`[1,2]`) + ".c",
		"json null":       "a." + segment(`null`) + ".c",
		"json string":     "a." + segment(`"x"`) + ".c",
		"empty payload":   "a..c",
		"truncated json":  "a." + segment(`{"a":`) + ".c",
		"only separators": "..",
	}

	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			require.NotPanics(t, func() {
				claims, ok := Decode(tok)
				assert.False(t, ok)
				assert.Nil(t, claims)
			})
		})
	}
}

func TestDecode_ReturnsExactPayload(t *testing.T) {
	claims, ok := Decode(token(`{"user_id":3,"username":"agent","exp":1735689600,"roles":["a","b"],"nested":{"k":"v"}}`))
	require.True(t, ok)

	assert.Equal(t, Claims{
		"user_id":  float64(3),
		"username": "agent",
		"exp":      float64(1735689600),
		"roles":    []any{"a", "b"},
		"nested":   map[string]any{"k": "v"},
	}, claims)
}

func TestDecode_PaddedSegment(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte(`{"a":"b"}`))
	claims, ok := Decode("h." + padded + ".s")
	require.True(t, ok)
	assert.Equal(t, "b", claims["a"])
}

func TestDecode_IgnoresSignatureAndExpiry(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("some-other-key"))
	require.NoError(t, err)

	claims, ok := Decode(signed)
	require.True(t, ok)
	assert.Equal(t, "42", Subject(claims))
}

func TestUsername(t *testing.T) {
	assert.Equal(t, "agent", Username(Claims{"username": "agent", "user_id": float64(1)}))
	assert.Equal(t, "17", Username(Claims{"user_id": float64(17)}))
	assert.Equal(t, "u-1", Username(Claims{"user_id": "u-1"}))
	assert.Equal(t, "bob", Username(Claims{"sub": "bob"}))
	assert.Equal(t, "", Username(Claims{}))
}

func TestExpiresAt(t *testing.T) {
	at, ok := ExpiresAt(Claims{"exp": float64(1735689600)})
	require.True(t, ok)
	assert.Equal(t, int64(1735689600), at.Unix())

	_, ok = ExpiresAt(Claims{})
	assert.False(t, ok)

	_, ok = ExpiresAt(Claims{"exp": "soon"})
	assert.False(t, ok)
}
