// Package tokencodec reads the identity payload of a stored access token.
//
// Decoding is for display and session bootstrap only: the signature is not
// verified and expiry is not enforced. The backend remains the authority.
package tokencodec

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of an access token.
type Claims = jwt.MapClaims

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode returns the claims carried in the middle segment of token. It
// reports false for anything that is not three dot-separated segments with
// a base64url JSON object in the middle.
func Decode(token string) (Claims, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, false
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil || claims == nil {
		return nil, false
	}
	return claims, true
}

// Username is the name to greet the user with: the "username" claim, then
// "user_id", then the subject.
func Username(c Claims) string {
	if s, ok := c["username"].(string); ok && s != "" {
		return s
	}
	switch v := c["user_id"].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return Subject(c)
}

func Subject(c Claims) string {
	sub, err := c.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// ExpiresAt returns the "exp" claim, or false when it is missing or malformed.
func ExpiresAt(c Claims) (time.Time, bool) {
	exp, err := c.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
