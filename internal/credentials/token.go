package credentials

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/deepself/deepself-cli/internal/clierr"
)

// EnvSessionToken holds the JWT used by the API key endpoints
const EnvSessionToken = "DEEPSELF_JWT"

// TokenInfo is what the CLI can learn from a session token without its signing key
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// InspectToken parses a JWT without verifying its signature. The server does the
// verification; this only rejects tokens that are malformed or already expired.
func InspectToken(raw string, now time.Time) (TokenInfo, error) {
	if raw == "" {
		return TokenInfo{}, clierr.Auth(fmt.Sprintf("API key management requires a session token. Pass --token or set %s", EnvSessionToken))
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return TokenInfo{}, clierr.Auth("session token is not a valid JWT")
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return TokenInfo{}, clierr.Auth("session token has an invalid exp claim")
	}
	if exp != nil {
		info.ExpiresAt = exp.Time
		if now.After(exp.Time) {
			return info, clierr.Auth(fmt.Sprintf("session token expired at %s", exp.Time.UTC().Format(time.RFC3339)))
		}
	}

	return info, nil
}
