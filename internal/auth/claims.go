package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"tasktrack/internal/policy"
)

// Claims is the JWT payload for a session token. The token is
// self-contained: user ID (sub), role, expiry, and a unique JTI. No
// server-side session state backs it.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts verified claims into the caller identity the
// authorization policy consumes.
func (c *Claims) Identity() policy.Identity {
	return policy.Identity{
		UserID: c.Subject,
		Role:   c.Role,
	}
}
