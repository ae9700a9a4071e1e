package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Roles  []string
	Labels []string
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to staff clients. Roles
// travel as a set so multi-role users keep every permission in one session.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Roles  []string  `json:"roles"`
	Labels []string  `json:"labels,omitempty"`
	jwt.RegisteredClaims
}
