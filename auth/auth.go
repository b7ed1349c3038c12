// Package auth supplies the user identity shown at the confirmation step.
// The identity is an opaque precondition: an absent or unreadable session
// token yields the anonymous identity and the flow proceeds to a sign-in
// prompt instead of being blocked.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"theater-booking-cli/store"
)

// Identity is the user attached to a confirmation, or Anonymous.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	Anonymous bool
}

// Anonymous is the identity used when no valid session exists.
var Anonymous = Identity{Anonymous: true}

// Current loads the stored session token and decodes it into an identity.
// The token is decoded without signature verification: the remote store is
// the authority and re-checks it on submission; the client only needs the
// display claims.
func Current() Identity {
	token, err := store.LoadSessionToken()
	if err != nil || token == "" {
		return Anonymous
	}
	return FromToken(token, time.Now())
}

// FromToken decodes a JWT session token into an identity. Expired or
// malformed tokens yield Anonymous.
func FromToken(token string, now time.Time) Identity {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Anonymous
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && now.After(exp.Time) {
		return Anonymous
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return Anonymous
	}

	identity := Identity{UserID: sub}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	return identity
}

// DisplayName returns the best label for the identity.
func (i Identity) DisplayName() string {
	if i.Anonymous {
		return "guest"
	}
	if i.Name != "" {
		return i.Name
	}
	if i.Email != "" {
		return i.Email
	}
	return i.UserID
}
