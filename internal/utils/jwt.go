package utils // package utils provides helper functions for session tokens and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"

	"github.com/jchiwaii/blood-donations-sub000/internal/model"
)

// SessionToken is a signed HS256 JWT asserting a user's identity for a
// bounded time.  There is no server-side session table; the token itself is
// the session.  ID carries the "jti" claim and is what the logout denylist
// keys on.
type SessionToken struct {
	Token string    // the serialized JWT string
	ID    string    // jti claim, unique per issued token
	Exp   time.Time // the UTC expiration time
}

// SessionClaims is the identity projection extracted from a verified
// session token.  Callers must still re-read the identity row before
// trusting Name/Email/Role for anything beyond routing, so that edits
// made after issuance are observed.
type SessionClaims struct {
	UserID  uint64
	Name    string
	Email   string
	Role    string
	TokenID string
	Exp     time.Time
}

// ErrInvalidToken is returned by ParseSessionToken for any verification
// failure: malformed input, bad signature, unexpected algorithm, missing
// claims or expiry.  Callers treat all of these identically as "no
// identity".
var ErrInvalidToken = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT for a user.  The claims
// are the public identity fields plus a random jti; ttlDays controls the
// expiry (7 days in the default configuration).
func NewSessionToken(secret string, u model.User, ttlDays int) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	jti := uuid.NewString()

	claims := jwt.MapClaims{
		"sub":   u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
		"jti":   jti,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, ID: jti, Exp: exp}, nil
}

// ParseSessionToken verifies signature and expiry and extracts the session
// claims.  Any failure collapses into ErrInvalidToken.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC; an attacker
		// controls the header's alg field.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}

	var sc SessionClaims
	switch sub := mc["sub"].(type) {
	case float64:
		sc.UserID = uint64(sub)
	default:
		return SessionClaims{}, ErrInvalidToken
	}
	sc.Name, _ = mc["name"].(string)
	sc.Email, _ = mc["email"].(string)
	sc.Role, _ = mc["role"].(string)
	sc.TokenID, _ = mc["jti"].(string)
	if sc.Role == "" || sc.TokenID == "" {
		return SessionClaims{}, ErrInvalidToken
	}
	if expf, ok := mc["exp"].(float64); ok {
		sc.Exp = time.Unix(int64(expf), 0).UTC()
	} else {
		return SessionClaims{}, ErrInvalidToken
	}
	return sc, nil
}
