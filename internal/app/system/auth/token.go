package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid covers bad signatures, wrong algorithms and expiry.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenNoSubject is returned when the token names no user.
	ErrTokenNoSubject = errors.New("token has no user id")
)

// TokenVerifier checks HS256 tokens issued by the identity service. The
// user id is read from the "_id" claim, falling back to "sub".
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenVerifier returns a verifier for tokens signed with secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify parses raw and returns the user it names. Name, email and status
// claims are optional; the UserFetcher fills them from the database.
func (v *TokenVerifier) Verify(raw string) (*SessionUser, error) {
	claims := jwt.MapClaims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	id := claimString(claims, "_id")
	if id == "" {
		id, _ = claims.GetSubject()
	}
	if id == "" {
		return nil, ErrTokenNoSubject
	}
	return &SessionUser{
		ID:     id,
		Name:   claimString(claims, "name"),
		Email:  claimString(claims, "email"),
		Status: claimString(claims, "status"),
	}, nil
}

// Issue signs a token for u valid for ttl. Used by the dev bootstrap and
// tests; production tokens come from the identity service.
func (v *TokenVerifier) Issue(u SessionUser, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"_id":    u.ID,
		"sub":    u.ID,
		"name":   u.Name,
		"email":  u.Email,
		"status": u.Status,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func claimString(c jwt.MapClaims, key string) string {
	if s, ok := c[key].(string); ok {
		return s
	}
	return ""
}
