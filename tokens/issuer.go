// Package tokens issues and verifies the signed, time-limited bearer tokens
// that carry a user id as their subject.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when the token is invalid
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrMissingClaim is returned when a required claim is missing
	ErrMissingClaim = errors.New("missing required claim")

	// ErrInvalidClaim is returned when a claim cannot be parsed
	ErrInvalidClaim = errors.New("invalid claim")
)

// Config holds the key material and policy for an Issuer
type Config struct {
	Secret    []byte
	Algorithm string // HS256, HS384 or HS512
	TTL       time.Duration
	Issuer    string // optional; verified when set
}

// Issuer mints and verifies HMAC-signed JWTs
type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// NewIssuer creates an Issuer. It fails on an empty secret, unknown algorithm or non-positive TTL.
func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	method, err := signingMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TTL)
	}

	i := &Issuer{
		secret: cfg.Secret,
		method: method,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	i.parser = i.newParser()
	return i, nil
}

// WithClock returns a copy of the issuer that reads time from now
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	c := *i
	c.now = now
	c.parser = c.newParser()
	return &c
}

func (i *Issuer) newParser() *jwt.Parser {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	return jwt.NewParser(opts...)
}

// TTL returns how long minted tokens stay valid
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Mint signs a token whose subject is the given user id
func (i *Issuer) Mint(subject uuid.UUID) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject.String(),
		Issuer:    i.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, expiry and issuer, and returns the subject.
// Expired tokens yield ErrTokenExpired; a missing or non-UUID subject yields
// ErrMissingClaim or ErrInvalidClaim; everything else is ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := i.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return uuid.Nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: sub: %v", ErrInvalidClaim, err)
	}

	return sub, nil
}

func signingMethod(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case "HS256", "":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported token algorithm %q", alg)
	}
}
