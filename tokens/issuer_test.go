package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-that-is-long-enough-for-hs256")

func newTestIssuer(t *testing.T, cfg Config) *Issuer {
	t.Helper()
	if cfg.Secret == nil {
		cfg.Secret = testSecret
	}
	if cfg.TTL == 0 {
		cfg.TTL = 30 * time.Minute
	}
	issuer, err := NewIssuer(cfg)
	require.NoError(t, err)
	return issuer
}

// signRaw signs arbitrary claims with the test secret
func signRaw(t *testing.T, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func TestNewIssuer(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults to HS256", Config{Secret: testSecret, TTL: time.Minute}, ""},
		{"HS512", Config{Secret: testSecret, Algorithm: "HS512", TTL: time.Minute}, ""},
		{"empty secret", Config{TTL: time.Minute}, "secret is required"},
		{"asymmetric algorithm", Config{Secret: testSecret, Algorithm: "RS256", TTL: time.Minute}, "unsupported token algorithm"},
		{"zero ttl", Config{Secret: testSecret}, "ttl must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer, err := NewIssuer(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.TTL, issuer.TTL())
		})
	}
}

func TestIssuer_MintAndVerify(t *testing.T) {
	issuer := newTestIssuer(t, Config{Issuer: "course-api"})
	userID := uuid.New()

	token, err := issuer.Mint(userID)
	require.NoError(t, err)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestIssuer_Verify(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, Config{}).WithClock(func() time.Time { return now })
	userID := uuid.New()

	valid := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		}
	}

	tests := []struct {
		name    string
		token   func() string
		wantErr error
	}{
		{
			name:  "valid token",
			token: func() string { return signRaw(t, jwt.SigningMethodHS256, valid()) },
		},
		{
			name: "expired token",
			token: func() string {
				c := valid()
				c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Second))
				return signRaw(t, jwt.SigningMethodHS256, c)
			},
			wantErr: ErrTokenExpired,
		},
		{
			name: "missing expiry",
			token: func() string {
				c := valid()
				c.ExpiresAt = nil
				return signRaw(t, jwt.SigningMethodHS256, c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing subject",
			token: func() string {
				c := valid()
				c.Subject = ""
				return signRaw(t, jwt.SigningMethodHS256, c)
			},
			wantErr: ErrMissingClaim,
		},
		{
			name: "subject is not a uuid",
			token: func() string {
				c := valid()
				c.Subject = "42"
				return signRaw(t, jwt.SigningMethodHS256, c)
			},
			wantErr: ErrInvalidClaim,
		},
		{
			name:    "other algorithm",
			token:   func() string { return signRaw(t, jwt.SigningMethodHS512, valid()) },
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong secret",
			token: func() string {
				signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, valid()).SignedString([]byte("other"))
				require.NoError(t, err)
				return signed
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:    "garbage",
			token:   func() string { return "not.a.token" },
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := issuer.Verify(tt.token())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, uuid.Nil, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, got)
		})
	}
}

func TestIssuer_VerifyIssuer(t *testing.T) {
	minter := newTestIssuer(t, Config{Issuer: "someone-else"})
	verifier := newTestIssuer(t, Config{Issuer: "course-api"})

	token, err := minter.Mint(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_TokensExpireAfterTTL(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, Config{TTL: 30 * time.Minute}).WithClock(func() time.Time { return now })

	token, err := issuer.Mint(uuid.New())
	require.NoError(t, err)

	later := issuer.WithClock(func() time.Time { return now.Add(31 * time.Minute) })
	_, err = later.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
