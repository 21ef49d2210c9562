package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, unsigned, or
	// signed with the wrong secret.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a token is well formed but past its
	// expiry. Callers must reject it exactly like ErrInvalidToken; the
	// distinction exists for internal diagnostics only.
	ErrTokenExpired = errors.New("token expired")
)

// SessionClaims holds the JWT claims carried by a session token: the staff
// member (subject), the school scoping the session, and the staff role.
type SessionClaims struct {
	jwt.RegisteredClaims
	SchoolID string `json:"school_id"`
	Role     string `json:"role"`
}

// TokenProvider issues and validates self-contained HS256 session tokens
// signed with a process-wide secret. Tokens are stateless: there is no
// server-side session store and no revocation list, so a token stays valid
// until its expiry.
type TokenProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenProvider returns a TokenProvider signing with secret. issuer is set
// on claims and checked on validation. ttl is the session lifetime; 30
// minutes is the default used when ttl is not positive.
func NewTokenProvider(secret []byte, issuer string, ttl time.Duration) *TokenProvider {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenProvider{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the provider's clock. For tests.
func (p *TokenProvider) WithNow(now func() time.Time) *TokenProvider {
	p.now = now
	return p
}

// Issue signs a session token for the given staff member, school, and role.
// Expiry is issuance time plus the provider TTL. Two tokens issued for the
// same claims at different instants differ in both signature and expiry.
func (p *TokenProvider) Issue(staffID, schoolID, role string) (token string, expiresAt time.Time, err error) {
	now := p.now()
	expiresAt = now.Add(p.ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staffID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SchoolID: schoolID,
		Role:     role,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate parses and validates tokenString (signature, expiry, issuer) and
// returns its claims. Returns ErrTokenExpired for a well formed token past
// its expiry and ErrInvalidToken for everything else; no lower-level error
// crosses this boundary.
func (p *TokenProvider) Validate(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithIssuer(p.issuer),
	)
	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
