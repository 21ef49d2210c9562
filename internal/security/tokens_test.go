package security

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-session-secret"

func newTestProvider(ttl time.Duration) *TokenProvider {
	return NewTokenProvider([]byte(testSecret), "test-issuer", ttl)
}

func TestTokenProvider_IssueAndValidate(t *testing.T) {
	p := newTestProvider(30 * time.Minute)
	staffID, schoolID, role := "st1", "sc1", "admin"

	token, exp, err := p.Issue(staffID, schoolID, role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("token empty")
	}
	if exp.Before(time.Now()) {
		t.Fatal("expires at in the past")
	}

	claims, err := p.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Subject != staffID || claims.SchoolID != schoolID || claims.Role != role {
		t.Errorf("Validate: got subject=%q school_id=%q role=%q", claims.Subject, claims.SchoolID, claims.Role)
	}
}

func TestTokenProvider_ValidateMalformed(t *testing.T) {
	p := newTestProvider(30 * time.Minute)
	for _, token := range []string{"", "invalid-token", "a.b.c"} {
		if _, err := p.Validate(token); err != ErrInvalidToken {
			t.Errorf("Validate(%q): want ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestTokenProvider_ValidateTampered(t *testing.T) {
	p := newTestProvider(30 * time.Minute)
	token, _, err := p.Issue("st1", "sc1", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	b := []byte(token)
	i := strings.LastIndexByte(token, '.') + 1
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	if _, err := p.Validate(string(b)); err != ErrInvalidToken {
		t.Errorf("tampered token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidateWrongSecret(t *testing.T) {
	p := newTestProvider(30 * time.Minute)
	token, _, err := p.Issue("st1", "sc1", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other := NewTokenProvider([]byte("another-secret"), "test-issuer", 30*time.Minute)
	if _, err := other.Validate(token); err != ErrInvalidToken {
		t.Errorf("wrong secret: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidateExpired(t *testing.T) {
	p := newTestProvider(30 * time.Minute)
	issued := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	p.WithNow(func() time.Time { return issued })

	token, exp, err := p.Issue("st1", "sc1", "teacher")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if want := issued.Add(30 * time.Minute); !exp.Equal(want) {
		t.Errorf("expiry: want %v, got %v", want, exp)
	}

	// Still valid one minute before expiry.
	p.WithNow(func() time.Time { return issued.Add(29 * time.Minute) })
	if _, err := p.Validate(token); err != nil {
		t.Fatalf("Validate before expiry: %v", err)
	}

	p.WithNow(func() time.Time { return issued.Add(31 * time.Minute) })
	if _, err := p.Validate(token); err != ErrTokenExpired {
		t.Errorf("Validate after expiry: want ErrTokenExpired, got %v", err)
	}
}

func TestTokenProvider_TokensDifferAcrossInstants(t *testing.T) {
	p := newTestProvider(30 * time.Minute)
	at := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	p.WithNow(func() time.Time { return at })
	first, firstExp, err := p.Issue("st1", "sc1", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	p.WithNow(func() time.Time { return at.Add(time.Second) })
	second, secondExp, err := p.Issue("st1", "sc1", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if first == second {
		t.Error("tokens issued at different instants for identical claims should differ")
	}
	if firstExp.Equal(secondExp) {
		t.Error("expiries should differ")
	}
}

func TestTokenProvider_ValidateWrongIssuer(t *testing.T) {
	issued := NewTokenProvider([]byte(testSecret), "other-issuer", 30*time.Minute)
	token, _, err := issued.Issue("st1", "sc1", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	p := newTestProvider(30 * time.Minute)
	if _, err := p.Validate(token); err != ErrInvalidToken {
		t.Errorf("wrong issuer: want ErrInvalidToken, got %v", err)
	}
}
