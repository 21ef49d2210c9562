package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"school-management/backend/internal/security"
)

func newTestTokens(t *testing.T) *security.TokenProvider {
	t.Helper()
	return security.NewTokenProvider([]byte("test-secret"), "school-backend", 30*time.Minute)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := newTestTokens(t)
	token, _, err := tokens.Issue("staff-1", "school-1", "teacher")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var gotStaff, gotSchool, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStaff, _ = GetStaffID(r.Context())
		gotSchool, _ = GetSchoolID(r.Context())
		gotRole, _ = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	RequireAuth(tokens)(next).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotStaff != "staff-1" || gotSchool != "school-1" || gotRole != "teacher" {
		t.Errorf("identity = %q/%q/%q, want staff-1/school-1/teacher", gotStaff, gotSchool, gotRole)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	tokens := newTestTokens(t)
	otherTokens := security.NewTokenProvider([]byte("other-secret"), "school-backend", 30*time.Minute)
	foreignToken, _, err := otherTokens.Issue("staff-1", "school-1", "teacher")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	testCases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-token"},
		{"wrong secret", "Bearer " + foreignToken},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

			r := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			RequireAuth(tokens)(next).ServeHTTP(w, r)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			if called {
				t.Error("next handler should not be called")
			}
		})
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := security.NewTokenProvider([]byte("test-secret"), "school-backend", 30*time.Minute).
		WithNow(func() time.Time { return past })
	token, _, err := issuer.Issue("staff-1", "school-1", "teacher")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	RequireAuth(newTestTokens(t))(next).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for expired token", w.Code)
	}
}

func TestExtractBearer(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		want   string
	}{
		{"standard", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"extra whitespace", "  Bearer   abc  ", "abc"},
		{"missing", "", ""},
		{"scheme only", "Bearer", ""},
		{"wrong scheme", "Basic abc", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			if got := extractBearer(r); got != tc.want {
				t.Errorf("extractBearer = %q, want %q", got, tc.want)
			}
		})
	}
}
