package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"school-management/backend/internal/school/domain"
)

// memSchoolRepo is an in-memory school repository for handler tests.
type memSchoolRepo struct {
	mu      sync.Mutex
	schools []*domain.School
	listErr error
}

func (m *memSchoolRepo) GetByID(ctx context.Context, id string) (*domain.School, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.schools {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memSchoolRepo) List(ctx context.Context, limit, offset int32) ([]*domain.School, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	lo := int(offset)
	if lo > len(m.schools) {
		lo = len(m.schools)
	}
	hi := lo + int(limit)
	if hi > len(m.schools) {
		hi = len(m.schools)
	}
	out := make([]*domain.School, 0, hi-lo)
	for _, s := range m.schools[lo:hi] {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memSchoolRepo) Create(ctx context.Context, s *domain.School) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.schools = append(m.schools, &cp)
	return nil
}

func newSchoolRouter(t *testing.T, repo *memSchoolRepo, role string) (http.Handler, http.Header) {
	t.Helper()
	tokens := newTestTokens(t)
	router := NewRouter(Deps{Auth: &fakeAuthService{}, Tokens: tokens, SchoolRepo: repo})
	token, _, err := tokens.Issue("staff-1", "school-1", role)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	return router, header
}

func TestSchools_RequireAuth(t *testing.T) {
	router := NewRouter(Deps{Auth: &fakeAuthService{}, Tokens: newTestTokens(t), SchoolRepo: &memSchoolRepo{}})

	r := httptest.NewRequest("GET", "/v1/schools", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without token", w.Code)
	}
}

func TestSchools_List(t *testing.T) {
	repo := &memSchoolRepo{schools: []*domain.School{
		{ID: "s1", Name: "North High", Status: domain.SchoolStatusActive, CreatedAt: time.Now().UTC()},
		{ID: "s2", Name: "South High", Status: domain.SchoolStatusActive, CreatedAt: time.Now().UTC()},
	}}
	router, header := newSchoolRouter(t, repo, "teacher")

	r := httptest.NewRequest("GET", "/v1/schools", nil)
	r.Header = header
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Schools []schoolResponse `json:"schools"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Schools) != 2 {
		t.Errorf("len(schools) = %d, want 2", len(resp.Schools))
	}
}

func TestSchools_ListError(t *testing.T) {
	repo := &memSchoolRepo{listErr: errors.New("db down")}
	router, header := newSchoolRouter(t, repo, "teacher")

	r := httptest.NewRequest("GET", "/v1/schools", nil)
	r.Header = header
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestSchools_Get(t *testing.T) {
	repo := &memSchoolRepo{schools: []*domain.School{
		{ID: "s1", Name: "North High", Address: "1 Main St", Status: domain.SchoolStatusActive},
	}}
	router, header := newSchoolRouter(t, repo, "teacher")

	r := httptest.NewRequest("GET", "/v1/schools/s1", nil)
	r.Header = header
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp schoolResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Name != "North High" || resp.Address != "1 Main St" {
		t.Errorf("school = %+v", resp)
	}
}

func TestSchools_GetNotFound(t *testing.T) {
	router, header := newSchoolRouter(t, &memSchoolRepo{}, "teacher")

	r := httptest.NewRequest("GET", "/v1/schools/missing", nil)
	r.Header = header
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSchools_CreateRequiresAdmin(t *testing.T) {
	repo := &memSchoolRepo{}
	router, header := newSchoolRouter(t, repo, "teacher")

	w := postJSON(t, router, "/v1/schools", map[string]string{"name": "New School"}, header)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for non-admin", w.Code)
	}
	if len(repo.schools) != 0 {
		t.Error("school should not be created")
	}
}

func TestSchools_Create(t *testing.T) {
	repo := &memSchoolRepo{}
	router, header := newSchoolRouter(t, repo, "admin")

	w := postJSON(t, router, "/v1/schools", map[string]string{
		"name": "New School", "address": "2 Oak Ave",
	}, header)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}
	var resp schoolResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("created school should have a generated ID")
	}
	if resp.Status != string(domain.SchoolStatusActive) {
		t.Errorf("status = %q, want active", resp.Status)
	}
	if len(repo.schools) != 1 {
		t.Fatalf("len(repo.schools) = %d, want 1", len(repo.schools))
	}
}

func TestSchools_CreateMissingName(t *testing.T) {
	router, header := newSchoolRouter(t, &memSchoolRepo{}, "admin")

	w := postJSON(t, router, "/v1/schools", map[string]string{"address": "2 Oak Ave"}, header)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
