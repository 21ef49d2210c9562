package server

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"school-management/backend/internal/school/domain"
	schoolrepo "school-management/backend/internal/school/repository"
	staffdomain "school-management/backend/internal/staff/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// SchoolHandler serves the /v1/schools endpoints.
type SchoolHandler struct {
	repo schoolrepo.Repository
}

// NewSchoolHandler returns a SchoolHandler backed by repo.
func NewSchoolHandler(repo schoolrepo.Repository) *SchoolHandler {
	return &SchoolHandler{repo: repo}
}

type schoolResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toSchoolResponse(s *domain.School) schoolResponse {
	return schoolResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
	}
}

// List handles GET /v1/schools.
func (h *SchoolHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := int32(defaultPageSize)
	offset := int32(0)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			limit = int32(n)
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n >= 0 {
			offset = int32(n)
		}
	}
	schools, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("server: list schools: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]schoolResponse, 0, len(schools))
	for _, s := range schools {
		out = append(out, toSchoolResponse(s))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"schools": out})
}

// Get handles GET /v1/schools/{id}.
func (h *SchoolHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("server: get school %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "school not found")
		return
	}
	writeJSON(w, http.StatusOK, toSchoolResponse(s))
}

type createSchoolRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Create handles POST /v1/schools. Admin role required.
func (h *SchoolHandler) Create(w http.ResponseWriter, r *http.Request) {
	role, _ := GetRole(r.Context())
	if role != string(staffdomain.StaffRoleAdmin) {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}
	var req createSchoolRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s := &domain.School{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Address:   req.Address,
		Status:    domain.SchoolStatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.repo.Create(r.Context(), s); err != nil {
		log.Printf("server: create school: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, toSchoolResponse(s))
}
