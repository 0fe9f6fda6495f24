package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/authz"
	"tenantcrm/internal/models"
)

var testPrincipal = authz.Principal{TenantID: uuid.New(), UserID: uuid.New(), Email: "ada@acme.io"}

// newEngine returns a router whose requests are authenticated as
// testPrincipal unless anonymous is set.
func newEngine(anonymous bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	RegisterValidation()
	r := gin.New()
	if !anonymous {
		r.Use(func(c *gin.Context) {
			authz.SetPrincipal(c, testPrincipal)
			c.Next()
		})
	}
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type fakeCompanyService struct {
	createErr error
	deleted   bool
	gotPage   models.PageRequest
	gotSearch string
	gotPatch  models.Patch
	gotTenant uuid.UUID
}

func (s *fakeCompanyService) Create(_ context.Context, p authz.Principal, in models.CompanyInput) (*models.Company, error) {
	s.gotTenant = p.TenantID
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.Company{ID: uuid.New(), TenantID: p.TenantID, Name: in.Name}, nil
}

func (s *fakeCompanyService) List(_ context.Context, p authz.Principal, search string, page models.PageRequest) (*models.List[models.Company], error) {
	s.gotTenant, s.gotSearch, s.gotPage = p.TenantID, search, page
	return models.NewList[models.Company](nil, page, 0), nil
}

func (s *fakeCompanyService) GetByID(_ context.Context, p authz.Principal, id uuid.UUID) (*models.Company, error) {
	s.gotTenant = p.TenantID
	return nil, apperrors.NotFound("company")
}

func (s *fakeCompanyService) Update(_ context.Context, p authz.Principal, id uuid.UUID, patch models.Patch) (*models.Company, error) {
	s.gotTenant, s.gotPatch = p.TenantID, patch
	return &models.Company{ID: id, TenantID: p.TenantID, Name: "Acme"}, nil
}

func (s *fakeCompanyService) Delete(_ context.Context, p authz.Principal, id uuid.UUID) (bool, error) {
	s.gotTenant = p.TenantID
	return s.deleted, nil
}

func companyRouter(svc *fakeCompanyService, anonymous bool) *gin.Engine {
	r := newEngine(anonymous)
	h := NewCompanyHandler(svc)
	r.GET("/api/companies", h.List)
	r.POST("/api/companies", h.Create)
	r.GET("/api/companies/:id", h.GetByID)
	r.PUT("/api/companies/:id", h.Update)
	r.DELETE("/api/companies/:id", h.Delete)
	return r
}

func TestCompanyHandler_Delete(t *testing.T) {
	svc := &fakeCompanyService{deleted: true}
	r := companyRouter(svc, false)

	w := doRequest(r, http.MethodDelete, "/api/companies/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, testPrincipal.TenantID, svc.gotTenant)

	svc.deleted = false
	w = doRequest(r, http.MethodDelete, "/api/companies/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "company not found", decodeError(t, w).Error)
}

func TestCompanyHandler_Create(t *testing.T) {
	svc := &fakeCompanyService{}
	r := companyRouter(svc, false)

	w := doRequest(r, http.MethodPost, "/api/companies", `{"name":"Acme","employeeCount":12}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	var company models.Company
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &company))
	assert.Equal(t, "Acme", company.Name)
	assert.Equal(t, testPrincipal.TenantID, company.TenantID)
}

func TestCompanyHandler_CreateValidation(t *testing.T) {
	r := companyRouter(&fakeCompanyService{}, false)

	w := doRequest(r, http.MethodPost, "/api/companies", `{"industry":"Software"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "validation failed", resp.Error)
	assert.Equal(t, []apperrors.FieldError{{Field: "name", Message: "is required"}}, resp.Fields)

	w = doRequest(r, http.MethodPost, "/api/companies", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decodeError(t, w).Error)
}

func TestCompanyHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"conflict", apperrors.Conflict("company already exists"), http.StatusConflict, "company already exists"},
		{"validation", apperrors.Validation(apperrors.FieldError{Field: "name", Message: "must not be empty"}), http.StatusBadRequest, "validation failed"},
		{"internal", apperrors.Internal(errors.New("pq: connection refused"), "create company"), http.StatusInternalServerError, "internal server error"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := companyRouter(&fakeCompanyService{createErr: tt.err}, false)
			w := doRequest(r, http.MethodPost, "/api/companies", `{"name":"Acme"}`)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decodeError(t, w).Error)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestCompanyHandler_ListQuery(t *testing.T) {
	svc := &fakeCompanyService{}
	r := companyRouter(svc, false)

	w := doRequest(r, http.MethodGet, "/api/companies?page=3&limit=500&search=soft", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.PageRequest{Page: 3, Limit: models.MaxPageLimit}, svc.gotPage)
	assert.Equal(t, "soft", svc.gotSearch)
	assert.JSONEq(t, `{"data":[],"pagination":{"page":3,"limit":100,"total":0,"pages":0}}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/api/companies?page=two", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []apperrors.FieldError{{Field: "page", Message: "must be an integer"}}, decodeError(t, w).Fields)
}

func TestCompanyHandler_Update(t *testing.T) {
	svc := &fakeCompanyService{}
	r := companyRouter(svc, false)
	id := uuid.New()

	w := doRequest(r, http.MethodPut, "/api/companies/"+id.String(), `{"industry":"Software","website":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, svc.gotPatch, 2)
	assert.JSONEq(t, `"Software"`, string(svc.gotPatch["industry"]))
	assert.JSONEq(t, `null`, string(svc.gotPatch["website"]))

	w = doRequest(r, http.MethodPut, "/api/companies/"+id.String(), `["not","an","object"]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompanyHandler_BadIDAndMissingPrincipal(t *testing.T) {
	r := companyRouter(&fakeCompanyService{}, false)
	w := doRequest(r, http.MethodGet, "/api/companies/42", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []apperrors.FieldError{{Field: "id", Message: "must be a valid UUID"}}, decodeError(t, w).Fields)

	w = doRequest(r, http.MethodGet, "/api/companies/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	anon := companyRouter(&fakeCompanyService{}, true)
	w = doRequest(anon, http.MethodGet, "/api/companies", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
