package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"revenue_engine_backend/internal/leads/transport"
	"revenue_engine_backend/platform/apperr"
	"revenue_engine_backend/platform/httpkit"
	"revenue_engine_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	listStatus string
	listErr    error
	created    transport.CreateLeadRequest
	updated    transport.UpdateLeadRequest
	updateErr  error
	getErr     error
}

func (s *stubService) List(_ context.Context, status string) ([]transport.LeadResponse, error) {
	s.listStatus = status
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []transport.LeadResponse{sampleLead("qualified")}, nil
}

func (s *stubService) Create(_ context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	s.created = req
	lead := sampleLead("new")
	lead.CompanyName = req.CompanyName
	return lead, nil
}

func (s *stubService) GetByID(_ context.Context, _ uuid.UUID) (transport.LeadResponse, error) {
	if s.getErr != nil {
		return transport.LeadResponse{}, s.getErr
	}
	return sampleLead("new"), nil
}

func (s *stubService) Update(_ context.Context, _ uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	s.updated = req
	if s.updateErr != nil {
		return transport.LeadResponse{}, s.updateErr
	}
	return sampleLead("contacted"), nil
}

func sampleLead(status string) transport.LeadResponse {
	return transport.LeadResponse{
		ID:           uuid.New(),
		CompanyName:  "Acme",
		Technologies: []string{},
		KeyPersonnel: []string{},
		Status:       status,
		Source:       "ai_agent",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func newRouter(t *testing.T, svc LeadService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	val := validator.New()
	require.NoError(t, transport.RegisterValidations(val))

	r := gin.New()
	New(svc, val).RegisterRoutes(r.Group("/api/leads"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListPassesStatusFilter(t *testing.T) {
	svc := &stubService{}
	rec := do(newRouter(t, svc), http.MethodGet, "/api/leads?status=qualified", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "qualified", svc.listStatus)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Contains(t, body[0], "company_name")
	assert.Contains(t, body[0], "createdAt")
	assert.Contains(t, body[0], "website")
	assert.Nil(t, body[0]["website"])
}

func TestListUnknownStatusIsNotAClientError(t *testing.T) {
	svc := &stubService{}
	rec := do(newRouter(t, svc), http.MethodGet, "/api/leads?status=won", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "won", svc.listStatus)
}

func TestListStoreErrorIs500(t *testing.T) {
	svc := &stubService{listErr: errors.New("pool exhausted")}
	rec := do(newRouter(t, svc), http.MethodGet, "/api/leads", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body httpkit.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server Error", body.Error)
}

func TestCreateReturns201(t *testing.T) {
	svc := &stubService{}
	rec := do(newRouter(t, svc), http.MethodPost, "/api/leads", `{"company_name":"Acme","website":"acme.com"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "acme.com", svc.created.Website)
}

func TestCreateValidation(t *testing.T) {
	for _, body := range []string{
		`{"website":"acme.com"}`,
		`{"company_name":"   "}`,
		`{"company_name":"Acme","status":"converted"}`,
		`not json`,
	} {
		rec := do(newRouter(t, &stubService{}), http.MethodPost, "/api/leads", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		var resp httpkit.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := &stubService{getErr: apperr.NotFound("Lead not found")}
	rec := do(newRouter(t, svc), http.MethodGet, "/api/leads/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	svc := &stubService{}
	rec := do(newRouter(t, svc), http.MethodPut, "/api/leads/"+uuid.NewString(), `{"status":"contacted"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.updated.Status)
	assert.Equal(t, "contacted", *svc.updated.Status)
	assert.False(t, svc.updated.Website.Set)
}

func TestUpdateExplicitNullWebsite(t *testing.T) {
	svc := &stubService{}
	rec := do(newRouter(t, svc), http.MethodPut, "/api/leads/"+uuid.NewString(), `{"website":null}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.updated.Website.Set)
	assert.Nil(t, svc.updated.Website.Value)
}

func TestUpdateUnparsableIDIs404(t *testing.T) {
	rec := do(newRouter(t, &stubService{}), http.MethodPut, "/api/leads/not-a-uuid", `{"status":"contacted"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperr.NotFound("Lead not found"), http.StatusNotFound},
		{apperr.Conflict("Website already belongs to another lead"), http.StatusConflict},
		{apperr.Validation("company_name is required"), http.StatusBadRequest},
		{errors.New("deadlock detected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		svc := &stubService{updateErr: tc.err}
		rec := do(newRouter(t, svc), http.MethodPut, "/api/leads/"+uuid.NewString(), `{"summary":"x"}`)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}

func TestUpdateRejectsBadStatus(t *testing.T) {
	rec := do(newRouter(t, &stubService{}), http.MethodPut, "/api/leads/"+uuid.NewString(), `{"status":"won"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
