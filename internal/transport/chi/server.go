// Package chi exposes the query pipeline over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/crewstack/memberdex/internal/domain"
	"github.com/crewstack/memberdex/internal/domain/member"
	askuc "github.com/crewstack/memberdex/internal/usecase/ask"
	healthuc "github.com/crewstack/memberdex/internal/usecase/health"
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest        = "bad_request"
	codeInvalidQuery      = "invalid_query"
	codeInvalidCaller     = "invalid_caller"
	codeNotFound          = "not_found"
	codeSearchUnavailable = "search_unavailable"
	codeProviderError     = "provider_error"
	codeInternalError     = "internal_error"
	codeUnauthorized      = "unauthorized"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// MemberReader hydrates a single member profile for the detail route.
type MemberReader interface {
	Get(ctx context.Context, id string) (member.Member, error)
}

// Server holds the HTTP handlers for the query API.
type Server struct {
	ask           *askuc.Service
	health        *healthuc.Service
	members       MemberReader
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(ask *askuc.Service, health *healthuc.Service, members MemberReader, logger *zap.Logger) *Server {
	s := &Server{
		ask:     ask,
		health:  health,
		members: members,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrInvalidCaller, http.StatusBadRequest, codeInvalidCaller),
		sentinelHandler(domain.ErrRetrievalUnavailable, http.StatusServiceUnavailable, codeSearchUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrCompletionProviderError, http.StatusBadGateway, codeProviderError),
	}
	return s
}

// Routes mounts the API on the given router.
func (s *Server) Routes(r chirouter.Router) {
	r.Post("/v1/query", s.Query)
	r.Get("/v1/members/{id}", s.GetMember)
	r.Get("/health", s.HealthCheck)
	r.Get("/ready", s.Ready)
	r.Handle("/metrics", promhttp.Handler())
}

// --- DTOs ---

type queryRequest struct {
	CallerID string `json:"caller_id"`
	Query    string `json:"query"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

type entitiesResponse struct {
	Skills          []string `json:"skills,omitempty"`
	Services        []string `json:"services,omitempty"`
	Location        string   `json:"location,omitempty"`
	TurnoverTier    string   `json:"turnover_tier,omitempty"`
	GraduationYears []int    `json:"graduation_years,omitempty"`
	Degrees         []string `json:"degrees,omitempty"`
	Branches        []string `json:"branches,omitempty"`
}

type resultItem struct {
	MemberID       string   `json:"member_id"`
	Name           string   `json:"name"`
	Phone          string   `json:"phone,omitempty"`
	Organization   string   `json:"organization,omitempty"`
	Designation    string   `json:"designation,omitempty"`
	Location       string   `json:"location,omitempty"`
	Degree         string   `json:"degree,omitempty"`
	Branch         string   `json:"branch,omitempty"`
	GraduationYear int      `json:"graduation_year,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Services       []string `json:"services,omitempty"`
	Score          float64  `json:"score"`
	MatchedFields  []string `json:"matched_fields,omitempty"`
}

type memberResponse struct {
	MemberID       string   `json:"member_id"`
	Name           string   `json:"name"`
	Phone          string   `json:"phone,omitempty"`
	Organization   string   `json:"organization,omitempty"`
	Designation    string   `json:"designation,omitempty"`
	Location       string   `json:"location,omitempty"`
	Degree         string   `json:"degree,omitempty"`
	Branch         string   `json:"branch,omitempty"`
	GraduationYear int      `json:"graduation_year,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Services       []string `json:"services,omitempty"`
}

type paginationResponse struct {
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

type queryResponse struct {
	RequestID       string             `json:"request_id"`
	Intent          string             `json:"intent"`
	SecondaryIntent string             `json:"secondary_intent,omitempty"`
	Entities        entitiesResponse   `json:"entities"`
	Confidence      float64            `json:"confidence"`
	Method          string             `json:"method"`
	DisplayText     string             `json:"display_text"`
	Results         []resultItem       `json:"results"`
	Pagination      paginationResponse `json:"pagination"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Handlers ---

// Query handles POST /v1/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	answer, err := s.ask.Ask(r.Context(), askuc.Request{
		CallerID: req.CallerID,
		Query:    req.Query,
		Offset:   (req.Page - 1) * req.PageSize,
		Limit:    req.PageSize,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToResponse(answer))
}

// GetMember handles GET /v1/members/{id}.
func (s *Server) GetMember(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "member id is required")
		return
	}

	m, err := s.members.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, safeDomainMessage(err))
			return
		}
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, memberToResponse(m))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

// Ready handles GET /ready: database reachability only, embedding and
// completion providers degrade at request time instead of gating traffic.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	if report.Checks["database"] != healthuc.CheckOK {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// --- Mapping ---

func answerToResponse(a askuc.Answer) queryResponse {
	es := a.Query.Entities
	resp := queryResponse{
		RequestID:       a.RequestID,
		Intent:          a.Query.Intent.String(),
		SecondaryIntent: a.Query.SecondaryIntent.String(),
		Confidence:      a.Query.Confidence,
		Method:          string(a.Query.Method),
		DisplayText:     a.DisplayText,
		Entities: entitiesResponse{
			Skills:          es.Skills,
			Services:        es.Services,
			Location:        es.Location,
			TurnoverTier:    string(es.TurnoverTier),
			GraduationYears: es.GraduationYears,
			Degrees:         es.Degrees,
			Branches:        es.Branches,
		},
		Pagination: paginationResponse{
			Page:         a.Page.PageNumber,
			TotalPages:   a.Page.TotalPages,
			TotalResults: a.Page.TotalResults,
		},
	}

	scores := make(map[string]float64, len(a.Page.Results))
	fields := make(map[string][]string, len(a.Page.Results))
	for _, r := range a.Page.Results {
		scores[r.MemberID()] = r.FinalScore()
		fields[r.MemberID()] = r.MatchedFields()
	}

	resp.Results = make([]resultItem, 0, len(a.Members))
	for _, m := range a.Members {
		resp.Results = append(resp.Results, memberToItem(m, scores[m.ID], fields[m.ID]))
	}
	return resp
}

func memberToResponse(m member.Member) memberResponse {
	return memberResponse{
		MemberID:       m.ID,
		Name:           m.Name,
		Phone:          m.Phone,
		Organization:   m.Organization,
		Designation:    m.Designation,
		Location:       m.Location,
		Degree:         m.Degree,
		Branch:         m.Branch,
		GraduationYear: m.GraduationYear,
		Skills:         m.Skills,
		Services:       m.Services,
	}
}

func memberToItem(m member.Member, score float64, matched []string) resultItem {
	return resultItem{
		MemberID:       m.ID,
		Name:           m.Name,
		Phone:          m.Phone,
		Organization:   m.Organization,
		Designation:    m.Designation,
		Location:       m.Location,
		Degree:         m.Degree,
		Branch:         m.Branch,
		GraduationYear: m.GraduationYear,
		Skills:         m.Skills,
		Services:       m.Services,
		Score:          score,
		MatchedFields:  matched,
	}
}

// --- Errors ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns the sentinel text for known errors; everything
// else stays opaque to the caller.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidCaller,
		domain.ErrMemberNotFound,
		domain.ErrRetrievalUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrCompletionProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
