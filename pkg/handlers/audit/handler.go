package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/lan-tools/net-atlas/pkg/adapters"
	"github.com/lan-tools/net-atlas/pkg/models/api"
	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/audit"
)

// Service is the engine surface the handler consumes.
type Service interface {
	RunAudit(ctx context.Context, siteID string, opts domain.AuditOptions) (domain.AuditResult, error)
	GetAuditSummary(ctx context.Context, siteID string) (domain.AuditSummary, error)
	GetLatestAuditResult(ctx context.Context, siteID string) (domain.AuditResult, error)
	GetAuditResult(ctx context.Context, siteID, auditID string) (domain.AuditResult, error)
	GetActiveIssues(ctx context.Context, siteID string) ([]domain.AuditIssue, error)
	GetDismissedIssues(ctx context.Context, siteID string) ([]domain.AuditIssue, error)
	DismissIssue(ctx context.Context, siteID string, issue domain.AuditIssue) error
	RestoreIssue(ctx context.Context, siteID string, issue domain.AuditIssue) error
	ClearDismissed(ctx context.Context, siteID string) error
}

type Handler struct {
	engine Service
}

func NewHandler(engine Service) *Handler {
	return &Handler{engine: engine}
}

// RunAudit starts a synchronous run. Category toggles arrive as query
// parameters, e.g. ?firewall=false disables the firewall category.
func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	site := chi.URLParam(r, "site")

	opts := optionsFromQuery(r)
	result, err := h.engine.RunAudit(ctx, site, opts)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapAuditResultDomainToApi(result))
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	site := chi.URLParam(r, "site")

	summary, err := h.engine.GetAuditSummary(ctx, site)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapAuditSummaryDomainToApi(summary))
}

func (h *Handler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	site := chi.URLParam(r, "site")

	result, err := h.engine.GetLatestAuditResult(ctx, site)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapAuditResultDomainToApi(result))
}

func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	site := chi.URLParam(r, "site")
	auditID := chi.URLParam(r, "id")

	result, err := h.engine.GetAuditResult(ctx, site, auditID)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapAuditResultDomainToApi(result))
}

func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	site := chi.URLParam(r, "site")

	issues, err := h.engine.GetActiveIssues(ctx, site)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mapIssues(issues))
}

func (h *Handler) ListDismissed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	site := chi.URLParam(r, "site")

	issues, err := h.engine.GetDismissedIssues(ctx, site)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mapIssues(issues))
}

func (h *Handler) DismissIssue(w http.ResponseWriter, r *http.Request) {
	h.mutateDismissal(w, r, h.engine.DismissIssue)
}

func (h *Handler) RestoreIssue(w http.ResponseWriter, r *http.Request) {
	h.mutateDismissal(w, r, h.engine.RestoreIssue)
}

func (h *Handler) ClearDismissed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	site := chi.URLParam(r, "site")

	if err := h.engine.ClearDismissed(ctx, site); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) mutateDismissal(
	w http.ResponseWriter,
	r *http.Request,
	mutate func(ctx context.Context, siteID string, issue domain.AuditIssue) error,
) {
	ctx := r.Context()
	site := chi.URLParam(r, "site")

	var req api.DismissRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if req.Type == "" {
		writeError(w, r, http.StatusBadRequest, errors.New("issue type is required"))
		return
	}

	if err := mutate(ctx, site, adapters.MapDismissRequestApiToDomain(req)); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func optionsFromQuery(r *http.Request) domain.AuditOptions {
	opts := domain.DefaultAuditOptions()
	q := r.URL.Query()
	applyQueryBool(q.Get("firewall"), &opts.IncludeFirewall)
	applyQueryBool(q.Get("vlan"), &opts.IncludeVlan)
	applyQueryBool(q.Get("ports"), &opts.IncludePorts)
	applyQueryBool(q.Get("dns"), &opts.IncludeDNS)
	return opts
}

func applyQueryBool(raw string, dst *bool) {
	if raw == "" {
		return
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		*dst = v
	}
}

func mapIssues(issues []domain.AuditIssue) []api.AuditIssue {
	out := make([]api.AuditIssue, 0, len(issues))
	for _, i := range issues {
		out = append(out, adapters.MapAuditIssueDomainToApi(i))
	}
	return out
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, audit.ErrNoAudit) {
		writeError(w, r, http.StatusNotFound, err)
		return
	}
	writeError(w, r, http.StatusInternalServerError, err)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
