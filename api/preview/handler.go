// Package preview exposes the capacity, flow, exceeded and modal split
// previews over HTTP.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/preview"
	"github.com/kilianp07/conflow/infra/logger"
	"github.com/kilianp07/conflow/pkg/export"
	"github.com/kilianp07/conflow/pkg/report"
)

// Service computes previews. A nil hypothesis uses the stored distribution.
type Service interface {
	Capacity(ctx context.Context, hypothesis distribution.ModeOfTransport) (preview.CapacityReport, error)
	Flow(ctx context.Context, hypothesis distribution.ModeOfTransport) (preview.FlowMatrix, error)
	Exceeded(ctx context.Context, hypothesis distribution.ModeOfTransport) (map[model.VehicleType]preview.Comparison, error)
	ModalSplit(ctx context.Context, hypothesis distribution.ModeOfTransport) (preview.ModalSplitReport, error)
}

// ErrorResponse is the body of every non 2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Handler serves the preview API.
type Handler struct {
	svc    Service
	logger logger.Logger
}

func NewHandler(svc Service, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{svc: svc, logger: log}
}

// Routes returns the router with all preview routes mounted under /api/preview.
// The format query parameter selects json (default), text or csv output.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDHeader)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/preview", func(r chi.Router) {
		r.Get("/capacity", h.handleCapacity)
		r.Get("/flow", h.handleFlow)
		r.Post("/flow", h.handleFlow)
		r.Get("/exceeded", h.handleExceeded)
		r.Post("/exceeded", h.handleExceeded)
		r.Get("/modal-split", h.handleModalSplit)
	})
	return r
}

func requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleCapacity(w http.ResponseWriter, r *http.Request) {
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Capacity(r.Context(), nil)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	switch format {
	case export.FormatText:
		h.writeText(w, report.Capacity(res.Inbound, res.Outbound))
	case export.FormatCSV:
		h.writeCSV(w, func(w http.ResponseWriter) error { return export.WriteCapacityCSV(w, res.Inbound, res.Outbound) })
	default:
		h.writeJSON(w, http.StatusOK, res)
	}
}

func (h *Handler) handleFlow(w http.ResponseWriter, r *http.Request) {
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	hyp, ok := h.hypothesis(w, r)
	if !ok {
		return
	}
	flow, err := h.svc.Flow(r.Context(), hyp)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	switch format {
	case export.FormatText:
		h.writeText(w, report.Flow(flow))
	case export.FormatCSV:
		h.writeCSV(w, func(w http.ResponseWriter) error { return export.WriteFlowCSV(w, flow) })
	default:
		h.writeJSON(w, http.StatusOK, flow)
	}
}

func (h *Handler) handleExceeded(w http.ResponseWriter, r *http.Request) {
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	hyp, ok := h.hypothesis(w, r)
	if !ok {
		return
	}
	cmp, err := h.svc.Exceeded(r.Context(), hyp)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	switch format {
	case export.FormatText:
		h.writeText(w, report.Exceeded(cmp))
	case export.FormatCSV:
		h.writeCSV(w, func(w http.ResponseWriter) error { return export.WriteComparisonCSV(w, cmp) })
	default:
		h.writeJSON(w, http.StatusOK, cmp)
	}
}

func (h *Handler) handleModalSplit(w http.ResponseWriter, r *http.Request) {
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	res, err := h.svc.ModalSplit(r.Context(), nil)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	switch format {
	case export.FormatText:
		h.writeText(w, report.ModalSplit(res.Transshipment, res.Inbound, res.Outbound, res.Both))
	case export.FormatCSV:
		h.writeError(w, http.StatusBadRequest, "the modal split has no csv representation", "bad_request")
	default:
		h.writeJSON(w, http.StatusOK, res)
	}
}

// hypothesis decodes the distribution sent with a POST request. GET requests
// use the stored distribution.
func (h *Handler) hypothesis(w http.ResponseWriter, r *http.Request) (distribution.ModeOfTransport, bool) {
	if r.Method != http.MethodPost {
		return nil, true
	}
	var d distribution.ModeOfTransport
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		if errors.Is(err, model.ErrUnknownVehicleType) {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "invalid_distribution")
			return nil, false
		}
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error(), "bad_request")
		return nil, false
	}
	if d == nil {
		h.writeError(w, http.StatusBadRequest, "a mode of transport distribution is required", "bad_request")
		return nil, false
	}
	return d, true
}

func (h *Handler) format(w http.ResponseWriter, r *http.Request) (export.Format, bool) {
	q := r.URL.Query().Get("format")
	if q == "" {
		return export.FormatJSON, true
	}
	f, err := export.ParseFormat(q)
	if err != nil || f == export.FormatYAML {
		h.writeError(w, http.StatusBadRequest, "format must be json, text or csv", "bad_request")
		return "", false
	}
	return f, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if preview.IsValidationError(err) {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "validation_failed")
		return
	}
	h.logger.Errorf("preview failed: %v", err)
	h.writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Errorf("encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func (h *Handler) writeText(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(s)); err != nil {
		h.logger.Errorf("write response: %v", err)
	}
}

func (h *Handler) writeCSV(w http.ResponseWriter, write func(http.ResponseWriter) error) {
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	if err := write(w); err != nil {
		h.logger.Errorf("write csv: %v", err)
	}
}
