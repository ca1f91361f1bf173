package handler

import (
	"net/http"

	"github.com/freeeve/salvo/internal/auth"
	"github.com/freeeve/salvo/internal/logger"
	"github.com/freeeve/salvo/internal/model"
	"github.com/freeeve/salvo/internal/service"
)

// EstimateHandler serves damage estimates and fire plans.
type EstimateHandler struct {
	svc *service.EstimateService
}

// NewEstimateHandler creates an EstimateHandler.
func NewEstimateHandler(svc *service.EstimateService) *EstimateHandler {
	return &EstimateHandler{svc: svc}
}

// Estimate handles POST /api/v1/estimates
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req model.EstimateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Estimate(r.Context(), req)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	l := logger.ForRequest(r.Context())
	l.Debug().
		Str("clientId", auth.ClientIDFromContext(r.Context())).
		Str("shooter", req.Shooter.ID).
		Str("target", req.Target.ID).
		Float64("total", res.Total).
		Bool("cached", res.Cached).
		Msg("Estimate served")
	writeJSON(w, http.StatusOK, res)
}

// Plan handles POST /api/v1/plans
func (h *EstimateHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req model.PlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Plan(r.Context(), req)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
