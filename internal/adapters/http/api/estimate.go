package api

import (
	"net/http"
)

// EstimateHandler handles estimate requests.
type EstimateHandler struct {
	deps Dependencies
}

// NewEstimateHandler creates a new estimate handler.
func NewEstimateHandler(deps Dependencies) *EstimateHandler {
	return &EstimateHandler{deps: deps}
}

// HandleEstimate handles POST /v1/estimate requests.
func (h *EstimateHandler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "api.estimate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := decodePlanRequest(w, r, op)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	profile, goal, schedule, err := req.inputs()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	est, err := h.deps.Estimate(r.Context(), profile, goal, schedule)
	if err != nil {
		status, code := classify(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}
