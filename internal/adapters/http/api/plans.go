package api

import (
	"net/http"

	"github.com/okian/nutriplan/internal/domain/model"
)

// PlansHandler handles meal plan requests.
type PlansHandler struct {
	deps Dependencies
}

// NewPlansHandler creates a new plans handler.
func NewPlansHandler(deps Dependencies) *PlansHandler {
	return &PlansHandler{deps: deps}
}

// planErrorResponse keeps the estimate visible when recommendations fail.
type planErrorResponse struct {
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Estimate *model.Estimate `json:"estimate,omitempty"`
}

// HandleCreatePlan handles POST /v1/plans requests.
func (h *PlansHandler) HandleCreatePlan(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_plan"
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

	plan, err := h.deps.Plan(r.Context(), profile, goal, schedule)
	if err != nil {
		status, code := classify(err)
		resp := planErrorResponse{Code: code, Message: err.Error()}
		if status >= http.StatusInternalServerError && plan.ID != "" {
			resp.Estimate = &plan.Estimate
		}
		if status == http.StatusBadGateway {
			err = WrapKind(op, ErrUpstream, err)
			resp.Message = err.Error()
		}
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
