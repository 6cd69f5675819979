// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/nutriplan/internal/adapters/recommender"
	service "github.com/okian/nutriplan/internal/app"
	"github.com/okian/nutriplan/internal/domain/model"
	"github.com/okian/nutriplan/internal/domain/nutrition"
)

const (
	// maxBodyBytes caps request bodies.
	maxBodyBytes = 1 << 20
	// defaultMealsPerDay applies when a request omits meals_per_day.
	defaultMealsPerDay = 3
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Estimate(ctx context.Context, p model.BiometricProfile, goal model.WeightGoal,
		schedule model.MealSchedule) (model.Estimate, error)
	Plan(ctx context.Context, p model.BiometricProfile, goal model.WeightGoal,
		schedule model.MealSchedule) (model.MealPlan, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	optionsHandler  *OptionsHandler
	estimateHandler *EstimateHandler
	plansHandler    *PlansHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		optionsHandler:  NewOptionsHandler(),
		estimateHandler: NewEstimateHandler(deps),
		plansHandler:    NewPlansHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/options", MetricsMiddleware(s.optionsHandler.HandleOptions, "options"))
	mux.HandleFunc("/v1/estimate", MetricsMiddleware(s.estimateHandler.HandleEstimate, "estimate"))
	mux.HandleFunc("/v1/plans", MetricsMiddleware(s.plansHandler.HandleCreatePlan, "plans"))
}

// planRequest mirrors the OpenAPI schema shared by POST /v1/estimate and
// POST /v1/plans.
type planRequest struct {
	Age           int     `json:"age"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activity_level"`
	Plan          string  `json:"plan"`
	MealsPerDay   *int    `json:"meals_per_day"`
}

// inputs parses the enumerated labels. Numeric checks happen in the estimator.
func (req planRequest) inputs() (model.BiometricProfile, model.WeightGoal, model.MealSchedule, error) {
	gender, err := nutrition.ParseGender(req.Gender)
	if err != nil {
		return model.BiometricProfile{}, model.WeightGoal{}, model.MealSchedule{}, err
	}
	activity, err := nutrition.ParseActivityLevel(req.ActivityLevel)
	if err != nil {
		return model.BiometricProfile{}, model.WeightGoal{}, model.MealSchedule{}, err
	}
	plan, err := nutrition.ParsePlan(req.Plan)
	if err != nil {
		return model.BiometricProfile{}, model.WeightGoal{}, model.MealSchedule{}, err
	}
	profile := model.BiometricProfile{
		Age:           req.Age,
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		Gender:        gender,
		ActivityLevel: activity,
	}
	schedule := model.MealSchedule{MealsPerDay: defaultMealsPerDay}
	if req.MealsPerDay != nil {
		schedule.MealsPerDay = *req.MealsPerDay
	}
	return profile, model.WeightGoal{Plan: plan}, schedule, nil
}

func decodePlanRequest(w http.ResponseWriter, r *http.Request, op string) (planRequest, error) {
	var req planRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return planRequest{}, WrapKind(op, ErrBadRequest, fmt.Errorf("decode body: %w", err))
	}
	return req, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps domain errors to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, nutrition.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, recommender.ErrRecommendationFetchFailed):
		return http.StatusBadGateway, "recommendation_failed"
	case errors.Is(err, service.ErrRecommenderNotConfigured):
		return http.StatusServiceUnavailable, "recommender_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
