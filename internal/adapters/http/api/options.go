package api

import (
	"net/http"
	"strconv"

	"github.com/okian/nutriplan/internal/domain/model"
	"github.com/okian/nutriplan/internal/domain/nutrition"
)

// OptionsHandler serves the enumerated input labels and lookup tables.
type OptionsHandler struct {
	body optionsResponse
}

type queryAxis struct {
	Name string   `json:"name"`
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
}

type optionsResponse struct {
	Genders        []model.Gender                  `json:"genders"`
	ActivityLevels []nutrition.ActivityFactor      `json:"activity_levels"`
	Plans          []nutrition.PlanFactor          `json:"plans"`
	MealTables     map[string][]nutrition.MealSlot `json:"meal_tables"`
	QueryAxes      []queryAxis                     `json:"query_axes"`
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler() *OptionsHandler {
	body := optionsResponse{
		Genders:        nutrition.Genders(),
		ActivityLevels: nutrition.ActivityFactors(),
		Plans:          nutrition.PlanFactors(),
		MealTables:     make(map[string][]nutrition.MealSlot, len(nutrition.SupportedMealCounts)),
	}
	for _, n := range nutrition.SupportedMealCounts {
		body.MealTables[strconv.Itoa(n)] = nutrition.MealFractions(n)
	}
	for i, name := range nutrition.QueryAxes {
		axis := queryAxis{Name: name}
		if i > 0 {
			r := nutrition.QueryRanges[i-1]
			axis.Min, axis.Max = &r.Min, &r.Max
		}
		body.QueryAxes = append(body.QueryAxes, axis)
	}
	return &OptionsHandler{body: body}
}

// HandleOptions handles GET /v1/options requests.
func (h *OptionsHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.body)
}
