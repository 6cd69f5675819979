package nutrition

import (
	"fmt"
	"strings"

	"github.com/okian/nutriplan/internal/domain/model"
)

// Mifflin-St Jeor coefficients.
const (
	bmrWeightCoef   = 10.0
	bmrHeightCoef   = 6.25
	bmrAgeCoef      = 5.0
	bmrMaleOffset   = 5.0
	bmrFemaleOffset = -161.0
)

// ActivityFactor pairs an activity level with its BMR multiplier.
type ActivityFactor struct {
	Level  model.ActivityLevel `json:"level"`
	Factor float64             `json:"factor"`
}

// PlanFactor pairs a plan with its maintenance multiplier and the weekly
// loss it is expected to produce.
type PlanFactor struct {
	Plan       model.LossPlan `json:"plan"`
	Factor     float64        `json:"factor"`
	WeeklyLoss string         `json:"weekly_loss"`
}

// activityFactors is ordered from least to most active.
var activityFactors = []ActivityFactor{
	{Level: model.ActivitySedentary, Factor: 1.2},
	{Level: model.ActivityLight, Factor: 1.375},
	{Level: model.ActivityModerate, Factor: 1.55},
	{Level: model.ActivityVeryActive, Factor: 1.725},
	{Level: model.ActivityExtraActive, Factor: 1.9},
}

// planFactors is ordered from mildest to most aggressive.
var planFactors = []PlanFactor{
	{Plan: model.PlanMaintain, Factor: 1.0, WeeklyLoss: "-0 kg/week"},
	{Plan: model.PlanMildLoss, Factor: 0.9, WeeklyLoss: "-0.25 kg/week"},
	{Plan: model.PlanLoss, Factor: 0.8, WeeklyLoss: "-0.5 kg/week"},
	{Plan: model.PlanExtremeLoss, Factor: 0.6, WeeklyLoss: "-1 kg/week"},
}

var genders = []model.Gender{model.GenderMale, model.GenderFemale}

// ActivityFactors returns a copy of the activity table in display order.
func ActivityFactors() []ActivityFactor {
	return append([]ActivityFactor(nil), activityFactors...)
}

// PlanFactors returns a copy of the plan table in display order.
func PlanFactors() []PlanFactor {
	return append([]PlanFactor(nil), planFactors...)
}

// Genders returns the accepted gender labels.
func Genders() []model.Gender {
	return append([]model.Gender(nil), genders...)
}

// ComputeBMR estimates basal metabolic rate with the Mifflin-St Jeor formula.
func ComputeBMR(weightKg, heightCm float64, age int, gender model.Gender) (float64, error) {
	base := bmrWeightCoef*weightKg + bmrHeightCoef*heightCm - bmrAgeCoef*float64(age)
	switch gender {
	case model.GenderMale:
		return base + bmrMaleOffset, nil
	case model.GenderFemale:
		return base + bmrFemaleOffset, nil
	default:
		return 0, fmt.Errorf("gender %q: %w", gender, ErrInvalidArgument)
	}
}

// ComputeMaintenanceCalories multiplies BMR by the activity factor.
func ComputeMaintenanceCalories(weightKg, heightCm float64, age int, gender model.Gender, activity model.ActivityLevel) (float64, error) {
	factor, err := activityFactor(activity)
	if err != nil {
		return 0, err
	}
	bmr, err := ComputeBMR(weightKg, heightCm, age, gender)
	if err != nil {
		return 0, err
	}
	return bmr * factor, nil
}

// ComputeTargetCalories applies the plan factor to maintenance calories.
func ComputeTargetCalories(maintenance float64, plan model.LossPlan) (float64, error) {
	pf, err := planFactor(plan)
	if err != nil {
		return 0, err
	}
	return maintenance * pf.Factor, nil
}

// WeeklyLoss returns the expected weekly loss label for plan.
func WeeklyLoss(plan model.LossPlan) (string, error) {
	pf, err := planFactor(plan)
	if err != nil {
		return "", err
	}
	return pf.WeeklyLoss, nil
}

func activityFactor(activity model.ActivityLevel) (float64, error) {
	for _, af := range activityFactors {
		if af.Level == activity {
			return af.Factor, nil
		}
	}
	return 0, fmt.Errorf("activity level %q: %w", activity, ErrInvalidArgument)
}

func planFactor(plan model.LossPlan) (PlanFactor, error) {
	for _, pf := range planFactors {
		if pf.Plan == plan {
			return pf, nil
		}
	}
	return PlanFactor{}, fmt.Errorf("plan %q: %w", plan, ErrInvalidArgument)
}

// ParseGender matches s against the gender labels, ignoring case and
// surrounding whitespace.
func ParseGender(s string) (model.Gender, error) {
	for _, g := range genders {
		if strings.EqualFold(strings.TrimSpace(s), string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("gender %q: %w", s, ErrInvalidArgument)
}

// ParseActivityLevel matches s against the activity labels.
func ParseActivityLevel(s string) (model.ActivityLevel, error) {
	for _, af := range activityFactors {
		if strings.EqualFold(strings.TrimSpace(s), string(af.Level)) {
			return af.Level, nil
		}
	}
	return "", fmt.Errorf("activity level %q: %w", s, ErrInvalidArgument)
}

// ParsePlan matches s against the plan labels.
func ParsePlan(s string) (model.LossPlan, error) {
	for _, pf := range planFactors {
		if strings.EqualFold(strings.TrimSpace(s), string(pf.Plan)) {
			return pf.Plan, nil
		}
	}
	return "", fmt.Errorf("plan %q: %w", s, ErrInvalidArgument)
}
