package nutrition

import (
	"fmt"
	"math"

	"github.com/okian/nutriplan/internal/domain/model"
)

// ValidateProfile rejects non-positive metrics and labels outside the
// enumerated sets.
func ValidateProfile(p model.BiometricProfile) error {
	switch {
	case p.Age <= 0:
		return fmt.Errorf("age must be positive, got %d: %w", p.Age, ErrInvalidArgument)
	case p.HeightCm <= 0:
		return fmt.Errorf("height must be positive, got %g: %w", p.HeightCm, ErrInvalidArgument)
	case p.WeightKg <= 0:
		return fmt.Errorf("weight must be positive, got %g: %w", p.WeightKg, ErrInvalidArgument)
	}
	if p.Gender != model.GenderMale && p.Gender != model.GenderFemale {
		return fmt.Errorf("gender %q: %w", p.Gender, ErrInvalidArgument)
	}
	if _, err := activityFactor(p.ActivityLevel); err != nil {
		return err
	}
	return nil
}

// Estimate derives BMI, the calorie budget and the meal allocation for one
// set of inputs.
func Estimate(p model.BiometricProfile, goal model.WeightGoal, schedule model.MealSchedule) (model.Estimate, error) {
	if err := ValidateProfile(p); err != nil {
		return model.Estimate{}, err
	}
	bmr, err := ComputeBMR(p.WeightKg, p.HeightCm, p.Age, p.Gender)
	if err != nil {
		return model.Estimate{}, err
	}
	maintenance, err := ComputeMaintenanceCalories(p.WeightKg, p.HeightCm, p.Age, p.Gender, p.ActivityLevel)
	if err != nil {
		return model.Estimate{}, err
	}
	pf, err := planFactor(goal.Plan)
	if err != nil {
		return model.Estimate{}, err
	}
	target := maintenance * pf.Factor
	bmi := ComputeBMI(p.WeightKg, p.HeightCm)

	// Extreme but positive metrics overflow; such figures cannot be served.
	for name, v := range map[string]float64{"bmi": bmi.Value, "bmr": bmr, "target calories": target} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return model.Estimate{}, fmt.Errorf("%s is not finite for the given metrics: %w", name, ErrInvalidArgument)
		}
	}

	return model.Estimate{
		Profile:  p,
		Goal:     goal,
		Schedule: schedule,
		BMI:      bmi,
		Budget: model.CalorieBudget{
			BMR:                 bmr,
			MaintenanceCalories: maintenance,
			TargetCalories:      target,
			WeeklyLoss:          pf.WeeklyLoss,
		},
		Allocations: AllocateMeals(schedule.MealsPerDay, target),
	}, nil
}
