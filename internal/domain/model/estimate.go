package model

// BMICategory is the coarse health band derived from a BMI value.
type BMICategory string

// BMI categories in ascending order.
const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObesity     BMICategory = "Obesity"
)

// BMIResult is a rounded BMI value with its category and display color.
type BMIResult struct {
	Value    float64     `json:"value"`
	Category BMICategory `json:"category"`
	Color    string      `json:"color"`
}

// CalorieBudget captures the daily calorie figures for a profile and goal.
type CalorieBudget struct {
	BMR                 float64 `json:"bmr"`
	MaintenanceCalories float64 `json:"maintenance_calories"`
	TargetCalories      float64 `json:"target_calories"`
	WeeklyLoss          string  `json:"weekly_loss"`
}

// MealAllocation is the share of the daily target assigned to one meal slot.
type MealAllocation struct {
	MealName string  `json:"meal"`
	Fraction float64 `json:"fraction"`
	Calories float64 `json:"calories"`
}

// Estimate bundles everything derived from one set of inputs.
// It is recomputed on every request and never persisted.
type Estimate struct {
	Profile     BiometricProfile `json:"profile"`
	Goal        WeightGoal       `json:"goal"`
	Schedule    MealSchedule     `json:"schedule"`
	BMI         BMIResult        `json:"bmi"`
	Budget      CalorieBudget    `json:"budget"`
	Allocations []MealAllocation `json:"allocations"`
}

// Recommendation is a meal suggested by the external recommendation service.
type Recommendation struct {
	Meal         string   `json:"meal"` // slot name, e.g. "breakfast"
	Name         string   `json:"name"`
	ImageLink    string   `json:"image_link"`
	Calories     float64  `json:"calories"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// MealPlan is an estimate together with one recommendation per meal slot.
// Recommendations is either complete or empty.
type MealPlan struct {
	ID              string           `json:"id"`
	Estimate        Estimate         `json:"estimate"`
	Recommendations []Recommendation `json:"recommendations"`
}
