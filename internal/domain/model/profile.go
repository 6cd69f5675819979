// Package model contains domain models passed between layers.
package model

// Gender selects the Mifflin-St Jeor constant.
type Gender string

// Supported genders.
const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// ActivityLevel is one of the five labelled activity bands.
type ActivityLevel string

// Supported activity levels, least to most active.
const (
	ActivitySedentary   ActivityLevel = "Little/no exercise"
	ActivityLight       ActivityLevel = "Light exercise"
	ActivityModerate    ActivityLevel = "Moderate exercise (3-5 days/wk)"
	ActivityVeryActive  ActivityLevel = "Very active (6-7 days/wk)"
	ActivityExtraActive ActivityLevel = "Extra active (very active & physical job)"
)

// LossPlan is a weight-change goal.
type LossPlan string

// Supported plans, mildest first.
const (
	PlanMaintain    LossPlan = "Maintain weight"
	PlanMildLoss    LossPlan = "Mild weight loss"
	PlanLoss        LossPlan = "Weight loss"
	PlanExtremeLoss LossPlan = "Extreme weight loss"
)

// BiometricProfile holds the body metrics and lifestyle selection of a user.
type BiometricProfile struct {
	Age           int           `json:"age"`       // years
	HeightCm      float64       `json:"height_cm"` // centimetres
	WeightKg      float64       `json:"weight_kg"` // kilograms
	Gender        Gender        `json:"gender"`
	ActivityLevel ActivityLevel `json:"activity_level"`
}

// WeightGoal wraps the selected plan.
type WeightGoal struct {
	Plan LossPlan `json:"plan"`
}

// MealSchedule describes how many meals the daily target is split into.
type MealSchedule struct {
	MealsPerDay int `json:"meals_per_day"`
}
