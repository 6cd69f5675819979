// Package nutrition computes BMI, calorie budgets and per-meal allocations
// from body metrics. Every function here is pure except BuildNutritionQuery,
// which draws from an injected random source.
package nutrition

import (
	"math"

	"github.com/okian/nutriplan/internal/domain/model"
)

// BMI category thresholds (kg/m²). Intervals are half-open on the right.
const (
	underweightBelow = 18.5
	normalBelow      = 25.0
	overweightBelow  = 30.0

	centimetresPerMetre = 100
	bmiPrecision        = 100 // two decimal places
)

// categoryColors mirrors the dashboard's display colors.
var categoryColors = map[model.BMICategory]string{
	model.BMIUnderweight: "red",
	model.BMINormal:      "green",
	model.BMIOverweight:  "yellow",
	model.BMIObesity:     "red",
}

// ComputeBMI returns weight/height² rounded to two decimals and its category.
// The category is derived from the rounded value. heightCm must be positive;
// callers validate the profile before calling.
func ComputeBMI(weightKg, heightCm float64) model.BMIResult {
	metres := heightCm / centimetresPerMetre
	value := math.Round(weightKg/(metres*metres)*bmiPrecision) / bmiPrecision
	category := Classify(value)
	return model.BMIResult{
		Value:    value,
		Category: category,
		Color:    categoryColors[category],
	}
}

// Classify maps a BMI value to its category.
func Classify(bmi float64) model.BMICategory {
	switch {
	case bmi < underweightBelow:
		return model.BMIUnderweight
	case bmi < normalBelow:
		return model.BMINormal
	case bmi < overweightBelow:
		return model.BMIOverweight
	default:
		return model.BMIObesity
	}
}
