package nutrition

import (
	"math/rand"
)

// QueryLen is the number of elements in a nutrition query vector.
const QueryLen = 9

// NutritionQuery is the vector sent to the recommendation service:
// calories followed by eight macro/micronutrient targets.
type NutritionQuery [QueryLen]float64

// Calories returns element 0, the exact calorie allocation for the meal.
func (q NutritionQuery) Calories() float64 { return q[0] }

// QueryAxes names each element of a NutritionQuery, in order.
var QueryAxes = [QueryLen]string{
	"Calories",
	"FatContent",
	"SaturatedFatContent",
	"CholesterolContent",
	"SodiumContent",
	"CarbohydrateContent",
	"FiberContent",
	"SugarContent",
	"ProteinContent",
}

// Range bounds one sampled axis of a query vector.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range, inclusive of both ends.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// QueryRanges holds the sampling range for elements 1 through 8.
var QueryRanges = [QueryLen - 1]Range{
	{Min: 10, Max: 30},  // fat
	{Min: 0, Max: 4},    // saturated fat
	{Min: 0, Max: 30},   // cholesterol
	{Min: 0, Max: 400},  // sodium
	{Min: 40, Max: 75},  // carbohydrate
	{Min: 4, Max: 10},   // fiber
	{Min: 0, Max: 10},   // sugar
	{Min: 30, Max: 100}, // protein
}

// RandomSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewSeededSource returns a deterministic source for reproducible vectors.
func NewSeededSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // placeholder values, not security sensitive
}

// BuildNutritionQuery returns a query whose first element is caloriesForMeal
// and whose remaining elements are drawn from QueryRanges using rng.
// The drawn values are placeholders for a real nutrition inference step.
func BuildNutritionQuery(caloriesForMeal float64, rng RandomSource) NutritionQuery {
	var q NutritionQuery
	q[0] = caloriesForMeal
	for i, r := range QueryRanges {
		q[i+1] = rng.Float64()*(r.Max-r.Min) + r.Min
	}
	return q
}
