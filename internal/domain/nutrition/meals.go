package nutrition

import "github.com/okian/nutriplan/internal/domain/model"

// Meal slot names.
const (
	MealBreakfast      = "breakfast"
	MealMorningSnack   = "morning snack"
	MealLunch          = "lunch"
	MealAfternoonSnack = "afternoon snack"
	MealDinner         = "dinner"
)

// MealSlot is a named share of the daily calorie target.
type MealSlot struct {
	Name     string  `json:"meal"`
	Fraction float64 `json:"fraction"`
}

var (
	threeMeals = []MealSlot{
		{Name: MealBreakfast, Fraction: 0.35},
		{Name: MealLunch, Fraction: 0.40},
		{Name: MealDinner, Fraction: 0.25},
	}
	fourMeals = []MealSlot{
		{Name: MealBreakfast, Fraction: 0.30},
		{Name: MealMorningSnack, Fraction: 0.05},
		{Name: MealLunch, Fraction: 0.40},
		{Name: MealDinner, Fraction: 0.25},
	}
	fiveMeals = []MealSlot{
		{Name: MealBreakfast, Fraction: 0.30},
		{Name: MealMorningSnack, Fraction: 0.05},
		{Name: MealLunch, Fraction: 0.40},
		{Name: MealAfternoonSnack, Fraction: 0.05},
		{Name: MealDinner, Fraction: 0.20},
	}
)

// SupportedMealCounts lists the meals-per-day values with a dedicated table.
// Any other value uses the five-meal table.
var SupportedMealCounts = []int{3, 4, 5}

// MealFractions returns the slot table for mealsPerDay in serving order.
// Values other than 3 and 4 fall back to the five-meal table.
func MealFractions(mealsPerDay int) []MealSlot {
	var table []MealSlot
	switch mealsPerDay {
	case 3:
		table = threeMeals
	case 4:
		table = fourMeals
	default:
		table = fiveMeals
	}
	return append([]MealSlot(nil), table...)
}

// IsFallbackMealCount reports whether mealsPerDay has no table of its own.
func IsFallbackMealCount(mealsPerDay int) bool {
	return mealsPerDay != 3 && mealsPerDay != 4 && mealsPerDay != 5
}

// AllocateMeals splits targetCalories across the slots for mealsPerDay,
// breakfast first and dinner last.
func AllocateMeals(mealsPerDay int, targetCalories float64) []model.MealAllocation {
	slots := MealFractions(mealsPerDay)
	out := make([]model.MealAllocation, len(slots))
	for i, slot := range slots {
		out[i] = model.MealAllocation{
			MealName: slot.Name,
			Fraction: slot.Fraction,
			Calories: targetCalories * slot.Fraction,
		}
	}
	return out
}
