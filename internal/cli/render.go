package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/nutriplan/internal/domain/model"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEstimate(w io.Writer, est model.Estimate) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "BMI\t%.2f\t%s (%s)\n", est.BMI.Value, est.BMI.Category, est.BMI.Color)
	fmt.Fprintf(tw, "BMR\t%.0f\tkcal/day\n", est.Budget.BMR)
	fmt.Fprintf(tw, "Maintenance\t%.0f\tkcal/day\n", est.Budget.MaintenanceCalories)
	fmt.Fprintf(tw, "Target\t%.0f\tkcal/day (%s)\n", est.Budget.TargetCalories, est.Budget.WeeklyLoss)
	fmt.Fprintln(tw)
	for _, a := range est.Allocations {
		fmt.Fprintf(tw, "%s\t%.0f\tkcal (%.0f%%)\n", a.MealName, a.Calories, a.Fraction*100)
	}
	return tw.Flush()
}

func printRecommendations(w io.Writer, recs []model.Recommendation) error {
	for i, r := range recs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s (%.0f kcal)\n", r.Meal, r.Name, r.Calories)
		if r.ImageLink != "" {
			fmt.Fprintf(w, "  image: %s\n", r.ImageLink)
		}
		if len(r.Ingredients) > 0 {
			fmt.Fprintf(w, "  ingredients: %s\n", strings.Join(r.Ingredients, ", "))
		}
		for _, line := range strings.Split(strings.TrimSpace(r.Instructions), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
	return nil
}

func printPlan(w io.Writer, plan model.MealPlan) error {
	fmt.Fprintf(w, "Plan %s\n\n", plan.ID)
	if err := printEstimate(w, plan.Estimate); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return printRecommendations(w, plan.Recommendations)
}
