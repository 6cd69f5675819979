// Package cli implements the nutriplan command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/nutriplan/internal/domain/model"
	"github.com/okian/nutriplan/internal/domain/nutrition"
	"github.com/okian/nutriplan/pkg/logger"
)

// EnvURL overrides the default planner base URL.
const EnvURL = "NUTRIPLAN_API_URL"

const (
	defaultURL     = "http://localhost:9080"
	defaultTimeout = 90 * time.Second
)

type rootOptions struct {
	url     string
	timeout time.Duration
	json    bool
	verbose bool
}

// inputFlags mirrors the planner form. Defaults match the form defaults.
type inputFlags struct {
	age      int
	height   float64
	weight   float64
	gender   string
	activity string
	plan     string
	meals    int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.age, "age", 25, "age in years")
	fs.Float64Var(&f.height, "height", 170, "height in cm")
	fs.Float64Var(&f.weight, "weight", 70, "weight in kg")
	fs.StringVar(&f.gender, "gender", string(model.GenderMale), "Male or Female")
	fs.StringVar(&f.activity, "activity", string(model.ActivityLight), "activity level label")
	fs.StringVar(&f.plan, "plan", string(model.PlanMaintain), "weight loss plan label")
	fs.IntVar(&f.meals, "meals", 3, "meals per day (3-5)")
}

func (f *inputFlags) inputs() (model.BiometricProfile, model.WeightGoal, model.MealSchedule, error) {
	gender, err := nutrition.ParseGender(f.gender)
	if err != nil {
		return model.BiometricProfile{}, model.WeightGoal{}, model.MealSchedule{}, err
	}
	activity, err := nutrition.ParseActivityLevel(f.activity)
	if err != nil {
		return model.BiometricProfile{}, model.WeightGoal{}, model.MealSchedule{}, err
	}
	plan, err := nutrition.ParsePlan(f.plan)
	if err != nil {
		return model.BiometricProfile{}, model.WeightGoal{}, model.MealSchedule{}, err
	}
	profile := model.BiometricProfile{
		Age:           f.age,
		HeightCm:      f.height,
		WeightKg:      f.weight,
		Gender:        gender,
		ActivityLevel: activity,
	}
	return profile, model.WeightGoal{Plan: plan}, model.MealSchedule{MealsPerDay: f.meals}, nil
}

// planRequest is the JSON body of POST /v1/plans.
type planRequest struct {
	Age           int     `json:"age"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activity_level"`
	Plan          string  `json:"plan"`
	MealsPerDay   int     `json:"meals_per_day"`
}

func (f *inputFlags) request() planRequest {
	return planRequest{
		Age:           f.age,
		HeightCm:      f.height,
		WeightKg:      f.weight,
		Gender:        f.gender,
		ActivityLevel: f.activity,
		Plan:          f.plan,
		MealsPerDay:   f.meals,
	}
}

// NewRootCommand builds the nutriplan command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "nutriplan",
		Short: "Estimate daily calories and fetch meal recommendations",
		Long: `nutriplan computes BMI, BMR and calorie targets for a profile and asks a
running planner for one meal recommendation per meal slot.

Available commands:
  estimate - compute the estimate locally
  plan     - request a full meal plan from the planner
  options  - list the accepted labels and lookup tables`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWithFormat(cmd.ErrOrStderr(), "text"); err != nil {
				return err
			}
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			return logger.SetLevelString(level)
		},
	}

	url := defaultURL
	if v := os.Getenv(EnvURL); v != "" {
		url = v
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.url, "url", url, "planner base URL (env "+EnvURL+")")
	pf.DurationVar(&opts.timeout, "timeout", defaultTimeout, "HTTP request timeout")
	pf.BoolVar(&opts.json, "json", false, "print JSON instead of text")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newEstimateCommand(opts), newPlanCommand(opts), newOptionsCommand(opts))
	return root
}

func newEstimateCommand(opts *rootOptions) *cobra.Command {
	in := &inputFlags{}
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Compute BMI, calories and meal allocation without calling the planner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, goal, schedule, err := in.inputs()
			if err != nil {
				return err
			}
			est, err := nutrition.Estimate(profile, goal, schedule)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), est)
			}
			return printEstimate(cmd.OutOrStdout(), est)
		},
	}
	in.register(cmd)
	return cmd
}

func newPlanCommand(opts *rootOptions) *cobra.Command {
	in := &inputFlags{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Request a meal plan with one recommendation per meal slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, opts, in)
		},
	}
	in.register(cmd)
	return cmd
}

func runPlan(cmd *cobra.Command, opts *rootOptions, in *inputFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	var plan model.MealPlan
	err := newHTTPClient(opts.url, opts.timeout).Post(ctx, "/v1/plans", in.request(), &plan)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Estimate != nil {
		// Recommendations failed; the estimate is still worth showing.
		if opts.json {
			_ = printJSON(out, apiErr.Estimate)
		} else {
			_ = printEstimate(out, *apiErr.Estimate)
		}
	}
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}

	if opts.json {
		return printJSON(out, plan)
	}
	return printPlan(out, plan)
}

func newOptionsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the labels and lookup tables the planner accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			var body map[string]any
			if err := newHTTPClient(opts.url, opts.timeout).Get(ctx, "/v1/options", &body); err != nil {
				return fmt.Errorf("options: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
}
