package nutrition_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/nutriplan/internal/domain/model"
	"github.com/okian/nutriplan/internal/domain/nutrition"
	. "github.com/smartystreets/goconvey/convey"
)

const tolerance = 1e-9

func TestComputeBMI(t *testing.T) {
	Convey("Given a 70kg, 170cm person", t, func() {
		result := nutrition.ComputeBMI(70, 170)

		Convey("Then BMI is rounded to two decimals and classified Normal", func() {
			So(result.Value, ShouldEqual, 24.22)
			So(result.Category, ShouldEqual, model.BMINormal)
			So(result.Color, ShouldEqual, "green")
		})
	})

	Convey("Given increasing weights at a fixed height", t, func() {
		Convey("Then BMI never decreases", func() {
			prev := 0.0
			for w := 30.0; w <= 200; w += 2.5 {
				v := nutrition.ComputeBMI(w, 175).Value
				So(v, ShouldBeGreaterThanOrEqualTo, prev)
				prev = v
			}
		})
	})

	Convey("Given increasing heights at a fixed weight", t, func() {
		Convey("Then BMI never increases", func() {
			prev := math.Inf(1)
			for h := 120.0; h <= 220; h += 2 {
				v := nutrition.ComputeBMI(80, h).Value
				So(v, ShouldBeLessThanOrEqualTo, prev)
				prev = v
			}
		})
	})

	Convey("Given identical inputs", t, func() {
		Convey("Then repeated calls agree", func() {
			So(nutrition.ComputeBMI(82.3, 181), ShouldResemble, nutrition.ComputeBMI(82.3, 181))
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given values on each side of the category boundaries", t, func() {
		cases := []struct {
			bmi  float64
			want model.BMICategory
		}{
			{18.49, model.BMIUnderweight},
			{18.5, model.BMINormal},
			{24.99, model.BMINormal},
			{25.0, model.BMIOverweight},
			{29.99, model.BMIOverweight},
			{30.0, model.BMIObesity},
			{45.1, model.BMIObesity},
		}

		Convey("Then each lands in its half-open interval", func() {
			for _, tc := range cases {
				So(nutrition.Classify(tc.bmi), ShouldEqual, tc.want)
			}
		})
	})

	Convey("Given a BMI that rounds up onto a boundary", t, func() {
		// 24.996 before rounding.
		result := nutrition.ComputeBMI(76.463, 174.9)

		Convey("Then the rounded value drives the category", func() {
			So(result.Value, ShouldEqual, 25.0)
			So(result.Category, ShouldEqual, model.BMIOverweight)
			So(result.Color, ShouldEqual, "yellow")
		})
	})
}

func TestComputeBMR(t *testing.T) {
	Convey("Given a 25 year old, 70kg, 170cm profile", t, func() {
		Convey("When the gender is Male", func() {
			bmr, err := nutrition.ComputeBMR(70, 170, 25, model.GenderMale)

			Convey("Then the male offset is applied", func() {
				So(err, ShouldBeNil)
				So(bmr, ShouldEqual, 1642.5) // 700 + 1062.5 - 125 + 5
			})
		})

		Convey("When the gender is Female", func() {
			bmr, err := nutrition.ComputeBMR(70, 170, 25, model.GenderFemale)

			Convey("Then the female offset is applied", func() {
				So(err, ShouldBeNil)
				So(bmr, ShouldEqual, 1476.5) // 700 + 1062.5 - 125 - 161
			})
		})

		Convey("When the gender is unknown", func() {
			_, err := nutrition.ComputeBMR(70, 170, 25, model.Gender("Other"))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, nutrition.ErrInvalidArgument), ShouldBeTrue)
			})
		})
	})
}

func TestComputeMaintenanceCalories(t *testing.T) {
	Convey("Given a male profile with light exercise", t, func() {
		kcal, err := nutrition.ComputeMaintenanceCalories(70, 170, 25, model.GenderMale, model.ActivityLight)

		Convey("Then BMR is multiplied by 1.375", func() {
			So(err, ShouldBeNil)
			So(kcal, ShouldEqual, 2258.4375)
		})
	})

	Convey("Given every activity level", t, func() {
		bmr, _ := nutrition.ComputeBMR(70, 170, 25, model.GenderMale)

		Convey("Then each uses its factor", func() {
			for _, af := range nutrition.ActivityFactors() {
				kcal, err := nutrition.ComputeMaintenanceCalories(70, 170, 25, model.GenderMale, af.Level)
				So(err, ShouldBeNil)
				So(kcal, ShouldAlmostEqual, bmr*af.Factor, tolerance)
			}
		})
	})

	Convey("Given an unknown activity level", t, func() {
		_, err := nutrition.ComputeMaintenanceCalories(70, 170, 25, model.GenderMale, "Couch")

		Convey("Then it is rejected rather than producing NaN", func() {
			So(errors.Is(err, nutrition.ErrInvalidArgument), ShouldBeTrue)
		})
	})
}

func TestComputeTargetCalories(t *testing.T) {
	Convey("Given 2000 maintenance calories", t, func() {
		cases := map[model.LossPlan]float64{
			model.PlanMaintain:    2000,
			model.PlanMildLoss:    1800,
			model.PlanLoss:        1600,
			model.PlanExtremeLoss: 1200,
		}

		Convey("Then each plan applies its factor", func() {
			for plan, want := range cases {
				got, err := nutrition.ComputeTargetCalories(2000, plan)
				So(err, ShouldBeNil)
				So(got, ShouldAlmostEqual, want, tolerance)
			}
		})

		Convey("And an unknown plan is rejected", func() {
			_, err := nutrition.ComputeTargetCalories(2000, "Bulk")
			So(errors.Is(err, nutrition.ErrInvalidArgument), ShouldBeTrue)
		})
	})

	Convey("Given each plan", t, func() {
		Convey("Then the weekly loss label matches the dashboard", func() {
			loss, err := nutrition.WeeklyLoss(model.PlanLoss)
			So(err, ShouldBeNil)
			So(loss, ShouldEqual, "-0.5 kg/week")

			loss, err = nutrition.WeeklyLoss(model.PlanExtremeLoss)
			So(err, ShouldBeNil)
			So(loss, ShouldEqual, "-1 kg/week")
		})
	})
}

func TestAllocateMeals(t *testing.T) {
	Convey("Given three meals and a 2000 kcal target", t, func() {
		allocs := nutrition.AllocateMeals(3, 2000)

		Convey("Then breakfast, lunch and dinner get 700, 800 and 500", func() {
			So(len(allocs), ShouldEqual, 3)
			So(allocs[0].MealName, ShouldEqual, nutrition.MealBreakfast)
			So(allocs[0].Calories, ShouldAlmostEqual, 700, tolerance)
			So(allocs[1].MealName, ShouldEqual, nutrition.MealLunch)
			So(allocs[1].Calories, ShouldAlmostEqual, 800, tolerance)
			So(allocs[2].MealName, ShouldEqual, nutrition.MealDinner)
			So(allocs[2].Calories, ShouldAlmostEqual, 500, tolerance)
		})
	})

	Convey("Given four meals", t, func() {
		want := []nutrition.MealSlot{
			{Name: nutrition.MealBreakfast, Fraction: 0.30},
			{Name: nutrition.MealMorningSnack, Fraction: 0.05},
			{Name: nutrition.MealLunch, Fraction: 0.40},
			{Name: nutrition.MealDinner, Fraction: 0.25},
		}

		Convey("Then the four-slot table is used in serving order", func() {
			So(cmp.Diff(want, nutrition.MealFractions(4)), ShouldBeEmpty)
		})
	})

	Convey("Given meal counts without a table of their own", t, func() {
		five := nutrition.MealFractions(5)

		Convey("Then they fall back to the five-slot table", func() {
			for _, n := range []int{0, 1, 2, 6, 10, -3} {
				So(cmp.Diff(five, nutrition.MealFractions(n)), ShouldBeEmpty)
				So(nutrition.IsFallbackMealCount(n), ShouldBeTrue)
			}
			So(nutrition.IsFallbackMealCount(5), ShouldBeFalse)
			So(five[len(five)-1].Name, ShouldEqual, nutrition.MealDinner)
		})
	})

	Convey("Given every supported table", t, func() {
		Convey("Then fractions sum to one and allocations partition the target", func() {
			for _, n := range nutrition.SupportedMealCounts {
				sum := 0.0
				for _, slot := range nutrition.MealFractions(n) {
					sum += slot.Fraction
				}
				So(sum, ShouldAlmostEqual, 1.0, tolerance)

				total := 0.0
				for _, a := range nutrition.AllocateMeals(n, 2347.81) {
					total += a.Calories
				}
				So(total, ShouldAlmostEqual, 2347.81, tolerance)
			}
		})
	})

	Convey("Given a caller that mutates a returned table", t, func() {
		slots := nutrition.MealFractions(3)
		slots[0].Fraction = 1

		Convey("Then the package table is unaffected", func() {
			So(nutrition.MealFractions(3)[0].Fraction, ShouldEqual, 0.35)
		})
	})
}

func TestBuildNutritionQuery(t *testing.T) {
	Convey("Given a seeded random source", t, func() {
		rng := nutrition.NewSeededSource(7)

		Convey("Then every vector keeps its shape and ranges", func() {
			for i := 0; i < 500; i++ {
				q := nutrition.BuildNutritionQuery(612.5, rng)
				So(q.Calories(), ShouldEqual, 612.5)
				for axis, r := range nutrition.QueryRanges {
					So(r.Contains(q[axis+1]), ShouldBeTrue)
				}
			}
		})
	})

	Convey("Given two sources with the same seed", t, func() {
		a := nutrition.BuildNutritionQuery(500, nutrition.NewSeededSource(42))
		b := nutrition.BuildNutritionQuery(500, nutrition.NewSeededSource(42))

		Convey("Then the vectors are identical", func() {
			So(a, ShouldResemble, b)
		})
	})

	Convey("Given repeated draws from one source", t, func() {
		rng := nutrition.NewSeededSource(42)
		a := nutrition.BuildNutritionQuery(500, rng)
		b := nutrition.BuildNutritionQuery(500, rng)

		Convey("Then only element 0 is guaranteed to match", func() {
			So(a[0], ShouldEqual, b[0])
			So(a, ShouldNotResemble, b)
		})
	})

	Convey("Given the axis names", t, func() {
		Convey("Then calories come first and protein last", func() {
			So(nutrition.QueryAxes[0], ShouldEqual, "Calories")
			So(nutrition.QueryAxes[nutrition.QueryLen-1], ShouldEqual, "ProteinContent")
		})
	})
}

func TestParseLabels(t *testing.T) {
	Convey("Given user supplied labels", t, func() {
		Convey("When they match ignoring case and whitespace", func() {
			g, err := nutrition.ParseGender("  female ")
			So(err, ShouldBeNil)
			So(g, ShouldEqual, model.GenderFemale)

			a, err := nutrition.ParseActivityLevel("very active (6-7 days/wk)")
			So(err, ShouldBeNil)
			So(a, ShouldEqual, model.ActivityVeryActive)

			p, err := nutrition.ParsePlan("MILD WEIGHT LOSS")
			So(err, ShouldBeNil)
			So(p, ShouldEqual, model.PlanMildLoss)
		})

		Convey("When they are outside the enumerated sets", func() {
			_, err := nutrition.ParseGender("x")
			So(errors.Is(err, nutrition.ErrInvalidArgument), ShouldBeTrue)
			_, err = nutrition.ParseActivityLevel("")
			So(errors.Is(err, nutrition.ErrInvalidArgument), ShouldBeTrue)
			_, err = nutrition.ParsePlan("Gain weight")
			So(errors.Is(err, nutrition.ErrInvalidArgument), ShouldBeTrue)
		})
	})
}

func TestEstimate(t *testing.T) {
	profile := model.BiometricProfile{
		Age:           25,
		HeightCm:      170,
		WeightKg:      70,
		Gender:        model.GenderMale,
		ActivityLevel: model.ActivityLight,
	}

	Convey("Given the dashboard's default inputs", t, func() {
		est, err := nutrition.Estimate(profile, model.WeightGoal{Plan: model.PlanMaintain}, model.MealSchedule{MealsPerDay: 3})

		Convey("Then every derived figure is populated", func() {
			So(err, ShouldBeNil)
			So(est.BMI.Value, ShouldEqual, 24.22)
			So(est.Budget.BMR, ShouldEqual, 1642.5)
			So(est.Budget.MaintenanceCalories, ShouldEqual, 2258.4375)
			So(est.Budget.TargetCalories, ShouldEqual, 2258.4375)
			So(est.Budget.WeeklyLoss, ShouldEqual, "-0 kg/week")
			So(len(est.Allocations), ShouldEqual, 3)
		})
	})

	Convey("Given a weight loss goal", t, func() {
		est, err := nutrition.Estimate(profile, model.WeightGoal{Plan: model.PlanLoss}, model.MealSchedule{MealsPerDay: 5})

		Convey("Then the allocations partition the reduced target", func() {
			So(err, ShouldBeNil)
			So(est.Budget.TargetCalories, ShouldAlmostEqual, 2258.4375*0.8, tolerance)
			total := 0.0
			for _, a := range est.Allocations {
				total += a.Calories
			}
			So(total, ShouldAlmostEqual, est.Budget.TargetCalories, tolerance)
		})
	})

	Convey("Given invalid profiles", t, func() {
		mutations := map[string]func(p *model.BiometricProfile){
			"zero age":         func(p *model.BiometricProfile) { p.Age = 0 },
			"zero height":      func(p *model.BiometricProfile) { p.HeightCm = 0 },
			"negative weight":  func(p *model.BiometricProfile) { p.WeightKg = -1 },
			"unknown gender":   func(p *model.BiometricProfile) { p.Gender = "" },
			"unknown activity": func(p *model.BiometricProfile) { p.ActivityLevel = "Marathons" },
		}

		Convey("Then each is rejected with ErrInvalidArgument", func() {
			for _, mutate := range mutations {
				p := profile
				mutate(&p)
				_, err := nutrition.Estimate(p, model.WeightGoal{Plan: model.PlanMaintain}, model.MealSchedule{MealsPerDay: 3})
				So(errors.Is(err, nutrition.ErrInvalidArgument), ShouldBeTrue)
			}
		})

		Convey("And metrics that overflow to infinity are rejected", func() {
			tiny := profile
			tiny.HeightCm = 1e-200
			_, err := nutrition.Estimate(tiny, model.WeightGoal{Plan: model.PlanMaintain}, model.MealSchedule{MealsPerDay: 3})
			So(errors.Is(err, nutrition.ErrInvalidArgument), ShouldBeTrue)

			huge := profile
			huge.WeightKg = 1e308
			_, err = nutrition.Estimate(huge, model.WeightGoal{Plan: model.PlanMaintain}, model.MealSchedule{MealsPerDay: 3})
			So(errors.Is(err, nutrition.ErrInvalidArgument), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "not finite")
		})

		Convey("And an unknown plan is rejected too", func() {
			_, err := nutrition.Estimate(profile, model.WeightGoal{Plan: "Bulk"}, model.MealSchedule{MealsPerDay: 3})
			So(errors.Is(err, nutrition.ErrInvalidArgument), ShouldBeTrue)
		})
	})
}
