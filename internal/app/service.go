// Package service provides the planner service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/nutriplan/internal/adapters/recommender"
	"github.com/okian/nutriplan/internal/domain/model"
	"github.com/okian/nutriplan/internal/domain/nutrition"
	"github.com/okian/nutriplan/pkg/logger"
	"github.com/okian/nutriplan/pkg/metrics"
)

// Recommendation modes.
const (
	ModeSequential = "sequential"
	ModeConcurrent = "concurrent"
)

const defaultConcurrency = 5

// Recommender fetches one meal for one nutrition query.
type Recommender interface {
	Recommend(ctx context.Context, query nutrition.NutritionQuery) (model.Recommendation, error)
}

// Service computes estimates and fetches per-meal recommendations.
type Service struct {
	// rngMu guards rng; *rand.Rand is not safe for concurrent use.
	rngMu sync.Mutex
	rng   nutrition.RandomSource

	recommender Recommender
	mode        string
	concurrency int

	estimates       atomic.Int64
	plansSucceeded  atomic.Int64
	plansFailed     atomic.Int64
	recommendations atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRecommender sets the recommendation collaborator.
func WithRecommender(r Recommender) Option {
	return func(s *Service) {
		if r != nil {
			s.recommender = r
		}
	}
}

// WithMode selects sequential or concurrent recommendation fetching.
// Unknown modes are ignored.
func WithMode(mode string) Option {
	return func(s *Service) {
		if mode == ModeSequential || mode == ModeConcurrent {
			s.mode = mode
		}
	}
}

// WithConcurrency caps in-flight recommendation requests in concurrent mode.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithRandomSource sets the source used to fill nutrition queries.
func WithRandomSource(rng nutrition.RandomSource) Option {
	return func(s *Service) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSeed seeds the nutrition query source. Zero keeps the clock seed.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		if seed != 0 {
			s.rng = nutrition.NewSeededSource(seed)
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		mode:        ModeSequential,
		concurrency: defaultConcurrency,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = nutrition.NewSeededSource(time.Now().UnixNano())
	}
	if s.logger == nil {
		s.logger = logger.Named("planner")
	}

	return s
}

// Estimate validates the inputs and derives BMI, calories and meal allocations.
func (s *Service) Estimate(ctx context.Context, p model.BiometricProfile, goal model.WeightGoal,
	schedule model.MealSchedule,
) (model.Estimate, error) {
	est, err := nutrition.Estimate(p, goal, schedule)
	if err != nil {
		metrics.RecordErrorByComponent("estimator", "invalid_argument")
		return model.Estimate{}, err
	}

	if nutrition.IsFallbackMealCount(schedule.MealsPerDay) {
		metrics.RecordMealFallback()
		s.logger.Warn(ctx, "meals per day outside 3-5, using the five meal table",
			logger.Int("meals_per_day", schedule.MealsPerDay),
		)
	}

	s.estimates.Add(1)
	metrics.RecordEstimate(string(est.BMI.Category), est.Budget.TargetCalories)
	s.logger.Debug(ctx, "estimate computed",
		logger.Float64("bmi", est.BMI.Value),
		logger.Float64("target_calories", est.Budget.TargetCalories),
	)
	return est, nil
}

// Recommend fetches one recommendation per allocation, in allocation order.
// Either every slot succeeds or no recommendations are returned.
func (s *Service) Recommend(ctx context.Context, allocations []model.MealAllocation) ([]model.Recommendation, error) {
	if s.recommender == nil {
		return nil, ErrRecommenderNotConfigured
	}
	if len(allocations) == 0 {
		return []model.Recommendation{}, nil
	}

	queries := s.buildQueries(allocations)

	var (
		recs []model.Recommendation
		err  error
	)
	if s.mode == ModeConcurrent {
		recs, err = s.recommendConcurrent(ctx, allocations, queries)
	} else {
		recs, err = s.recommendSequential(ctx, allocations, queries)
	}
	if err != nil {
		return nil, err
	}

	s.recommendations.Add(int64(len(recs)))
	return recs, nil
}

// buildQueries draws every vector up front in table order so a seeded source
// yields the same vectors in both modes.
func (s *Service) buildQueries(allocations []model.MealAllocation) []nutrition.NutritionQuery {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	queries := make([]nutrition.NutritionQuery, len(allocations))
	for i, a := range allocations {
		queries[i] = nutrition.BuildNutritionQuery(a.Calories, s.rng)
	}
	return queries
}

func (s *Service) recommendSequential(ctx context.Context, allocations []model.MealAllocation,
	queries []nutrition.NutritionQuery,
) ([]model.Recommendation, error) {
	recs := make([]model.Recommendation, 0, len(allocations))
	for i, a := range allocations {
		if err := ctx.Err(); err != nil {
			return nil, s.slotError(ctx, a.MealName, err)
		}
		rec, err := s.recommender.Recommend(ctx, queries[i])
		if err != nil {
			return nil, s.slotError(ctx, a.MealName, err)
		}
		rec.Meal = a.MealName
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *Service) recommendConcurrent(ctx context.Context, allocations []model.MealAllocation,
	queries []nutrition.NutritionQuery,
) ([]model.Recommendation, error) {
	recs := make([]model.Recommendation, len(allocations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, a := range allocations {
		i, a := i, a
		g.Go(func() error {
			rec, err := s.recommender.Recommend(gctx, queries[i])
			if err != nil {
				return s.slotError(gctx, a.MealName, err)
			}
			rec.Meal = a.MealName
			recs[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *Service) slotError(ctx context.Context, meal string, err error) error {
	s.logger.Warn(ctx, "recommendation failed for meal slot",
		logger.String("meal", meal),
		logger.Error(err),
	)
	if !errors.Is(err, recommender.ErrRecommendationFetchFailed) {
		err = fmt.Errorf("%w: %w", recommender.ErrRecommendationFetchFailed, err)
	}
	return fmt.Errorf("meal %q: %w", meal, err)
}

// Plan computes an estimate and fetches its recommendations. The estimate is
// returned even when fetching fails; Recommendations is then empty.
func (s *Service) Plan(ctx context.Context, p model.BiometricProfile, goal model.WeightGoal,
	schedule model.MealSchedule,
) (model.MealPlan, error) {
	est, err := s.Estimate(ctx, p, goal, schedule)
	if err != nil {
		return model.MealPlan{}, err
	}

	plan := model.MealPlan{
		ID:              uuid.NewString(),
		Estimate:        est,
		Recommendations: []model.Recommendation{},
	}
	log := s.logger.With(logger.String("plan_id", plan.ID))
	log.Info(ctx, "plan started",
		logger.Int("slots", len(est.Allocations)),
		logger.String("mode", s.mode),
	)

	start := time.Now()
	recs, err := s.Recommend(ctx, est.Allocations)
	if err != nil {
		s.plansFailed.Add(1)
		metrics.RecordPlan(metrics.OutcomeFailed)
		log.Error(ctx, "plan failed", logger.Error(err))
		return plan, err
	}

	plan.Recommendations = recs
	s.plansSucceeded.Add(1)
	metrics.RecordPlan(metrics.OutcomeSucceeded)
	log.Info(ctx, "plan finished", logger.Duration("elapsed", time.Since(start)))
	return plan, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"mode":                   s.mode,
		"concurrency":            s.concurrency,
		"recommenderConfigured":  s.recommender != nil,
		"estimates":              s.estimates.Load(),
		"plansSucceeded":         s.plansSucceeded.Load(),
		"plansFailed":            s.plansFailed.Load(),
		"recommendationsFetched": s.recommendations.Load(),
	}
}
