// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors are wrapped with this package's sentinel errors.
package config

// Recommendation modes.
const (
	ModeSequential = "sequential"
	ModeConcurrent = "concurrent"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// RecommenderURL is the endpoint of the external meal recommendation service.
	RecommenderURL string `koanf:"recommender_url"`
	// RecommenderAPIKey is sent as a bearer token when non-empty.
	RecommenderAPIKey string `koanf:"recommender_api_key"`
	// RecommenderTimeoutMS bounds each recommendation request; 0 disables the timeout.
	RecommenderTimeoutMS int `koanf:"recommender_timeout_ms"`

	// RecommendationMode is "sequential" (one slot at a time) or "concurrent".
	RecommendationMode string `koanf:"recommendation_mode"`
	// RecommendationConcurrency caps in-flight requests in concurrent mode.
	RecommendationConcurrency int `koanf:"recommendation_concurrency"`

	// NutritionSeed seeds the nutrition query generator; 0 seeds from the clock.
	NutritionSeed int64 `koanf:"nutrition_seed"`

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                  "info",
		LogFormat:                 "text",
		Addr:                      ":9080",
		RecommenderURL:            "http://localhost:5000/predict",
		RecommenderTimeoutMS:      15_000,
		RecommendationMode:        ModeSequential,
		RecommendationConcurrency: 5,
		NutritionSeed:             0,
		CORSAllowedOrigins:        []string{"*"},
	}
}
