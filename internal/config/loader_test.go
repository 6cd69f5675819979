package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/nutriplan/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.RecommendationMode, convey.ShouldEqual, config.ModeSequential)
			convey.So(cfg.RecommendationConcurrency, convey.ShouldEqual, 5)
			convey.So(cfg.RecommenderTimeoutMS, convey.ShouldEqual, 15_000)
			convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"*"})
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.RecommenderURL, convey.ShouldEqual, "http://localhost:5000/predict")
				convey.So(cfg.NutritionSeed, convey.ShouldEqual, int64(0))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("NUTRIPLAN_ADDR", ":8080")
			_ = os.Setenv("NUTRIPLAN_RECOMMENDER_URL", "https://recs.example.com/v1/predict")
			_ = os.Setenv("NUTRIPLAN_RECOMMENDER_TIMEOUT_MS", "2500")
			_ = os.Setenv("NUTRIPLAN_RECOMMENDATION_MODE", "concurrent")
			_ = os.Setenv("NUTRIPLAN_RECOMMENDATION_CONCURRENCY", "3")
			_ = os.Setenv("NUTRIPLAN_NUTRITION_SEED", "42")
			_ = os.Setenv("NUTRIPLAN_CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RecommenderURL, convey.ShouldEqual, "https://recs.example.com/v1/predict")
				convey.So(cfg.RecommenderTimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.RecommendationMode, convey.ShouldEqual, config.ModeConcurrent)
				convey.So(cfg.RecommendationConcurrency, convey.ShouldEqual, 3)
				convey.So(cfg.NutritionSeed, convey.ShouldEqual, int64(42))
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"http://localhost:3000", "https://app.example.com"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
recommender_url: "http://recommender:8000/predict"
recommendation_mode: concurrent
recommendation_concurrency: 2
cors_allowed_origins:
  - "http://localhost:5173"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("NUTRIPLAN_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.RecommenderURL, convey.ShouldEqual, "http://recommender:8000/predict")
				convey.So(cfg.RecommendationMode, convey.ShouldEqual, config.ModeConcurrent)
				convey.So(cfg.RecommendationConcurrency, convey.ShouldEqual, 2)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"http://localhost:5173"})
				convey.So(cfg.RecommenderTimeoutMS, convey.ShouldEqual, 15_000) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
recommendation_concurrency: 2
log_level: debug
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("NUTRIPLAN_CONFIG", tmpFile)
			_ = os.Setenv("NUTRIPLAN_ADDR", ":8080")                     // This should override the file
			_ = os.Setenv("NUTRIPLAN_RECOMMENDATION_CONCURRENCY", "8") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")                 // Overridden by env
				convey.So(cfg.RecommendationConcurrency, convey.ShouldEqual, 8) // Overridden by env
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")             // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("NUTRIPLAN_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("NUTRIPLAN_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("NUTRIPLAN_RECOMMENDATION_CONCURRENCY", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config values that cannot run", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		cases := []struct {
			name, key, value, message string
		}{
			{"empty addr", "NUTRIPLAN_ADDR", "", "addr must not be empty"},
			{"unknown mode", "NUTRIPLAN_RECOMMENDATION_MODE", "batch", "recommendation_mode"},
			{"zero concurrency", "NUTRIPLAN_RECOMMENDATION_CONCURRENCY", "0", "recommendation_concurrency"},
			{"negative timeout", "NUTRIPLAN_RECOMMENDER_TIMEOUT_MS", "-1", "recommender_timeout_ms"},
			{"relative endpoint", "NUTRIPLAN_RECOMMENDER_URL", "/predict", "recommender_url"},
		}

		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				_ = os.Setenv(tc.key, tc.value)

				cfg, err := config.Load(ctx)

				convey.Convey("Then a validation error names the field", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.message)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"NUTRIPLAN_CONFIG",
		"NUTRIPLAN_ADDR",
		"NUTRIPLAN_LOG_LEVEL",
		"NUTRIPLAN_LOG_FORMAT",
		"NUTRIPLAN_RECOMMENDER_URL",
		"NUTRIPLAN_RECOMMENDER_API_KEY",
		"NUTRIPLAN_RECOMMENDER_TIMEOUT_MS",
		"NUTRIPLAN_RECOMMENDATION_MODE",
		"NUTRIPLAN_RECOMMENDATION_CONCURRENCY",
		"NUTRIPLAN_NUTRITION_SEED",
		"NUTRIPLAN_CORS_ALLOWED_ORIGINS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "nutriplan-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
