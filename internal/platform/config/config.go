// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`

	// An empty key switches the model clients to deterministic mocks,
	// which keeps local runs and CI offline.
	LLMAPIKey           string `env:"LLM_API_KEY"`
	LLMModel            string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMRateLimitRPS     int    `env:"LLM_RATE_LIMIT_RPS" envDefault:"1"`
	EmbeddingModel      string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingDimensions int    `env:"EMBEDDING_DIMENSIONS" envDefault:"1536"`

	CorpusDir   string `env:"CORPUS_DIR" envDefault:"./corpus"`
	CatalogPath string `env:"CATALOG_PATH" envDefault:"./data/recipes.json"`

	// Zero disables the background reindex loop; the admin endpoint
	// still works.
	ReindexInterval time.Duration `env:"REINDEX_INTERVAL" envDefault:"0"`

	ChunkSize       int           `env:"CHUNK_SIZE" envDefault:"700"`
	ChunkOverlap    int           `env:"CHUNK_OVERLAP" envDefault:"120"`
	MinChunkChars   int           `env:"MIN_CHUNK_CHARS" envDefault:"250"`
	WebFetchRPS     float64       `env:"WEB_FETCH_RPS" envDefault:"2"`
	WebFetchTimeout time.Duration `env:"WEB_FETCH_TIMEOUT" envDefault:"30s"`

	TopK            int `env:"TOP_K" envDefault:"4"`
	OverfetchFactor int `env:"OVERFETCH_FACTOR" envDefault:"4"`
	MaxSnippetChars int `env:"MAX_SNIPPET_CHARS" envDefault:"900"`

	PlanDays             int      `env:"PLAN_DAYS" envDefault:"3"`
	MealSlots            []string `env:"MEAL_SLOTS" envSeparator:"," envDefault:"breakfast,lunch,dinner"`
	RotateCuisines       bool     `env:"ROTATE_CUISINES" envDefault:"true"`
	MaxSameCuisinePerDay int      `env:"MAX_SAME_CUISINE_PER_DAY" envDefault:"1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}

// IsLocal reports whether the service runs in the local environment.
func (c *Config) IsLocal() bool {
	return c.AppEnv == "local"
}

// UseMockLLM reports whether model calls should hit the deterministic
// mocks instead of the API.
func (c *Config) UseMockLLM() bool {
	return c.LLMAPIKey == ""
}
