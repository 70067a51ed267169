// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

type Config struct {
	Port        string
	GinMode     string
	AI          AI
	EnableDB    bool
	DatabaseURL string
	SessionTTL  time.Duration
	StaticRoot  string
}

// AI selects and configures the remote prediction model.
type AI struct {
	Provider      string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

// Model returns the model id for the selected provider.
func (a AI) Model() string {
	if a.Provider == ProviderOpenAI {
		return a.OpenAIModel
	}
	return a.GeminiModel
}

// Load reads .env (if present) and the process environment. Variables already
// set in the environment win over .env entries.
func Load() (*Config, error) {
	v := newViper()

	ttl, err := time.ParseDuration(v.GetString("SESSION_TTL"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}

	cfg := &Config{
		Port:        v.GetString("PORT"),
		GinMode:     v.GetString("GIN_MODE"),
		AI:          loadAI(v),
		EnableDB:    v.GetBool("ENABLE_DB"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		SessionTTL:  ttl,
		StaticRoot:  v.GetString("STATIC_ROOT"),
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	if cfg.SessionTTL < time.Second {
		return nil, fmt.Errorf("SESSION_TTL must be at least 1s, got %s", cfg.SessionTTL)
	}

	return cfg, nil
}

// LoadAI reads only the model settings. The CLI uses it so that server
// settings it never reads cannot fail its startup.
func LoadAI() AI {
	return loadAI(newViper())
}

func newViper() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("AI_PROVIDER", ProviderGemini)
	v.SetDefault("GEMINI_MODEL", DefaultGeminiModel)
	v.SetDefault("OPENAI_MODEL", DefaultOpenAIModel)
	v.SetDefault("ENABLE_DB", false)
	v.SetDefault("SESSION_TTL", "30m")
	v.AutomaticEnv()
	return v
}

func loadAI(v *viper.Viper) AI {
	return AI{
		Provider:      strings.ToLower(strings.TrimSpace(v.GetString("AI_PROVIDER"))),
		GeminiAPIKey:  v.GetString("GEMINI_API_KEY"),
		GeminiModel:   v.GetString("GEMINI_MODEL"),
		OpenAIAPIKey:  v.GetString("OPENAI_API_KEY"),
		OpenAIModel:   v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL: v.GetString("OPENAI_BASE_URL"),
	}
}
