package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	DatabaseDSN string `mapstructure:"DATABASE_DSN"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	CORSOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// AI suggestion provider (OpenAI-compatible chat completions)
	LLMAPIKey  string `mapstructure:"LLM_API_KEY"`
	LLMBaseURL string `mapstructure:"LLM_BASE_URL"`
	LLMModel   string `mapstructure:"LLM_MODEL"`
}

// Load reads configuration from environment variables and an optional .env
// file for local development.
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=bakehouse port=5432 sslmode=disable")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("LLM_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("LLM_MODEL", "gpt-4o-mini")

	// .env is optional, ignore a missing file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn().Err(err).Msg("could not read .env file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatal().Err(err).Msg("could not unmarshal configuration")
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is not set; it is required")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal().Msg("JWT_SECRET must be at least 32 characters")
	}
	if cfg.LLMAPIKey == "" {
		log.Warn().Msg("LLM_API_KEY is not set; AI suggestions will be unavailable")
	}

	return &cfg
}
