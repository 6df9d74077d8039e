package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr    string `yaml:"addr"`
	SiteURL string `yaml:"site_url"`

	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`

	IdentityURL     string `yaml:"identity_url"`
	IdentityAnonKey string `yaml:"identity_anon_key"`

	OpenAIAPIKey string `yaml:"-"`
	OpenAIModel  string `yaml:"openai_model"`

	RedisAddr string `yaml:"redis_addr"`
}

// LoadConfig reads an optional config.yaml for defaults, then lets
// environment variables (with .env support) override. The identity endpoint
// and its public key are required; everything else has a fallback or is
// checked at the point of use.
func LoadConfig() (Config, error) {
	_ = godotenv.Load() // no .env file is fine, system env is used as-is

	cfg := Config{
		Addr:        ":8000",
		SiteURL:     "http://localhost:8000",
		OpenAIModel: "gpt-4o-mini",
	}
	if raw, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config.yaml: %w", err)
		}
	}

	overlayEnv(&cfg.Addr, "ADDR")
	overlayEnv(&cfg.SiteURL, "SITE_URL")
	overlayEnv(&cfg.DBUser, "DB_USER")
	overlayEnv(&cfg.DBPassword, "DB_PASSWORD")
	overlayEnv(&cfg.DBHost, "DB_HOST")
	overlayEnv(&cfg.DBPort, "DB_PORT")
	overlayEnv(&cfg.DBName, "DB_NAME")
	overlayEnv(&cfg.IdentityURL, "IDENTITY_URL")
	overlayEnv(&cfg.IdentityAnonKey, "IDENTITY_ANON_KEY")
	overlayEnv(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	overlayEnv(&cfg.OpenAIModel, "OPENAI_MODEL")
	overlayEnv(&cfg.RedisAddr, "REDIS_ADDR")

	// The identity provider is the system of record for sessions; without it
	// nothing can run. The OpenAI key is deliberately not required here: its
	// absence only disables the summarization path at runtime.
	if cfg.IdentityURL == "" {
		return Config{}, fmt.Errorf("IDENTITY_URL is required")
	}
	if cfg.IdentityAnonKey == "" {
		return Config{}, fmt.Errorf("IDENTITY_ANON_KEY is required")
	}
	return cfg, nil
}

func overlayEnv(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}
