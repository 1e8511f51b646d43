package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	OpenRouterAPIKey  string `yaml:"openrouter_api_key"`
	OpenRouterBaseURL string `yaml:"openrouter_base_url"`

	StructureModel       string  `yaml:"structure_model"`
	StructureTemperature float64 `yaml:"structure_temperature"`
	StructureMaxTokens   int     `yaml:"structure_max_tokens"`
	InterviewModel       string  `yaml:"interview_model"`
	InterviewTemperature float64 `yaml:"interview_temperature"`
	InterviewMaxTokens   int     `yaml:"interview_max_tokens"`

	LLMRequestsPerSecond float64 `yaml:"llm_requests_per_second"`
	LLMBurst             int     `yaml:"llm_burst"`

	SMTPHost      string `yaml:"smtp_host"`
	SMTPPort      int    `yaml:"smtp_port"`
	SMTPUser      string `yaml:"smtp_user"`
	SMTPPassword  string `yaml:"smtp_password"`
	MailRecipient string `yaml:"mail_recipient"`

	DataPath    string `yaml:"data_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Load reads configuration from the environment with defaults, then applies
// an optional YAML overlay named by CONFIG_FILE. Environment values win.
func Load() (Config, error) {
	cfg := Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		OpenRouterAPIKey:  mustEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: mustEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),

		StructureModel:       mustEnv("STRUCTURE_MODEL", "anthropic/claude-opus-4"),
		StructureTemperature: mustEnvFloat("STRUCTURE_TEMPERATURE", 0.7),
		StructureMaxTokens:   mustEnvInt("STRUCTURE_MAX_TOKENS", 2000),
		InterviewModel:       mustEnv("INTERVIEW_MODEL", "anthropic/claude-3.5-haiku"),
		InterviewTemperature: mustEnvFloat("INTERVIEW_TEMPERATURE", 0.7),
		InterviewMaxTokens:   mustEnvInt("INTERVIEW_MAX_TOKENS", 1000),

		LLMRequestsPerSecond: mustEnvFloat("LLM_REQUESTS_PER_SECOND", 5),
		LLMBurst:             mustEnvInt("LLM_BURST", 10),

		SMTPHost:      mustEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      mustEnvInt("SMTP_PORT", 587),
		SMTPUser:      mustEnv("SMTP_USER", ""),
		SMTPPassword:  mustEnv("SMTP_PASSWORD", ""),
		MailRecipient: mustEnv("MAIL_RECIPIENT", "mhansen@cmgfi.com"),

		DataPath:    mustEnv("DATA_PATH", "./data"),
		PostgresDSN: mustEnv("POSTGRES_DSN", ""),
	}

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		if err := applyOverlay(&cfg, file); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// applyOverlay fills from the YAML file only the fields the environment left
// at their defaults, by loading the file into a copy and copying over values
// for keys the environment did not set explicitly.
func applyOverlay(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	merge := func(env string, dst *string, src string) {
		if os.Getenv(env) == "" && src != "" {
			*dst = src
		}
	}
	mergeInt := func(env string, dst *int, src int) {
		if os.Getenv(env) == "" && src != 0 {
			*dst = src
		}
	}
	mergeFloat := func(env string, dst *float64, src float64) {
		if os.Getenv(env) == "" && src != 0 {
			*dst = src
		}
	}

	merge("API_PORT", &cfg.APIPort, overlay.APIPort)
	merge("LOG_LEVEL", &cfg.LogLevel, overlay.LogLevel)
	merge("OPENROUTER_API_KEY", &cfg.OpenRouterAPIKey, overlay.OpenRouterAPIKey)
	merge("OPENROUTER_BASE_URL", &cfg.OpenRouterBaseURL, overlay.OpenRouterBaseURL)
	merge("STRUCTURE_MODEL", &cfg.StructureModel, overlay.StructureModel)
	mergeFloat("STRUCTURE_TEMPERATURE", &cfg.StructureTemperature, overlay.StructureTemperature)
	mergeInt("STRUCTURE_MAX_TOKENS", &cfg.StructureMaxTokens, overlay.StructureMaxTokens)
	merge("INTERVIEW_MODEL", &cfg.InterviewModel, overlay.InterviewModel)
	mergeFloat("INTERVIEW_TEMPERATURE", &cfg.InterviewTemperature, overlay.InterviewTemperature)
	mergeInt("INTERVIEW_MAX_TOKENS", &cfg.InterviewMaxTokens, overlay.InterviewMaxTokens)
	mergeFloat("LLM_REQUESTS_PER_SECOND", &cfg.LLMRequestsPerSecond, overlay.LLMRequestsPerSecond)
	mergeInt("LLM_BURST", &cfg.LLMBurst, overlay.LLMBurst)
	merge("SMTP_HOST", &cfg.SMTPHost, overlay.SMTPHost)
	mergeInt("SMTP_PORT", &cfg.SMTPPort, overlay.SMTPPort)
	merge("SMTP_USER", &cfg.SMTPUser, overlay.SMTPUser)
	merge("SMTP_PASSWORD", &cfg.SMTPPassword, overlay.SMTPPassword)
	merge("MAIL_RECIPIENT", &cfg.MailRecipient, overlay.MailRecipient)
	merge("DATA_PATH", &cfg.DataPath, overlay.DataPath)
	merge("POSTGRES_DSN", &cfg.PostgresDSN, overlay.PostgresDSN)

	return nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
