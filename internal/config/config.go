// Package config loads KICKAI's runtime configuration from a YAML file
// overlaid with KICKAI_* environment variables (spec.md §6, ambient stack
// per SPEC_FULL.md §2 — grounded on the teacher's internal/config loader
// shape, trimmed from its full $include/json5 system since this core's
// configuration surface is much smaller).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kickai/kickai/internal/kerrors"
	"github.com/kickai/kickai/internal/providers"
)

// Config is the full set of configuration this core reads (spec.md §6).
type Config struct {
	InviteSecretKey string        `yaml:"invite_secret_key"`
	AIProvider      string        `yaml:"ai_provider"`
	AIBaseURL       string        `yaml:"ai_base_url"`
	AIAPIKey        string        `yaml:"ai_api_key"`
	AIModel         string        `yaml:"ai_model"`
	DBProjectID     string        `yaml:"db_project_id"`
	TelegramToken   string        `yaml:"telegram_token"`
	TeamID          string        `yaml:"team_id"`
	MainChatID      string        `yaml:"main_chat_id"`
	LeadershipChatID string       `yaml:"leadership_chat_id"`

	CacheServiceSize    int           `yaml:"cache_service_size"`
	CacheServiceTTL     time.Duration `yaml:"cache_service_ttl"`
	CacheRepositorySize int           `yaml:"cache_repository_size"`
	CacheRepositoryTTL  time.Duration `yaml:"cache_repository_ttl"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
}

func defaults() Config {
	return Config{
		AIProvider:          string(providers.NameMock),
		CacheServiceSize:    100,
		CacheServiceTTL:     time.Hour,
		CacheRepositorySize: 50,
		CacheRepositoryTTL:  30 * time.Minute,
		RequestTimeout:      30 * time.Second,
	}
}

// Load reads path (if it exists) as YAML, then overlays KICKAI_* env vars,
// then validates. path may be empty — env-only configuration is valid.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, kerrors.Validation(fmt.Sprintf("reading config file %q", path), err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, kerrors.Validation(fmt.Sprintf("parsing config file %q", path), err)
		}
	}

	overlayEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func overlayEnv(cfg *Config) {
	if v, ok := os.LookupEnv("KICKAI_INVITE_SECRET_KEY"); ok {
		cfg.InviteSecretKey = v
	}
	if v, ok := os.LookupEnv("KICKAI_AI_PROVIDER"); ok {
		cfg.AIProvider = v
	}
	if v, ok := os.LookupEnv("KICKAI_AI_BASE_URL"); ok {
		cfg.AIBaseURL = v
	}
	if v, ok := os.LookupEnv("KICKAI_AI_API_KEY"); ok {
		cfg.AIAPIKey = v
	}
	if v, ok := os.LookupEnv("KICKAI_AI_MODEL"); ok {
		cfg.AIModel = v
	}
	if v, ok := os.LookupEnv("KICKAI_DB_PROJECT_ID"); ok {
		cfg.DBProjectID = v
	}
	if v, ok := os.LookupEnv("KICKAI_TELEGRAM_TOKEN"); ok {
		cfg.TelegramToken = v
	}
	if v, ok := os.LookupEnv("KICKAI_TEAM_ID"); ok {
		cfg.TeamID = v
	}
	if v, ok := os.LookupEnv("KICKAI_MAIN_CHAT_ID"); ok {
		cfg.MainChatID = v
	}
	if v, ok := os.LookupEnv("KICKAI_LEADERSHIP_CHAT_ID"); ok {
		cfg.LeadershipChatID = v
	}
	if v, ok := os.LookupEnv("KICKAI_CACHE_SERVICE_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheServiceSize = n
		}
	}
	if v, ok := os.LookupEnv("KICKAI_CACHE_REPOSITORY_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheRepositorySize = n
		}
	}
	if v, ok := os.LookupEnv("KICKAI_REQUEST_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}

// Validate checks essential fields are present — consulted both directly
// and by the startup validator's configuration check (spec.md §4.6).
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InviteSecretKey) == "" {
		return kerrors.Validation("invite_secret_key is required", nil)
	}
	switch providers.Name(c.AIProvider) {
	case providers.NameOllama, providers.NameOpenAI, providers.NameGoogle, providers.NameMock:
	default:
		return kerrors.Validation("ai_provider must be one of ollama, openai, google, mock", nil)
	}
	switch providers.Name(c.AIProvider) {
	case providers.NameOpenAI, providers.NameGoogle:
		if strings.TrimSpace(c.AIAPIKey) == "" {
			return kerrors.Validation("ai_api_key is required for provider "+c.AIProvider, nil)
		}
	}
	return nil
}

// ProviderFactoryConfig projects Config into the shape providers.New wants.
func (c *Config) ProviderFactoryConfig() providers.FactoryConfig {
	return providers.FactoryConfig{
		Provider:     providers.Name(c.AIProvider),
		APIKey:       c.AIAPIKey,
		BaseURL:      c.AIBaseURL,
		DefaultModel: c.AIModel,
	}
}
