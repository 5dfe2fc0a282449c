package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
)

const configDirName = ".healthchat"

// Config represents the application configuration
type Config struct {
	LLMProvider string          `json:"llm_provider"`
	Providers   ProvidersConfig `json:"providers"`
	Assistant   AssistantConfig `json:"assistant"`
	Recipes     RecipesConfig   `json:"recipes"`
	Images      ImagesConfig    `json:"images"`
	LogLevel    string          `json:"log_level"`
	LogFormat   string          `json:"log_format"`
	LogFile     string          `json:"log_file"`
}

// ProvidersConfig holds per-provider completion settings.
type ProvidersConfig struct {
	Google GoogleConfig `json:"google"`
	OpenAI OpenAIConfig `json:"openai"`
}

// GoogleConfig holds the Gemini API settings. The API key is kept in the
// credential store, not here.
type GoogleConfig struct {
	Model             string  `json:"model"`
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	APITimeoutSeconds int     `json:"api_timeout_seconds"`
}

// OpenAIConfig holds settings for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIURL            string  `json:"api_url"`
	Model             string  `json:"model"`
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	APITimeoutSeconds int     `json:"api_timeout_seconds"`
}

// AssistantConfig controls the conversation persona and pacing.
type AssistantConfig struct {
	SystemPrompt     string   `json:"system_prompt"`
	WelcomeMessage   string   `json:"welcome_message"`
	QuickPrompts     []string `json:"quick_prompts"`
	RevealIntervalMs int      `json:"reveal_interval_ms"`
}

// RecipesConfig holds the Spoonacular settings.
type RecipesConfig struct {
	APIKey         string `json:"api_key"`
	APIURL         string `json:"api_url"`
	ResultLimit    int    `json:"result_limit"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// ImagesConfig holds the random image service settings.
type ImagesConfig struct {
	APIURL         string `json:"api_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		LLMProvider: ProviderGoogle,
		Providers: ProvidersConfig{
			Google: GoogleConfig{
				Model:             "gemini-2.5-flash",
				APITimeoutSeconds: 60,
			},
			OpenAI: OpenAIConfig{
				APIURL:            "https://api.openai.com/v1",
				Model:             "gpt-4o-mini",
				APITimeoutSeconds: 30,
			},
		},
		Assistant: AssistantConfig{
			SystemPrompt:   "你是一個健康飲食小助手，請用簡短、清晰的方式回答，盡量不超過200字。",
			WelcomeMessage: "👋 哈囉，我是健康飲食小助手！有關健康飲食的問題都可以問我喔～",
			QuickPrompts: []string{
				"我現在在師大，附近有沒有健康飲食的店？",
				"幫我安排一餐健康的菜餚。",
				"午餐吃了咖哩飯，晚餐該吃什麼才能均衡？",
			},
			RevealIntervalMs: 15,
		},
		Recipes: RecipesConfig{
			APIURL:         "https://api.spoonacular.com/recipes",
			ResultLimit:    8,
			TimeoutSeconds: 15,
		},
		Images: ImagesConfig{
			APIURL:         "https://api.thecatapi.com/v1",
			TimeoutSeconds: 15,
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load loads configuration from the specified path.
// If the file doesn't exist, creates one with default values. Keys missing
// from an existing file keep their default values.
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return applyEnvironmentOverrides(cfg), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return applyEnvironmentOverrides(cfg), nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if !IsSupportedProvider(c.LLMProvider) {
		return fmt.Errorf("unsupported LLM provider: %s", c.LLMProvider)
	}

	google := c.Providers.Google
	if google.Temperature < 0 || google.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got: %f", google.Temperature)
	}
	if google.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative, got: %d", google.MaxTokens)
	}

	openai := c.Providers.OpenAI
	if c.LLMProvider == ProviderOpenAI {
		if err := validateURL("providers.openai.api_url", openai.APIURL); err != nil {
			return err
		}
	}
	if openai.Temperature < 0 || openai.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got: %f", openai.Temperature)
	}

	if strings.TrimSpace(c.Assistant.SystemPrompt) == "" {
		return fmt.Errorf("assistant.system_prompt is required")
	}
	if c.Assistant.RevealIntervalMs < 0 {
		return fmt.Errorf("reveal_interval_ms must not be negative, got: %d", c.Assistant.RevealIntervalMs)
	}

	if err := validateURL("recipes.api_url", c.Recipes.APIURL); err != nil {
		return err
	}
	if c.Recipes.ResultLimit <= 0 {
		return fmt.Errorf("result_limit must be positive, got: %d", c.Recipes.ResultLimit)
	}
	if err := validateURL("images.api_url", c.Images.APIURL); err != nil {
		return err
	}

	switch normalizeLogLevel(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}

	return nil
}

// ActiveModel returns the model configured for the selected provider.
func (c Config) ActiveModel() string {
	if c.LLMProvider == ProviderOpenAI {
		return c.Providers.OpenAI.Model
	}
	return c.Providers.Google.Model
}

// SetActiveModel updates the model of the selected provider.
func (c *Config) SetActiveModel(model string) {
	if c.LLMProvider == ProviderOpenAI {
		c.Providers.OpenAI.Model = model
		return
	}
	c.Providers.Google.Model = model
}

// SupportedProviders lists the accepted llm_provider values.
func SupportedProviders() []string {
	return []string{ProviderGoogle, ProviderOpenAI}
}

// IsSupportedProvider reports whether name is a known provider.
func IsSupportedProvider(name string) bool {
	for _, p := range SupportedProviders() {
		if p == name {
			return true
		}
	}
	return false
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	return filepath.Join(Dir(), "config.json")
}

// Dir returns the per-user application directory.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(homeDir) == "" {
		return configDirName
	}
	return filepath.Join(homeDir, configDirName)
}

func validateURL(field, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s is not a valid URL: %s", field, raw)
	}
	return nil
}

func normalizeLogLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return "warn"
	}
	if level == "" {
		return "info"
	}
	return level
}

func applyEnvironmentOverrides(cfg Config) Config {
	if provider := strings.ToLower(strings.TrimSpace(os.Getenv("HEALTHCHAT_PROVIDER"))); provider != "" {
		if IsSupportedProvider(provider) {
			slog.Debug("config_env_override", "key", "HEALTHCHAT_PROVIDER", "value", provider)
			cfg.LLMProvider = provider
		}
	}

	if model := strings.TrimSpace(os.Getenv("HEALTHCHAT_MODEL")); model != "" {
		slog.Debug("config_env_override", "key", "HEALTHCHAT_MODEL", "value", model)
		cfg.SetActiveModel(model)
	}

	if level := os.Getenv("HEALTHCHAT_LOG_LEVEL"); level != "" {
		switch normalized := normalizeLogLevel(level); normalized {
		case "trace", "debug", "info", "warn", "error":
			cfg.LogLevel = normalized
		}
	}

	if key := strings.TrimSpace(os.Getenv("HEALTHCHAT_SPOONACULAR_KEY")); key != "" {
		slog.Debug("config_env_override", "key", "HEALTHCHAT_SPOONACULAR_KEY", "has_value", true)
		cfg.Recipes.APIKey = key
	}

	if ms := os.Getenv("HEALTHCHAT_REVEAL_INTERVAL_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v >= 0 {
			cfg.Assistant.RevealIntervalMs = v
		}
	}

	return cfg
}
