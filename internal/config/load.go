package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvBaiduAPIKey     = "BAIDU_OCR_API_KEY"
	EnvBaiduSecretKey  = "BAIDU_OCR_SECRET_KEY"
	EnvDeepSeekAPIKey  = "DEEPSEEK_API_KEY"
	EnvDeepSeekBaseURL = "DEEPSEEK_BASE_URL"
	EnvGeminiAPIKeys   = "GEMINI_API_KEYS"
)

// Load reads the YAML config at path, then pulls secrets from the
// environment. A .env file next to the process is loaded first if present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// .env is optional, but a broken one is an error
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.OCR.Baidu.APIKey = strings.TrimSpace(os.Getenv(EnvBaiduAPIKey))
	c.OCR.Baidu.SecretKey = strings.TrimSpace(os.Getenv(EnvBaiduSecretKey))
	c.LLM.APIKey = strings.TrimSpace(os.Getenv(EnvDeepSeekAPIKey))
	if v := strings.TrimSpace(os.Getenv(EnvDeepSeekBaseURL)); v != "" {
		c.LLM.BaseURL = v
	}
	c.LLM.APIKeys = splitKeys(os.Getenv(EnvGeminiAPIKeys))
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
