package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	OCRProviderBaidu     = "baidu"
	OCRProviderTesseract = "tesseract"

	LLMProviderDeepSeek = "deepseek"
	LLMProviderGemini   = "gemini"
)

type Config struct {
	OCR         OCRConfig         `yaml:"ocr"`
	LLM         LLMConfig         `yaml:"llm"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Report      ReportConfig      `yaml:"report"`
	Server      ServerConfig      `yaml:"server"`
}

type OCRConfig struct {
	Provider  string          `yaml:"provider"`
	Timeout   time.Duration   `yaml:"timeout"`
	Baidu     BaiduConfig     `yaml:"baidu"`
	Tesseract TesseractConfig `yaml:"tesseract"`
}

type BaiduConfig struct {
	TokenURL     string        `yaml:"token_url"`
	Endpoint     string        `yaml:"endpoint"`
	LanguageType string        `yaml:"language_type"`
	TokenTimeout time.Duration `yaml:"token_timeout"`

	// Loaded from the environment only.
	APIKey    string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

type TesseractConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
}

type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	Temperature *float32      `yaml:"temperature"` // nil means unset; 0 is a valid value
	Timeout     time.Duration `yaml:"timeout"`
	BaseURL     string        `yaml:"base_url"`

	// Loaded from the environment only.
	APIKey  string   `yaml:"-"`
	APIKeys []string `yaml:"-"`
}

// DefaultTemperature is used when llm.temperature is not set.
const DefaultTemperature float32 = 0.2

// SamplingTemperature returns the configured temperature, or the default when unset.
func (l LLMConfig) SamplingTemperature() float32 {
	if l.Temperature == nil {
		return DefaultTemperature
	}
	return *l.Temperature
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type ReportConfig struct {
	TitleMarker string   `yaml:"title_marker"`
	BrandTokens []string `yaml:"brand_tokens"`
	WriteDocx   bool     `yaml:"write_docx"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	MaxUploadMB   int    `yaml:"max_upload_mb"`
	MaxImageCount int    `yaml:"max_image_count"`
}

// Validate rejects unusable settings and fills defaults for the rest.
func (c *Config) Validate() error {
	c.OCR.Provider = strings.ToLower(strings.TrimSpace(c.OCR.Provider))
	if c.OCR.Provider == "" {
		c.OCR.Provider = OCRProviderBaidu
	}
	switch c.OCR.Provider {
	case OCRProviderBaidu, OCRProviderTesseract:
	default:
		return fmt.Errorf("ocr.provider %q is not supported", c.OCR.Provider)
	}

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = LLMProviderDeepSeek
	}
	switch c.LLM.Provider {
	case LLMProviderDeepSeek, LLMProviderGemini:
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}

	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.OCR.Timeout == 0 {
		c.OCR.Timeout = 30 * time.Second
	}
	if c.OCR.Baidu.TokenTimeout == 0 {
		c.OCR.Baidu.TokenTimeout = 20 * time.Second
	}
	if c.OCR.Baidu.TokenURL == "" {
		c.OCR.Baidu.TokenURL = "https://aip.baidubce.com/oauth/2.0/token"
	}
	if c.OCR.Baidu.Endpoint == "" {
		c.OCR.Baidu.Endpoint = "https://aip.baidubce.com/rest/2.0/ocr/v1/general"
	}
	if c.OCR.Baidu.LanguageType == "" {
		c.OCR.Baidu.LanguageType = "CHN_ENG"
	}
	if c.OCR.Tesseract.BinaryPath == "" {
		c.OCR.Tesseract.BinaryPath = "tesseract"
	}
	if c.OCR.Tesseract.Language == "" {
		c.OCR.Tesseract.Language = "chi_sim+eng"
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 120 * time.Second
	}
	if c.LLM.Temperature == nil {
		t := DefaultTemperature
		c.LLM.Temperature = &t
	}
	if c.LLM.Model == "" {
		if c.LLM.Provider == LLMProviderGemini {
			c.LLM.Model = "gemini-2.5-flash"
		} else {
			c.LLM.Model = "deepseek-chat"
		}
	}
	if c.LLM.BaseURL == "" && c.LLM.Provider == LLMProviderDeepSeek {
		c.LLM.BaseURL = "https://api.deepseek.com/v1"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Report.TitleMarker == "" {
		c.Report.TitleMarker = "诊断报告"
	}
	if len(c.Report.BrandTokens) == 0 {
		c.Report.BrandTokens = []string{"Sober", "Queen", "👑"}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 32
	}
	if c.Server.MaxImageCount == 0 {
		c.Server.MaxImageCount = 20
	}

	return nil
}

// RequireOCRCredentials reports whether the configured OCR provider has what
// it needs to run.
func (c *Config) RequireOCRCredentials() error {
	if c.OCR.Provider != OCRProviderBaidu {
		return nil
	}
	if c.OCR.Baidu.APIKey == "" {
		return fmt.Errorf("missing secret: %s", EnvBaiduAPIKey)
	}
	if c.OCR.Baidu.SecretKey == "" {
		return fmt.Errorf("missing secret: %s", EnvBaiduSecretKey)
	}
	return nil
}

// RequireLLMCredentials reports whether the configured LLM provider has an API key.
func (c *Config) RequireLLMCredentials() error {
	switch c.LLM.Provider {
	case LLMProviderGemini:
		if len(c.LLM.APIKeys) == 0 {
			return fmt.Errorf("missing secret: %s", EnvGeminiAPIKeys)
		}
	default:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("missing secret: %s", EnvDeepSeekAPIKey)
		}
	}
	return nil
}
