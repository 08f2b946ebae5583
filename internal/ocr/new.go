package ocr

import (
	"fmt"

	"github.com/nguyentantai21042004/chat-transcript/internal/config"
	"github.com/nguyentantai21042004/chat-transcript/pkg/executor"
)

// New builds the Recognizer selected by cfg.OCR.Provider.
func New(cfg *config.Config, exec executor.Executor) (Recognizer, error) {
	switch cfg.OCR.Provider {
	case config.OCRProviderBaidu:
		if err := cfg.RequireOCRCredentials(); err != nil {
			return nil, err
		}
		return NewBaidu(BaiduOptions{
			APIKey:       cfg.OCR.Baidu.APIKey,
			SecretKey:    cfg.OCR.Baidu.SecretKey,
			TokenURL:     cfg.OCR.Baidu.TokenURL,
			Endpoint:     cfg.OCR.Baidu.Endpoint,
			LanguageType: cfg.OCR.Baidu.LanguageType,
			Timeout:      cfg.OCR.Timeout,
			TokenTimeout: cfg.OCR.Baidu.TokenTimeout,
		}), nil
	case config.OCRProviderTesseract:
		return NewTesseract(exec, TesseractOptions{
			BinaryPath: cfg.OCR.Tesseract.BinaryPath,
			Language:   cfg.OCR.Tesseract.Language,
			TempDir:    cfg.Paths.Temp,
			Timeout:    cfg.OCR.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported ocr provider %q", cfg.OCR.Provider)
	}
}
