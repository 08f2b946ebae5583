package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/chat-transcript/internal/config"
	"github.com/nguyentantai21042004/chat-transcript/internal/logger"
)

func TestNewProcessor(t *testing.T) {
	log := logger.NewWithWriter("error", "text", io.Discard)
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{
			name:    "baidu without keys",
			cfg:     config.Config{OCR: config.OCRConfig{Provider: config.OCRProviderBaidu}},
			wantErr: true,
		},
		{
			name:    "tesseract without llm key",
			cfg:     config.Config{OCR: config.OCRConfig{Provider: config.OCRProviderTesseract}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Paths = config.PathsConfig{Input: "in", Output: "out"}
			if err := cfg.Validate(); err != nil {
				t.Fatal(err)
			}
			proc, err := NewProcessor(ctx, &cfg, log)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProcessor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && proc == nil {
				t.Error("NewProcessor() returned nil processor")
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := &config.Config{Paths: config.PathsConfig{
		Input:    filepath.Join(root, "in"),
		Output:   filepath.Join(root, "out"),
		Archived: filepath.Join(root, "archived"),
		Temp:     filepath.Join(root, "tmp"),
	}}
	if err := EnsureDirectories(cfg); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}
	for _, dir := range []string{cfg.Paths.Input, cfg.Paths.Output, cfg.Paths.Archived, cfg.Paths.Temp} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}
