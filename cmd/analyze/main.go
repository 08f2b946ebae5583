package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nguyentantai21042004/chat-transcript/internal/app"
	"github.com/nguyentantai21042004/chat-transcript/internal/config"
	"github.com/nguyentantai21042004/chat-transcript/internal/logger"
	"github.com/nguyentantai21042004/chat-transcript/internal/processor"
	"github.com/nguyentantai21042004/chat-transcript/internal/report"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	transcriptOnly := flag.Bool("transcript-only", false, "print the transcript and skip the report")
	docxPath := flag.String("docx", "", "also write the report to this .docx file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] screenshot...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// progress goes to stderr so stdout stays clean for the transcript
	log := logger.NewWithWriter(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	proc, err := app.NewProcessor(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize processor: %v", err)
		os.Exit(1)
	}

	images := make([]processor.ImageInput, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error(ctx, "Failed to read %s: %v", path, err)
			os.Exit(1)
		}
		images = append(images, processor.ImageInput{Filename: filepath.Base(path), Data: data})
	}
	processor.SortByFilename(images)

	batch, err := proc.Transcribe(ctx, images, func(done, total int, r processor.ImageResult) {
		log.Info(ctx, "[%d/%d] %s done", done, total, r.Filename)
	})
	if err != nil {
		log.Error(ctx, "Transcription aborted: %v", err)
		os.Exit(1)
	}

	fmt.Println(batch.Transcript)
	if *transcriptOnly {
		return
	}

	body, err := proc.Analyze(ctx, batch.Transcript)
	if err != nil {
		log.Error(ctx, "Report failed: %v", err)
		os.Exit(1)
	}
	fmt.Println()
	fmt.Println(body)

	if *docxPath != "" {
		if err := report.WriteDocx(cfg.Report.TitleMarker, body, *docxPath); err != nil {
			log.Error(ctx, "Failed to write %s: %v", *docxPath, err)
			os.Exit(1)
		}
	}
}
