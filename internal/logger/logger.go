package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

type implLogger struct {
	logger *log.Logger
	out    io.Writer
	mu     sync.Mutex
	level  string
	format string
}

// New creates a text Logger writing to stdout.
func New(level string) Logger {
	return NewWithWriter(level, FormatText, os.Stdout)
}

// NewWithFormat creates a Logger writing to stdout in the given format.
func NewWithFormat(level, format string) Logger {
	return NewWithWriter(level, format, os.Stdout)
}

// NewWithWriter creates a Logger writing to w. Unknown formats fall back to text.
func NewWithWriter(level, format string, w io.Writer) Logger {
	format = strings.ToLower(format)
	if format != FormatJSON {
		format = FormatText
	}
	return &implLogger{
		logger: log.New(w, "", log.LstdFlags),
		out:    w,
		level:  strings.ToLower(level),
		format: format,
	}
}

func (l *implLogger) shouldLog(level string) bool {
	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) write(level, msg string, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	text := msg
	if len(args) > 0 {
		text = fmt.Sprintf(msg, args...)
	}

	if l.format == FormatJSON {
		line, err := json.Marshal(struct {
			Time  string `json:"time"`
			Level string `json:"level"`
			Msg   string `json:"msg"`
		}{
			Time:  time.Now().Format(time.RFC3339),
			Level: level,
			Msg:   text,
		})
		if err != nil {
			return
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		l.out.Write(append(line, '\n'))
		return
	}

	l.logger.Printf("[%s] %s", strings.ToUpper(level), text)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.write("debug", msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.write("info", msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.write("warn", msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.write("error", msg, args...)
}
