// Package logging points the standard logger at stderr or a rotating file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/menta2k/smart-crop/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup configures the standard logger from cfg. The returned closer flushes
// and closes the log file, if any.
func Setup(cfg config.LogConfig) (io.Closer, error) {
	if cfg.File == "" {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	out := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB, // MB
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays, // days
		Compress:   cfg.Compress,
	}
	log.SetOutput(out)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	return out, nil
}

// EngineLogger returns the logger handed to the cropper. Engine traces are
// only written when verbose is set.
func EngineLogger(verbose bool) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(log.Writer(), "", log.Flags())
}
