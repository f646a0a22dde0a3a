package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Setup points the standard logger at stdout and, when a file is
// configured, a size-rotated copy of the same stream. The returned closer
// must be called on shutdown.
func Setup(cfg Config) (io.Writer, io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return os.Stdout, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}

	out := io.MultiWriter(os.Stdout, rotator)
	log.SetOutput(out)
	return out, rotator, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
