// Package logging builds the arbor logger from configuration.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"

	"github.com/0xcro3dile/docchat-go/internal/config"
)

const (
	timeFormat     = "15:04:05"
	maxLogFileSize = 50 * 1024 * 1024
	maxLogBackups  = 3
)

// New returns a logger writing to the outputs named in cfg.Output at
// cfg.Level. A file output whose directory cannot be created is skipped
// with a warning on stderr.
func New(cfg config.LoggingConfig) arbor.ILogger {
	logger := arbor.NewLogger()

	var toFile, toConsole bool
	for _, out := range cfg.Output {
		switch out {
		case "file":
			toFile = true
		case "stdout", "console":
			toConsole = true
		}
	}
	if !toFile && !toConsole {
		toConsole = true
	}

	if toFile && cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create log directory: %v\n", err)
		} else {
			logger = logger.WithFileWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeFile,
				FileName:   cfg.File,
				TimeFormat: timeFormat,
				MaxSize:    maxLogFileSize,
				MaxBackups: maxLogBackups,
				OutputType: models.OutputFormatLogfmt,
			})
		}
	}

	if toConsole {
		logger = logger.WithConsoleWriter(models.WriterConfiguration{
			Type:       models.LogWriterTypeConsole,
			TimeFormat: timeFormat,
			OutputType: models.OutputFormatLogfmt,
		})
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	return logger.WithLevelFromString(level)
}
