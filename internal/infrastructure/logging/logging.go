// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/polyglot/internal/infrastructure/config"
)

// NewLogger constructs a logrus logger honoring the configured level and
// format. Unknown levels are an error rather than a silent default.
func NewLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Log.Level, err)
	}
	logger.SetLevel(level)

	switch cfg.Log.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
	return logger, nil
}
