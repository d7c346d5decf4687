package utils

import (
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process-wide logger. Level falls back to info when
// the configured value does not parse.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}

// StageLogger tags a logger entry with the pipeline stage name.
func StageLogger(logger *logrus.Logger, stage string) *logrus.Entry {
	return logger.WithField("stage", stage)
}
