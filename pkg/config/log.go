package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger on stderr at the given level. An unknown
// level falls back to info.
func NewLogger(level string) *logrus.Logger {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	return &logrus.Logger{
		Out: os.Stderr,
		Formatter: &logrus.TextFormatter{
			DisableTimestamp: true,
		},
		Hooks: make(logrus.LevelHooks),
		Level: lvl,
	}
}
