// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init sets the level and formatter of the standard logrus logger.
// format is "json" or "text"; anything else falls back to text.
func Init(level, format string) error {
	return Configure(logrus.StandardLogger(), os.Stderr, level, format)
}

// Configure applies level and format to logger, writing to out.
func Configure(logger *logrus.Logger, out io.Writer, level, format string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	logger.SetOutput(out)

	if strings.EqualFold(strings.TrimSpace(format), "json") {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
		})
		return nil
	}
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}
