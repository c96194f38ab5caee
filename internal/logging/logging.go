package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.SetOutput(os.Stderr)
}

// Init configures the shared logger. Production logs are JSON; everything else is
// plain text for readability.
func Init(env, level string) {
	if env == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
}

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	return logger
}

// For returns an entry tagged with the component name, e.g. For("fcm").
func For(component string) *logrus.Entry {
	return logger.WithField("component", component)
}
