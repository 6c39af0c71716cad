package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(logrus.InfoLevel)
}

// L returns the shared application logger.
func L() *logrus.Logger {
	return log
}

// SetDebug switches the shared logger to debug level.
func SetDebug() {
	log.SetLevel(logrus.DebugLevel)
}
