package log

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/camsops/supportdesk-app/conf"
)

var (
	// API receives log entries from the HTTP handlers and routers.
	API logrus.FieldLogger
	// Ingest receives log entries from the support-log ingestion pipeline.
	Ingest logrus.FieldLogger
	// Request receives the structured per-request log entries.
	Request logrus.FieldLogger
)

func init() {
	SetupLoggers()
}

// SetupLoggers (re)builds the package loggers from the current configuration.
// Exported so tests can refresh the loggers after changing log destinations.
func SetupLoggers() {
	API = Logger(logrus.New(), conf.GetEnv("SUPPORTDESK_ERROR_LOG"),
		"api", conf.GetEnv("ENVIRONMENT"))
	Ingest = Logger(logrus.New(), conf.GetEnv("SUPPORTDESK_INGEST_LOG"),
		"ingest", conf.GetEnv("ENVIRONMENT"))
	Request = Logger(logrus.New(), conf.GetEnv("SUPPORTDESK_REQUEST_LOG"),
		"api", conf.GetEnv("ENVIRONMENT"))
}

func Logger(logger *logrus.Logger, outputFile string,
	application, environment string) logrus.FieldLogger {

	logger.SetFormatter(&logrus.JSONFormatter{})

	if outputFile != "" {
		if file, err := os.OpenFile(filepath.Clean(outputFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640); err == nil {
			logger.SetOutput(file)
		} else {
			logger.Infof("Failed to open output file %s. Will use stderr. %s",
				outputFile, err.Error())
		}
	}

	return logger.WithFields(logrus.Fields{
		"application": application,
		"environment": environment})
}
