package log

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/liuwei8809/sysbox-docker-cp/pkg/config"
	"github.com/sirupsen/logrus"
)

// NewLogger returns a new logger
func NewLogger(config *config.AppConfig) *logrus.Entry {
	var log *logrus.Logger
	if config.Debug || os.Getenv("DEBUG") == "TRUE" {
		log = newDevelopmentLogger(config)

		// highly recommended: tail -f development.log | humanlog
		// https://github.com/aybabtme/humanlog
		log.Formatter = &logrus.JSONFormatter{}
	} else {
		log = newProductionLogger()
	}

	return log.WithFields(logrus.Fields{
		"debug":     config.Debug,
		"version":   config.Version,
		"commit":    config.Commit,
		"buildDate": config.BuildDate,
	})
}

func getLogLevel(configLevel string) logrus.Level {
	strLevel := os.Getenv("LOG_LEVEL")
	if strLevel == "" {
		strLevel = configLevel
	}
	level, err := logrus.ParseLevel(strLevel)
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

func newDevelopmentLogger(config *config.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(getLogLevel(config.UserConfig.Logs.LogLevel))
	file, err := os.OpenFile(filepath.Join(config.ConfigDir, "development.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		fmt.Println("unable to log to file")
		os.Exit(1)
	}
	log.SetOutput(file)
	return log
}

// the production logger writes to stderr so that warnings (e.g. an unmapped
// rootfs fallback) still reach the user of this short-lived CLI
func newProductionLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stderr
	log.SetLevel(logrus.WarnLevel)
	return log
}
