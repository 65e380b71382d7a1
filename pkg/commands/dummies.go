package commands

import (
	"io"

	"github.com/liuwei8809/sysbox-docker-cp/pkg/config"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/i18n"
	"github.com/sirupsen/logrus"
)

// This file exports dummy constructors for use by tests in other packages

// NewDummyOSCommand creates a new dummy OSCommand for testing
func NewDummyOSCommand() *OSCommand {
	return NewOSCommand(NewDummyLog(), NewDummyAppConfig())
}

// NewDummyAppConfig creates a new dummy AppConfig for testing
func NewDummyAppConfig() *config.AppConfig {
	userConfig := config.GetDefaultConfig()
	appConfig := &config.AppConfig{
		Name:        "sysbox-docker-cp",
		Version:     "unversioned",
		Commit:      "",
		BuildDate:   "",
		Debug:       false,
		BuildSource: "",
		UserConfig:  &userConfig,
	}
	return appConfig
}

// NewDummyLog creates a new dummy Log for testing
func NewDummyLog() *logrus.Entry {
	log := logrus.New()
	log.Out = io.Discard
	return log.WithField("test", "test")
}

// NewDummyTranslationSet creates a new dummy TranslationSet for testing
func NewDummyTranslationSet() *i18n.TranslationSet {
	return i18n.NewTranslationSet(NewDummyLog(), i18n.EN)
}
