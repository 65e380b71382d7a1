package app

import (
	"strings"

	"github.com/liuwei8809/sysbox-docker-cp/pkg/commands"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/config"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/i18n"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/log"
	"github.com/sirupsen/logrus"
)

// App struct
type App struct {
	Config        *config.AppConfig
	Log           *logrus.Entry
	OSCommand     *commands.OSCommand
	DockerCommand *commands.DockerCommand
	Copier        *Copier
	Tr            *i18n.TranslationSet
}

// NewApp bootstrap a new application
func NewApp(config *config.AppConfig) (*App, error) {
	app := &App{
		Config: config,
	}
	var err error
	app.Log = log.NewLogger(config)
	app.Tr, err = i18n.NewTranslationSetFromConfig(app.Log, config.UserConfig.Language)
	if err != nil {
		return app, err
	}
	app.OSCommand = commands.NewOSCommand(app.Log, config)

	app.DockerCommand, err = commands.NewDockerCommand(app.Log, app.OSCommand, app.Tr, app.Config)
	if err != nil {
		return app, err
	}
	app.Copier = NewCopier(app.Log, app.Tr, app.Config, app.OSCommand, app.DockerCommand)
	return app, nil
}

type errorMapping struct {
	originalError string
	newError      string
}

// KnownError takes an error and tells us whether it's an error that we know about where we can print a nicely formatted version of it rather than panicking with a stack trace
func (app *App) KnownError(err error) (string, bool) {
	errorMessage := err.Error()

	mappings := []errorMapping{
		{
			originalError: "Got permission denied while trying to connect to the Docker daemon socket",
			newError:      app.Tr.CannotAccessDockerSocketError,
		},
		{
			originalError: "Cannot connect to the Docker daemon",
			newError:      app.Tr.CannotAccessDockerSocketError,
		},
	}

	for _, mapping := range mappings {
		if strings.Contains(errorMessage, mapping.originalError) {
			return mapping.newError, true
		}
	}

	return "", false
}
