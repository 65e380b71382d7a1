package commands

import (
	"context"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/config"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/i18n"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// DockerCommand is our main docker interface
type DockerCommand struct {
	Log       *logrus.Entry
	OSCommand *OSCommand
	Tr        *i18n.TranslationSet
	Config    *config.AppConfig
	Client    *client.Client
}

// NewDockerCommand it runs docker commands
func NewDockerCommand(log *logrus.Entry, osCommand *OSCommand, tr *i18n.TranslationSet, config *config.AppConfig) (*DockerCommand, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, WrapError(err)
	}

	return &DockerCommand{
		Log:       log,
		OSCommand: osCommand,
		Tr:        tr,
		Config:    config,
		Client:    cli,
	}, nil
}

// GetContainer resolves a container by name or ID
func (c *DockerCommand) GetContainer(ctx context.Context, name string) (*Container, error) {
	details, err := c.Client.ContainerInspect(ctx, name)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil, NewComplexError(PreconditionError, c.Tr.ContainerNotFoundError+": "+name)
		}
		return nil, WrapError(err)
	}

	c.Log.Debug(spew.Sdump(details))

	container := &Container{
		Details: details,
	}

	if details.ContainerJSONBase != nil {
		container.Name = strings.TrimLeft(details.Name, "/")
		container.ID = details.ID
		if details.State != nil {
			container.Pid = details.State.Pid
		}
		if details.HostConfig != nil {
			container.Runtime = details.HostConfig.Runtime
		}
		container.MergedDir = details.GraphDriver.Data["MergedDir"]
		container.UpperDir = details.GraphDriver.Data["UpperDir"]
	}

	return container, nil
}

// VerifyRuntime fails fast when the container is not managed by the runtime we
// expect; fixing up ownership on an ordinary runc container would corrupt it
func (c *DockerCommand) VerifyRuntime(container *Container) error {
	expected := c.Config.UserConfig.Runtime
	if container.Runtime != expected {
		return NewComplexError(
			PreconditionError,
			c.Tr.NotASysboxContainerError+" (runtime is '"+container.Runtime+"', expected '"+expected+"')",
		)
	}
	return nil
}

// UsernsRemapEnabled tells us whether the docker daemon itself runs with
// userns-remap, in which case the storage driver already presents
// correctly-owned files on the host
func (c *DockerCommand) UsernsRemapEnabled(ctx context.Context) (bool, error) {
	info, err := c.Client.Info(ctx)
	if err != nil {
		return false, WrapError(err)
	}

	return lo.ContainsBy(info.SecurityOptions, func(opt string) bool {
		return strings.Contains(opt, "name=userns")
	}), nil
}
