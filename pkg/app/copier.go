package app

import (
	"context"
	"path/filepath"

	"github.com/liuwei8809/sysbox-docker-cp/pkg/commands"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/config"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/i18n"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/idmap"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/rootfs"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Copier drives one copy invocation end to end: resolve the container, check
// the preconditions, run the raw docker cp, then fix up ownership on the
// copied tree when the container's rootfs strategy calls for it
type Copier struct {
	Log           *logrus.Entry
	Tr            *i18n.TranslationSet
	Config        *config.AppConfig
	OSCommand     *commands.OSCommand
	DockerCommand *commands.DockerCommand
	Resolver      *rootfs.Resolver
	Walker        *rootfs.Walker

	// injectable for tests
	getContainer   func(context.Context, string) (*commands.Container, error)
	runCopy        func(string) (int, error)
	mappingsForPid func(int) (*idmap.Set, error)
	readableDir    func(string) bool
	isDir          func(string) bool
	invokingUser   func() (int, int)
}

// NewCopier makes a new Copier
func NewCopier(log *logrus.Entry, tr *i18n.TranslationSet, appConfig *config.AppConfig, osCommand *commands.OSCommand, dockerCommand *commands.DockerCommand) *Copier {
	copier := &Copier{
		Log:           log,
		Tr:            tr,
		Config:        appConfig,
		OSCommand:     osCommand,
		DockerCommand: dockerCommand,
		Resolver:      rootfs.NewResolver(log, appConfig.UserConfig.SysboxDataRoot, dockerCommand.UsernsRemapEnabled),
		Walker:        rootfs.NewWalker(log),
	}

	copier.getContainer = dockerCommand.GetContainer
	copier.runCopy = osCommand.RunCommandPassthrough
	copier.mappingsForPid = idmap.ForProcess
	copier.readableDir = readableDir
	copier.isDir = func(path string) bool { return osCommand.FileType(path) == "directory" }
	copier.invokingUser = osCommand.InvokingUser

	return copier
}

// Run performs the copy operation. The returned int is the process exit code;
// a failing docker cp's own exit code is surfaced unchanged
func (c *Copier) Run(ctx context.Context, op *commands.CopyOperation) (int, error) {
	container, err := c.getContainer(ctx, op.ContainerName)
	if err != nil {
		return 1, err
	}

	if err := c.DockerCommand.VerifyRuntime(container); err != nil {
		return 1, err
	}

	resolution, err := c.Resolver.Resolve(ctx, rootfs.ContainerLayout{
		ID:        container.ID,
		MergedDir: container.MergedDir,
		UpperDir:  container.UpperDir,
	})
	if err != nil {
		return 1, err
	}

	c.Log.Infof("container %s rootfs strategy: %s (root %s)", container.Name, resolution.Strategy, resolution.Root)

	if op.Direction == commands.HostToContainer && resolution.Strategy.NeedsOwnershipFixup() {
		if !c.readableDir(resolution.Root) {
			return 1, commands.NewComplexError(commands.PreconditionError, c.Tr.CannotAccessRootfsError)
		}
	}

	if resolution.Strategy.NeedsOwnershipFixup() && !container.IsRunning() {
		return 1, commands.NewComplexError(commands.PreconditionError, c.Tr.ContainerNotRunningError)
	}

	// sampled before the copy: afterwards the destination may have become a
	// directory by virtue of the copy itself
	var dstWasDir bool
	if op.Direction == commands.HostToContainer {
		dstWasDir = c.isDir(filepath.Join(resolution.Root, op.DstPath))
	} else {
		dstWasDir = c.isDir(op.DstPath)
	}

	command := utils.ApplyTemplate(c.Config.UserConfig.CommandTemplates.DockerCp, struct {
		Flags string
		Src   string
		Dst   string
	}{op.Flags(), op.RawSrc, op.RawDst})

	if exitCode, err := c.runCopy(command); exitCode != 0 {
		message := c.Tr.CopyFailedError
		if err != nil {
			message += ": " + err.Error()
		}
		return exitCode, commands.NewComplexError(commands.CopyError, message)
	}

	if resolution.Strategy == rootfs.Unmapped {
		c.Log.Warn(c.Tr.UnmappedRootfsWarning)
		return 0, nil
	}

	if !resolution.Strategy.NeedsOwnershipFixup() {
		return 0, nil
	}

	if err := c.correctOwnership(op, container, resolution, dstWasDir); err != nil {
		return 1, commands.NewComplexError(commands.CorrectionError, c.Tr.OwnershipFixupFailedError+": "+err.Error())
	}

	return 0, nil
}

// correctOwnership applies exactly one of two correction strategies over the
// shared walk. Into the container the copied files carry container-internal
// (0-based) owners, so they are shifted up by the container's host-side base
// IDs. Out of the container the raw copy already wrote host-side base owners,
// and what we actually want is for the invoking user to own the result, so
// the tree is flat re-owned instead
func (c *Copier) correctOwnership(op *commands.CopyOperation, container *commands.Container, resolution rootfs.Resolution, dstWasDir bool) error {
	if op.Direction == commands.HostToContainer {
		mappings, err := c.mappingsForPid(container.Pid)
		if err != nil {
			return err
		}

		// an identity mapping means the container isn't in a user namespace
		// after all; there is nothing to shift
		if mappings.Identity() {
			c.Log.Warn("container has an identity ID mapping; skipping the ownership shift")
			return nil
		}

		hostUID, hostGID, err := mappings.HostBase()
		if err != nil {
			return err
		}

		landing := commands.LandingPath(op.SrcPath, op.DstPath, dstWasDir)
		corrected := filepath.Join(resolution.Root, landing)

		c.Log.Infof("shifting owners under %s by (+%d, +%d)", corrected, hostUID, hostGID)
		return c.Walker.Reown(corrected, rootfs.OffsetMapping(int(hostUID), int(hostGID)))
	}

	uid, gid := c.invokingUser()
	corrected := commands.LandingPath(op.SrcPath, op.DstPath, dstWasDir)

	c.Log.Infof("re-owning %s to (%d, %d)", corrected, uid, gid)
	return c.Walker.Reown(corrected, rootfs.FlatMapping(uid, gid))
}

func readableDir(path string) bool {
	return unix.Access(path, unix.R_OK|unix.X_OK) == nil
}
