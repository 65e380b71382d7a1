package commands

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/go-errors/errors"

	"github.com/jesseduffield/kill"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/config"
	"github.com/mgutz/str"
	"github.com/sirupsen/logrus"
)

// Platform stores the os state
type Platform struct {
	os       string
	shell    string
	shellArg string
}

// OSCommand holds all the os commands
type OSCommand struct {
	Log      *logrus.Entry
	Platform *Platform
	Config   *config.AppConfig
	command  func(string, ...string) *exec.Cmd
	getenv   func(string) string
}

// NewOSCommand os command runner
func NewOSCommand(log *logrus.Entry, config *config.AppConfig) *OSCommand {
	return &OSCommand{
		Log:      log,
		Platform: getPlatform(),
		Config:   config,
		command:  exec.Command,
		getenv:   os.Getenv,
	}
}

func getPlatform() *Platform {
	return &Platform{
		os:       runtime.GOOS,
		shell:    "bash",
		shellArg: "-c",
	}
}

// SetCommand sets the command function used by the struct.
// To be used for testing only
func (c *OSCommand) SetCommand(cmd func(string, ...string) *exec.Cmd) {
	c.command = cmd
}

// SetGetenv sets the env lookup function used by the struct.
// To be used for testing only
func (c *OSCommand) SetGetenv(getenv func(string) string) {
	c.getenv = getenv
}

// RunCommandWithOutput wrapper around commands returning their output and error
func (c *OSCommand) RunCommandWithOutput(command string) (string, error) {
	cmd := c.ExecutableFromString(command)
	before := time.Now()
	output, err := sanitisedCommandOutput(cmd.Output())
	c.Log.Info(fmt.Sprintf("'%s': %s", command, time.Since(before)))
	return output, err
}

// RunCommand runs a command and just returns the error
func (c *OSCommand) RunCommand(command string) error {
	_, err := c.RunCommandWithOutput(command)
	return err
}

// RunCommandPassthrough runs a command with the invoking process's stdio
// attached, so that whatever the child prints reaches the user directly, and
// returns the child's exit code alongside any error
func (c *OSCommand) RunCommandPassthrough(command string) (int, error) {
	cmd := c.ExecutableFromString(command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	c.PrepareForChildren(cmd)

	before := time.Now()
	if err := cmd.Start(); err != nil {
		return 1, WrapError(err)
	}

	// relay an interrupt to the child's process group so a half-finished
	// docker cp doesn't outlive us
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var err error
	select {
	case <-sigCh:
		_ = c.Kill(cmd)
		err = <-done
	case err = <-done:
	}
	c.Log.Info(fmt.Sprintf("'%s': %s", command, time.Since(before)))

	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return exitError.ExitCode(), WrapError(err)
		}
		return 1, WrapError(err)
	}
	return 0, nil
}

// ExecutableFromString takes a string like `docker cp src dst` and returns an executable command for it
func (c *OSCommand) ExecutableFromString(commandStr string) *exec.Cmd {
	splitCmd := str.ToArgv(commandStr)
	return c.NewCmd(splitCmd[0], splitCmd[1:]...)
}

func (c *OSCommand) NewCmd(cmdName string, commandArgs ...string) *exec.Cmd {
	cmd := c.command(cmdName, commandArgs...)
	cmd.Env = os.Environ()
	return cmd
}

// FileType tells us if the file is a file, directory or other
func (c *OSCommand) FileType(path string) string {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return "other"
	}
	if fileInfo.IsDir() {
		return "directory"
	}
	return "file"
}

// InvokingUser returns the uid and gid of the real invoking user. When the
// tool runs under sudo the process's own ids are root's, so we honour
// SUDO_UID/SUDO_GID to find who actually asked for the copy
func (c *OSCommand) InvokingUser() (int, int) {
	uid := os.Getuid()
	gid := os.Getgid()

	if sudoUID := c.getenv("SUDO_UID"); sudoUID != "" {
		if parsed, err := strconv.Atoi(sudoUID); err == nil {
			uid = parsed
		}
	}
	if sudoGID := c.getenv("SUDO_GID"); sudoGID != "" {
		if parsed, err := strconv.Atoi(sudoGID); err == nil {
			gid = parsed
		}
	}

	return uid, gid
}

func sanitisedCommandOutput(output []byte, err error) (string, error) {
	outputString := string(output)
	if err != nil {
		// errors like 'exit status 1' are not very useful so we'll create an error
		// from stderr if we got an ExitError
		exitError, ok := err.(*exec.ExitError)
		if ok {
			return outputString, errors.New(string(exitError.Stderr))
		}
		return "", WrapError(err)
	}
	return outputString, nil
}

// Kill kills a process. If the process has Setpgid == true, then we have anticipated that it might spawn its own child processes, so we've given it a process group ID (PGID) equal to its process id (PID) and given its child processes will inherit the PGID, we can kill that group, rather than killing the process itself.
func (c *OSCommand) Kill(cmd *exec.Cmd) error {
	return kill.Kill(cmd)
}

// PrepareForChildren sets Setpgid to true on the cmd, so that when we run it as a subprocess, we can kill its group rather than the process itself. This is because some commands, like `docker cp` towards a daemon, spawn their own children, and killing the parent process isn't sufficient for killing those child processes.
func (c *OSCommand) PrepareForChildren(cmd *exec.Cmd) {
	kill.PrepareForChildren(cmd)
}
