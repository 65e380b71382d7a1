package commands

import (
	"github.com/docker/docker/api/types/container"
)

// Container : a running docker container, resolved once per invocation
type Container struct {
	Name string
	ID   string

	// Pid is the container init process's pid in the host pid namespace; its
	// /proc/<pid>/uid_map and gid_map carry the container's ID mapping
	Pid int

	// Runtime is the container's declared runtime, e.g. "sysbox-runc"
	Runtime string

	// MergedDir and UpperDir are the storage driver's merged-view and
	// upper-layer directories for the container's rootfs
	MergedDir string
	UpperDir  string

	Details container.InspectResponse
}

// IsRunning tells us whether the container's init process is alive; a stopped
// container has no pid and therefore no namespace mapping files to read
func (c *Container) IsRunning() bool {
	return c.Details.ContainerJSONBase != nil &&
		c.Details.State != nil && c.Details.State.Running && c.Pid > 0
}
