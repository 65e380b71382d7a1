package rootfs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-errors/errors"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Strategy describes how a container's merged filesystem view is exposed on
// the host. Exactly one strategy applies to a container at a time
type Strategy int

const (
	// UsernsRemapped : the docker daemon runs with userns-remap, so the storage
	// driver's merged dir already shows host-meaningful owners
	UsernsRemapped Strategy = iota
	// Cloned : sysbox keeps a private overlayfs clone of the rootfs under its
	// data root; raw copies land there with container-internal owners
	Cloned
	// IdMapped : the kernel mounts overlayfs over an ID-mapped mount; raw
	// copies through the upper layer carry container-internal owners
	IdMapped
	// Shiftfs : the shiftfs module translates IDs transparently at the mount
	Shiftfs
	// Unmapped : none of the above could be determined; owners will show as
	// the overflow uid/gid and we leave them alone
	Unmapped
)

func (s Strategy) String() string {
	switch s {
	case UsernsRemapped:
		return "userns-remapped"
	case Cloned:
		return "cloned"
	case IdMapped:
		return "id-mapped"
	case Shiftfs:
		return "shiftfs"
	}
	return "unmapped"
}

// NeedsOwnershipFixup reports whether a raw copy through this strategy writes
// container-internal numeric owners onto a host path with no kernel-level ID
// translation, requiring a manual shift afterwards
func (s Strategy) NeedsOwnershipFixup() bool {
	return s == Cloned || s == IdMapped
}

// ContainerLayout is the subset of container state the classifier needs
type ContainerLayout struct {
	ID        string
	MergedDir string
	UpperDir  string
}

// Resolution pairs the selected strategy with the host path under which the
// container's files are visible for that strategy
type Resolution struct {
	Strategy Strategy
	Root     string
}

// kernel 5.19 is the first able to mount overlayfs on top of ID-mapped
// mounts, which is what sysbox uses in lieu of shiftfs
const (
	idMappedMountsMajor = 5
	idMappedMountsMinor = 19
)

// Resolver classifies a container's rootfs-exposure strategy. The probes are
// fields so tests can inject fixed answers
type Resolver struct {
	Log            *logrus.Entry
	SysboxDataRoot string

	usernsRemap   func(context.Context) (bool, error)
	dirExists     func(string) bool
	kernelRelease func() (string, error)
	shiftfsLoaded func() (bool, error)
}

// NewResolver makes a new Resolver. usernsRemap asks the docker daemon whether
// it runs in userns-remap mode
func NewResolver(log *logrus.Entry, sysboxDataRoot string, usernsRemap func(context.Context) (bool, error)) *Resolver {
	return &Resolver{
		Log:            log,
		SysboxDataRoot: sysboxDataRoot,
		usernsRemap:    usernsRemap,
		dirExists:      dirExists,
		kernelRelease:  kernelRelease,
		shiftfsLoaded:  shiftfsLoaded,
	}
}

// Resolve picks the container's strategy. First match wins, in this fixed
// order: userns-remap, cloned rootfs on disk, ID-mapped-mount kernel, shiftfs,
// unmapped fallback
func (r *Resolver) Resolve(ctx context.Context, container ContainerLayout) (Resolution, error) {
	remapped, err := r.usernsRemap(ctx)
	if err != nil {
		return Resolution{}, err
	}
	if remapped {
		return Resolution{Strategy: UsernsRemapped, Root: container.MergedDir}, nil
	}

	clonePath := filepath.Join(r.SysboxDataRoot, "rootfs", container.ID)
	if r.dirExists(clonePath) {
		return Resolution{
			Strategy: Cloned,
			Root:     filepath.Join(clonePath, "overlay2", "merged"),
		}, nil
	}

	release, err := r.kernelRelease()
	if err != nil {
		return Resolution{}, err
	}
	if kernelAtLeast(release, idMappedMountsMajor, idMappedMountsMinor) {
		return Resolution{Strategy: IdMapped, Root: container.UpperDir}, nil
	}

	loaded, err := r.shiftfsLoaded()
	if err != nil {
		return Resolution{}, err
	}
	if loaded {
		return Resolution{Strategy: Shiftfs, Root: container.MergedDir}, nil
	}

	r.Log.Warn("could not determine the container's rootfs ID mapping strategy")
	return Resolution{Strategy: Unmapped, Root: container.MergedDir}, nil
}

// SetProbes overrides the classifier probes. To be used for testing only
func (r *Resolver) SetProbes(
	dirExists func(string) bool,
	kernelRelease func() (string, error),
	shiftfsLoaded func() (bool, error),
) {
	r.dirExists = dirExists
	r.kernelRelease = kernelRelease
	r.shiftfsLoaded = shiftfsLoaded
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func kernelRelease() (string, error) {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return "", errors.Wrap(err, 0)
	}

	return unix.ByteSliceToString(uname.Release[:]), nil
}

// kernelAtLeast parses the leading major.minor of a kernel release string like
// "5.19.0-45-generic" and compares it against the wanted version
func kernelAtLeast(release string, major, minor int) bool {
	fields := strings.SplitN(release, ".", 3)
	if len(fields) < 2 {
		return false
	}

	parsedMajor, err := strconv.Atoi(fields[0])
	if err != nil {
		return false
	}
	// the minor may carry a trailing suffix like "19-rc2"
	minorField := strings.FieldsFunc(fields[1], func(r rune) bool {
		return r < '0' || r > '9'
	})
	if len(minorField) == 0 {
		return false
	}
	parsedMinor, err := strconv.Atoi(minorField[0])
	if err != nil {
		return false
	}

	if parsedMajor != major {
		return parsedMajor > major
	}
	return parsedMinor >= minor
}

func shiftfsLoaded() (bool, error) {
	content, err := os.ReadFile("/proc/filesystems")
	if err != nil {
		return false, errors.Wrap(err, 0)
	}

	for _, line := range utils.SplitLines(string(content)) {
		if strings.TrimSpace(strings.TrimPrefix(line, "nodev")) == "shiftfs" {
			return true, nil
		}
	}
	return false, nil
}
