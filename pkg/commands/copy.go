package commands

import (
	"path/filepath"
	"strings"

	"github.com/liuwei8809/sysbox-docker-cp/pkg/i18n"
)

// CopyDirection tells us which side of the copy is the container
type CopyDirection int

const (
	// HostToContainer : SRC is a host path, DST is CONTAINER:PATH
	HostToContainer CopyDirection = iota
	// ContainerToHost : SRC is CONTAINER:PATH, DST is a host path
	ContainerToHost
)

// CopyOperation is one docker-cp invocation: a direction, a container, the
// two paths as the user gave them, and the flags passed through to docker cp
type CopyOperation struct {
	Direction     CopyDirection
	ContainerName string

	// SrcPath and DstPath have the container marker stripped; RawSrc and
	// RawDst are the arguments exactly as given, for handing to docker cp
	SrcPath string
	DstPath string
	RawSrc  string
	RawDst  string

	Archive    bool
	FollowLink bool
}

// ParseCopyOperation validates the positional arguments. Exactly one of the
// two must carry the CONTAINER:PATH marker
func ParseCopyOperation(args []string, archive, followLink bool, tr *i18n.TranslationSet) (*CopyOperation, error) {
	if len(args) != 2 {
		return nil, NewComplexError(UsageError, tr.NotEnoughArgumentsError)
	}

	srcContainer, srcPath := splitContainerArg(args[0])
	dstContainer, dstPath := splitContainerArg(args[1])

	if srcContainer != "" && dstContainer != "" {
		return nil, NewComplexError(UsageError, tr.AmbiguousContainerMarkerError)
	}
	if srcContainer == "" && dstContainer == "" {
		return nil, NewComplexError(UsageError, tr.MissingContainerMarkerError)
	}

	op := &CopyOperation{
		SrcPath:    srcPath,
		DstPath:    dstPath,
		RawSrc:     args[0],
		RawDst:     args[1],
		Archive:    archive,
		FollowLink: followLink,
	}

	if srcContainer != "" {
		op.Direction = ContainerToHost
		op.ContainerName = srcContainer
	} else {
		op.Direction = HostToContainer
		op.ContainerName = dstContainer
	}

	return op, nil
}

// splitContainerArg splits an argument into a container name and a path,
// following docker cp's own rule: an absolute path, or one starting with '.',
// is always local, no matter how many colons it contains
func splitContainerArg(arg string) (container, path string) {
	if filepath.IsAbs(arg) || strings.HasPrefix(arg, ".") {
		return "", arg
	}

	parts := strings.SplitN(arg, ":", 2)
	if len(parts) == 1 {
		return "", arg
	}
	return parts[0], parts[1]
}

// Flags renders the pass-through docker cp flags
func (op *CopyOperation) Flags() string {
	flags := []string{}
	if op.Archive {
		flags = append(flags, "-a")
	}
	if op.FollowLink {
		flags = append(flags, "-L")
	}
	return strings.Join(flags, " ")
}

// LandingPath computes where docker cp actually places the copied entry, which
// is what the ownership fix-up must walk. A destination ending in the
// path-separator-dot convention, or naming a pre-existing directory, receives
// the source under the source's own base name; otherwise the destination is
// taken literally. dstWasDir must be sampled before the copy runs: afterwards
// a directory source copied to a fresh name makes the destination a directory
// too, which would wrongly select the place-inside rule
func LandingPath(srcPath, dstPath string, dstWasDir bool) string {
	if strings.HasSuffix(dstPath, string(filepath.Separator)+".") {
		return filepath.Join(strings.TrimSuffix(dstPath, "."), filepath.Base(srcPath))
	}
	if dstWasDir {
		return filepath.Join(dstPath, filepath.Base(srcPath))
	}
	return filepath.Clean(dstPath)
}
