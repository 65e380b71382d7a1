package rootfs

import (
	"os"
	"path/filepath"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
)

// MapFunc computes a path's new owner from its current one
type MapFunc func(uid, gid int) (int, int)

// OffsetMapping shifts owners by a constant delta; used after a copy into the
// container, where files land with container-internal (0-based) owners and
// must be moved up to the container's host-side ID range
func OffsetMapping(uidDelta, gidDelta int) MapFunc {
	return func(uid, gid int) (int, int) {
		return uid + uidDelta, gid + gidDelta
	}
}

// FlatMapping re-owns everything to a fixed owner regardless of the current
// one; used after a copy out of the container, where the invoking user, not
// the container's host-side base ID, should own the result
func FlatMapping(uid, gid int) MapFunc {
	return func(int, int) (int, int) {
		return uid, gid
	}
}

// Walker applies a MapFunc to a tree of paths. The filesystem primitives are
// fields so tests can inject fakes
type Walker struct {
	Log     *logrus.Entry
	lstat   func(string) (os.FileInfo, error)
	lchown  func(string, int, int) error
	readDir func(string) ([]os.DirEntry, error)
}

// NewWalker makes a new Walker over the real filesystem
func NewWalker(log *logrus.Entry) *Walker {
	return &Walker{
		Log:     log,
		lstat:   os.Lstat,
		lchown:  os.Lchown,
		readDir: os.ReadDir,
	}
}

// SetPrimitives overrides the filesystem primitives. To be used for testing only
func (w *Walker) SetPrimitives(
	lstat func(string) (os.FileInfo, error),
	lchown func(string, int, int) error,
	readDir func(string) ([]os.DirEntry, error),
) {
	w.lstat = lstat
	w.lchown = lchown
	w.readDir = readDir
}

// Reown sets the owner of root and everything under it to whatever mapFn
// returns for the current owner. Symlinks are re-owned as links, never
// followed. Entries that vanish between listing and processing are skipped;
// any other failure aborts the walk, since a partially-corrected tree is worth
// surfacing loudly. The traversal keeps its own stack, so arbitrarily deep
// trees don't exhaust the call stack
func (w *Walker) Reown(root string, mapFn MapFunc) error {
	stack := []string{root}

	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := w.lstat(path)
		if err != nil {
			if os.IsNotExist(err) {
				w.Log.Debug("skipping vanished path: " + path)
				continue
			}
			return errors.Wrap(err, 0)
		}

		stat, ok := info.Sys().(*syscall.Stat_t)
		if !ok {
			return errors.Errorf("cannot read numeric owner of %s", path)
		}

		newUID, newGID := mapFn(int(stat.Uid), int(stat.Gid))
		if err := w.lchown(path, newUID, newGID); err != nil {
			if os.IsNotExist(err) {
				w.Log.Debug("skipping vanished path: " + path)
				continue
			}
			return errors.Wrap(err, 0)
		}

		if info.IsDir() {
			entries, err := w.readDir(path)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return errors.Wrap(err, 0)
			}
			for _, entry := range entries {
				stack = append(stack, filepath.Join(path, entry.Name()))
			}
		}
	}

	return nil
}
