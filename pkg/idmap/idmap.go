package idmap

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-errors/errors"
)

// Mapping is one row of a process's /proc/<pid>/uid_map or gid_map
type Mapping struct {
	// ContainerID is the starting ID in the user namespace
	ContainerID uint32
	// HostID is the starting ID outside of the user namespace
	HostID uint32
	// Size is the number of IDs that can be mapped on top of ContainerID
	Size uint32
}

// Set is the container's UID and GID translation pair, read once from the
// container init process's namespace mapping files
type Set struct {
	UID []Mapping
	GID []Mapping
}

// ForProcess reads the UID and GID mappings of the given process.
func ForProcess(pid int) (*Set, error) {
	uid, err := parseFile(fmt.Sprintf("/proc/%d/uid_map", pid))
	if err != nil {
		return nil, err
	}

	gid, err := parseFile(fmt.Sprintf("/proc/%d/gid_map", pid))
	if err != nil {
		return nil, err
	}

	return &Set{UID: uid, GID: gid}, nil
}

// HostBase returns the host-side base (UID, GID) that container-side ID 0 maps
// to. Only the first row of each table is honoured: sysbox containers carry a
// single contiguous mapping, and multi-range mappings are unsupported here.
func (s *Set) HostBase() (uint32, uint32, error) {
	if len(s.UID) == 0 || len(s.GID) == 0 {
		return 0, 0, errors.New("process has no UID/GID mappings")
	}

	return s.UID[0].HostID, s.GID[0].HostID, nil
}

// Identity tells us whether the mapping is the identity mapping of a process
// that lives in the initial user namespace
func (s *Set) Identity() bool {
	return len(s.UID) == 1 &&
		s.UID[0].ContainerID == 0 && s.UID[0].HostID == 0 && s.UID[0].Size == 4294967295
}

func parseFile(path string) ([]Mapping, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	return parse(string(content))
}

func parse(content string) ([]Mapping, error) {
	mappings := []Mapping{}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, errors.Errorf("malformed id mapping line: %q", line)
		}

		values := make([]uint32, 3)
		for i, field := range fields {
			v, err := strconv.ParseUint(field, 10, 32)
			if err != nil {
				return nil, errors.Errorf("malformed id in mapping line %q: %s", line, err)
			}
			values[i] = uint32(v)
		}

		mappings = append(mappings, Mapping{
			ContainerID: values[0],
			HostID:      values[1],
			Size:        values[2],
		})
	}

	return mappings, nil
}
