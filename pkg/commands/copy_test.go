package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCopyOperation(t *testing.T) {
	tr := NewDummyTranslationSet()

	type scenario struct {
		testName   string
		args       []string
		archive    bool
		followLink bool
		test       func(*CopyOperation, error)
	}

	scenarios := []scenario{
		{
			"host to container",
			[]string{"/tmp/file", "syscont:/usr/bin"},
			false,
			false,
			func(op *CopyOperation, err error) {
				assert.NoError(t, err)
				assert.EqualValues(t, HostToContainer, op.Direction)
				assert.EqualValues(t, "syscont", op.ContainerName)
				assert.EqualValues(t, "/tmp/file", op.SrcPath)
				assert.EqualValues(t, "/usr/bin", op.DstPath)
			},
		},
		{
			"container to host",
			[]string{"syscont:/etc/hostname", "/tmp"},
			false,
			false,
			func(op *CopyOperation, err error) {
				assert.NoError(t, err)
				assert.EqualValues(t, ContainerToHost, op.Direction)
				assert.EqualValues(t, "syscont", op.ContainerName)
				assert.EqualValues(t, "/etc/hostname", op.SrcPath)
				assert.EqualValues(t, "/tmp", op.DstPath)
			},
		},
		{
			"both arguments carry a container marker",
			[]string{"a:/x", "b:/y"},
			false,
			false,
			func(op *CopyOperation, err error) {
				assert.True(t, HasErrorCode(err, UsageError))
			},
		},
		{
			"neither argument carries a container marker",
			[]string{"/tmp/a", "/tmp/b"},
			false,
			false,
			func(op *CopyOperation, err error) {
				assert.True(t, HasErrorCode(err, UsageError))
			},
		},
		{
			"an absolute path with a colon is still local",
			[]string{"/tmp/weird:name", "syscont:/x"},
			false,
			false,
			func(op *CopyOperation, err error) {
				assert.NoError(t, err)
				assert.EqualValues(t, HostToContainer, op.Direction)
				assert.EqualValues(t, "/tmp/weird:name", op.SrcPath)
			},
		},
		{
			"a relative path starting with dot is still local",
			[]string{"./odd:file", "syscont:/x"},
			false,
			false,
			func(op *CopyOperation, err error) {
				assert.NoError(t, err)
				assert.EqualValues(t, "syscont", op.ContainerName)
			},
		},
		{
			"wrong argument count",
			[]string{"syscont:/x"},
			false,
			false,
			func(op *CopyOperation, err error) {
				assert.True(t, HasErrorCode(err, UsageError))
			},
		},
		{
			"flags are recorded",
			[]string{"/tmp/file", "syscont:/x"},
			true,
			true,
			func(op *CopyOperation, err error) {
				assert.NoError(t, err)
				assert.EqualValues(t, "-a -L", op.Flags())
			},
		},
	}

	for _, s := range scenarios {
		t.Run(s.testName, func(t *testing.T) {
			s.test(ParseCopyOperation(s.args, s.archive, s.followLink, tr))
		})
	}
}

func TestLandingPath(t *testing.T) {
	type scenario struct {
		testName  string
		srcPath   string
		dstPath   string
		dstWasDir bool
		expected  string
	}

	scenarios := []scenario{
		{
			"trailing separator-dot keeps the source base name for a file",
			"/tmp/file",
			"/usr/bin/.",
			true,
			"/usr/bin/file",
		},
		{
			"trailing separator-dot keeps the source base name for a directory",
			"/tmp/tree",
			"/opt/.",
			true,
			"/opt/tree",
		},
		{
			"pre-existing directory destination",
			"/tmp/file",
			"/usr/bin",
			true,
			"/usr/bin/file",
		},
		{
			"plain destination is literal",
			"/tmp/file",
			"/usr/bin/renamed",
			false,
			"/usr/bin/renamed",
		},
		{
			"directory source copied to a fresh name stays literal",
			"/tmp/tree",
			"/tmp/newtree",
			false,
			"/tmp/newtree",
		},
	}

	for _, s := range scenarios {
		t.Run(s.testName, func(t *testing.T) {
			assert.EqualValues(t, s.expected, LandingPath(s.srcPath, s.dstPath, s.dstWasDir))
		})
	}
}
