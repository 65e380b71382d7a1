package commands

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestOSCommandRunCommandWithOutput is a function.
func TestOSCommandRunCommandWithOutput(t *testing.T) {
	type scenario struct {
		command string
		test    func(string, error)
	}

	scenarios := []scenario{
		{
			"echo -n '123'",
			func(output string, err error) {
				assert.NoError(t, err)
				assert.EqualValues(t, "123", output)
			},
		},
		{
			"rmdir unexisting-folder",
			func(output string, err error) {
				assert.Regexp(t, "rmdir.*unexisting-folder.*", err.Error())
			},
		},
	}

	for _, s := range scenarios {
		s.test(NewDummyOSCommand().RunCommandWithOutput(s.command))
	}
}

// TestOSCommandRunCommandPassthrough is a function.
func TestOSCommandRunCommandPassthrough(t *testing.T) {
	type scenario struct {
		command          string
		expectedExitCode int
		expectError      bool
	}

	scenarios := []scenario{
		{"true", 0, false},
		{"false", 1, true},
		{"sh -c 'exit 3'", 3, true},
	}

	for _, s := range scenarios {
		exitCode, err := NewDummyOSCommand().RunCommandPassthrough(s.command)
		assert.EqualValues(t, s.expectedExitCode, exitCode)
		if s.expectError {
			assert.Error(t, err)
		} else {
			assert.NoError(t, err)
		}
	}
}

// TestOSCommandInvokingUser is a function.
func TestOSCommandInvokingUser(t *testing.T) {
	type scenario struct {
		env              map[string]string
		expectedUID      int
		expectedGID      int
		expectProcessIDs bool
	}

	scenarios := []scenario{
		{
			map[string]string{"SUDO_UID": "1000", "SUDO_GID": "1000"},
			1000,
			1000,
			false,
		},
		{
			map[string]string{},
			0,
			0,
			true,
		},
		{
			map[string]string{"SUDO_UID": "banana"},
			0,
			0,
			true,
		},
	}

	for _, s := range scenarios {
		osCommand := NewDummyOSCommand()
		osCommand.SetGetenv(func(key string) string {
			return s.env[key]
		})

		uid, gid := osCommand.InvokingUser()
		if s.expectProcessIDs {
			assert.EqualValues(t, os.Getuid(), uid)
			assert.EqualValues(t, os.Getgid(), gid)
		} else {
			assert.EqualValues(t, s.expectedUID, uid)
			assert.EqualValues(t, s.expectedGID, gid)
		}
	}
}

// TestOSCommandFileType is a function.
func TestOSCommandFileType(t *testing.T) {
	dir := t.TempDir()
	assert.EqualValues(t, "directory", NewDummyOSCommand().FileType(dir))
	assert.EqualValues(t, "other", NewDummyOSCommand().FileType(dir+"/nope"))

	file, err := os.Create(dir + "/file")
	assert.NoError(t, err)
	file.Close()
	assert.EqualValues(t, "file", NewDummyOSCommand().FileType(dir+"/file"))
}
