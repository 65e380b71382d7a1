package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newDummyDockerCommand() *DockerCommand {
	return &DockerCommand{
		Log:       NewDummyLog(),
		OSCommand: NewDummyOSCommand(),
		Tr:        NewDummyTranslationSet(),
		Config:    NewDummyAppConfig(),
	}
}

func TestVerifyRuntime(t *testing.T) {
	type scenario struct {
		testName string
		runtime  string
		test     func(error)
	}

	scenarios := []scenario{
		{
			"sysbox container",
			"sysbox-runc",
			func(err error) {
				assert.NoError(t, err)
			},
		},
		{
			"ordinary runc container",
			"runc",
			func(err error) {
				assert.True(t, HasErrorCode(err, PreconditionError))
				assert.Contains(t, err.Error(), "runc")
			},
		},
		{
			"no declared runtime",
			"",
			func(err error) {
				assert.True(t, HasErrorCode(err, PreconditionError))
			},
		},
	}

	for _, s := range scenarios {
		t.Run(s.testName, func(t *testing.T) {
			s.test(newDummyDockerCommand().VerifyRuntime(&Container{Runtime: s.runtime}))
		})
	}
}
