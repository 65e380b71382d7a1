package app

import (
	"testing"

	"github.com/go-errors/errors"
	"github.com/liuwei8809/sysbox-docker-cp/pkg/commands"
	"github.com/stretchr/testify/assert"
)

func TestKnownError(t *testing.T) {
	app := &App{Tr: commands.NewDummyTranslationSet()}

	type scenario struct {
		err           error
		expectedKnown bool
	}

	scenarios := []scenario{
		{
			errors.New("Got permission denied while trying to connect to the Docker daemon socket at unix:///var/run/docker.sock"),
			true,
		},
		{
			errors.New("Cannot connect to the Docker daemon at unix:///var/run/docker.sock"),
			true,
		},
		{
			errors.New("something else entirely"),
			false,
		},
	}

	for _, s := range scenarios {
		message, known := app.KnownError(s.err)
		assert.EqualValues(t, s.expectedKnown, known)
		if known {
			assert.NotEmpty(t, message)
		}
	}
}
