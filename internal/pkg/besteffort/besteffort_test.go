package besteffort

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRunSwallowsError(t *testing.T) {
	ran := false
	assert.NotPanics(t, func() {
		Run(zerolog.Nop(), "send email", func() error {
			ran = true
			return errors.New("smtp down")
		})
	})
	assert.True(t, ran)
}

func TestRunSwallowsPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Run(zerolog.Nop(), "send email", func() error {
			panic("mailer blew up")
		})
	})
}

func TestRunSuccess(t *testing.T) {
	ran := false
	Run(zerolog.Nop(), "send email", func() error {
		ran = true
		return nil
	})
	assert.True(t, ran)
}
