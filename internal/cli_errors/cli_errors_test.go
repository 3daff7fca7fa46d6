package clierrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serviceegy/contact-api/internal/mailer"
	"github.com/serviceegy/contact-api/internal/types"
)

func TestExitError(t *testing.T) {
	inner := errors.New("boom")
	err := ExitErrorWrap(types.ExitMisconfigured, inner)

	assert.Equal(t, "2: boom", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "3", ExitError{Code: 3}.Error())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, types.ExitNormal, ExitCode(nil))
	assert.Equal(t, types.ExitErrored, ExitCode(errors.New("boom")))
	assert.Equal(t, types.ExitMisconfigured, ExitCode(
		fmt.Errorf("outer: %w", ExitErrorWrap(types.ExitMisconfigured, errors.New("no creds"))),
	))
	assert.Equal(t, types.ExitDispatchFailed, ExitCode(
		fmt.Errorf("send: %w", &mailer.DispatchError{Kind: mailer.KindAuth}),
	))
}
