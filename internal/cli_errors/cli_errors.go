package clierrors

import (
	"errors"
	"fmt"

	"github.com/serviceegy/contact-api/internal/mailer"
	"github.com/serviceegy/contact-api/internal/types"
)

// Carries an exit code along with an error so the app can exit correctly
type ExitError struct {
	Err  error
	Code int
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%d", e.Code)
	}

	return fmt.Sprintf("%d: %s", e.Code, e.Err.Error())
}

func (e ExitError) Unwrap() error {
	return e.Err
}

// Wrap an error with an exit code
func ExitErrorWrap(code int, err error) error {
	return ExitError{Code: code, Err: err}
}

// Exit code for err: its own code when it carries one, ExitDispatchFailed for mail relay failures,
// ExitErrored otherwise
func ExitCode(err error) int {
	if err == nil {
		return types.ExitNormal
	}

	var ee ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}

	var de *mailer.DispatchError
	if errors.As(err, &de) {
		return types.ExitDispatchFailed
	}

	return types.ExitErrored
}
