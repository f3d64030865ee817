package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pders01/nyhet/internal/api"
)

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// describeErr turns a request failure into a short status bar line.
func describeErr(err error) string {
	var statusErr *api.StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "Servern svarade inte i tid"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Servern svarade %d %s", statusErr.Code, http.StatusText(statusErr.Code))
	default:
		return err.Error()
	}
}
