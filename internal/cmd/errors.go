package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/errors"
	"github.com/felixgeelhaar/pulsehr/internal/ux"
)

// PrintError writes err for a person reading the terminal.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", ux.EnhanceError(err))
}

// rejectedAs re-codes a 4xx reply from an auth endpoint. Those endpoints
// answer bad credentials with 400 or 401, which must not read as an
// expired session.
func rejectedAs(d *deps, err error, code errors.ErrorCode, fallback string) error {
	var apiErr *api.APIError
	if stderrors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		return errors.Wrap(code, api.UserMessage(err, fallback), err)
	}
	return d.coded(err)
}

// actionError keeps the server's message for a rejected mutation, the way
// the shell shows it in a toast.
func actionError(d *deps, err error, fallback string) error {
	var pe *errors.PulseError
	if stderrors.As(err, &pe) {
		return err
	}
	var apiErr *api.APIError
	if stderrors.As(err, &apiErr) && !api.IsUnauthorized(err) && apiErr.StatusCode < http.StatusInternalServerError {
		return errors.Wrap(errors.ErrCodeAPIRejected, api.UserMessage(err, fallback), err)
	}
	return d.coded(err)
}
