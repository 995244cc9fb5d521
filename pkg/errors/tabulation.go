package errors

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/matzehuels/tideman/pkg/ballot"
	"github.com/matzehuels/tideman/pkg/cache"
	"github.com/matzehuels/tideman/pkg/io"
)

// FromTabulation classifies an error returned by the ballot, io, tideman or
// cache packages. The cause is kept, so errors.As still finds the typed
// error underneath. An *Error is returned unchanged and nil maps to nil.
func FromTabulation(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	var (
		malformed *ballot.MalformedBallotError
		weight    *ballot.InvalidWeightError
	)
	switch {
	case errors.As(err, &malformed):
		return Wrap(ErrCodeInvalidBallot, err, "malformed ballot")
	case errors.As(err, &weight):
		return Wrap(ErrCodeInvalidWeight, err, "invalid ballot weight")
	case errors.Is(err, ballot.ErrEmptyElectorate):
		return Wrap(ErrCodeEmptyElectorate, err, "no ballots to tabulate")
	case errors.Is(err, io.ErrUnsupportedFormat):
		return Wrap(ErrCodeUnsupported, err, "unsupported format")
	case errors.Is(err, io.ErrInvalidDocument):
		return Wrap(ErrCodeInvalidFormat, err, "invalid ballot document")
	case errors.Is(err, os.ErrNotExist):
		return Wrap(ErrCodeFileNotFound, err, "file not found")
	case errors.Is(err, cache.ErrNetwork):
		return Wrap(ErrCodeNetwork, err, "cache unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return Wrap(ErrCodeInternal, err, "tabulation failed")
}

// HTTPStatus maps an error code to an HTTP status code.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidBallot, ErrCodeInvalidWeight, ErrCodeEmptyElectorate:
		return http.StatusUnprocessableEntity
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return http.StatusBadRequest
	case ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
