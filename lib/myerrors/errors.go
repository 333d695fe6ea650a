package myerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type statusCarrier interface {
	error
	HTTPStatus() int
}

// statusError is an error that knows the HTTP status a handler answers it with.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status: %d, err: %s", e.status, e.err.Error())
}

func (e *statusError) Unwrap() error {
	return e.err
}

func (e *statusError) HTTPStatus() int {
	return e.status
}

func withStatus(status int, err error) *statusError {
	return &statusError{
		status: status,
		err:    err,
	}
}

func NewInvalidInputError(err error) error {
	return withStatus(http.StatusBadRequest, err)
}

func NewInvalidInputErrorf(format string, args ...any) error {
	return NewInvalidInputError(fmt.Errorf(format, args...))
}

func NewNotFoundError(err error) error {
	return withStatus(http.StatusNotFound, err)
}

// NewConflictError signals a request that is valid in itself but not in the current state of the resource.
func NewConflictError(err error) error {
	return withStatus(http.StatusConflict, err)
}

// NewUnprocessableError signals user input that was understood but rejected by validation.
func NewUnprocessableError(err error) error {
	return withStatus(http.StatusUnprocessableEntity, err)
}

func NewInternalError(err error) error {
	return withStatus(http.StatusInternalServerError, err)
}

func NewNotImplementedError(err error) error {
	return withStatus(http.StatusNotImplemented, err)
}

func NewUnavailableError(err error) error {
	return withStatus(http.StatusServiceUnavailable, err)
}

// Mapping ties a domain error to the status it is answered with.
type Mapping struct {
	Target error
	Status int
}

// Classify gives err the status of the first mapping that matches it with errors.Is.
// An error that already carries a status keeps it; anything unmapped becomes an internal error.
func Classify(err error, mappings ...Mapping) error {
	if err == nil {
		return nil
	}

	var carrier statusCarrier
	if errors.As(err, &carrier) {
		return err
	}

	for _, m := range mappings {
		if errors.Is(err, m.Target) {
			return withStatus(m.Status, err)
		}
	}
	return NewInternalError(err)
}

func GetHTTPStatus(err error) int {
	if err != nil {
		var carrier statusCarrier
		if errors.As(err, &carrier) {
			return carrier.HTTPStatus()
		}
	}
	return http.StatusInternalServerError
}
