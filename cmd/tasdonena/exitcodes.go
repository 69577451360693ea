package main

import (
	"errors"

	"github.com/tasdonena/admin-console/pkg/apiclient"
	"github.com/tasdonena/admin-console/pkg/inflight"
	"github.com/tasdonena/admin-console/pkg/serrors"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitGeneric    = 1
	exitValidation = 2
	exitUsage      = 3
	exitAPI        = 4
	exitTransport  = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return classify(err)
}

func classify(err error) int {
	var verrs serrors.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return exitValidation
	case errors.Is(err, inflight.ErrCanceled), errors.Is(err, inflight.ErrNotConfirmed), errors.Is(err, errNeedsConfirmation):
		return exitUsage
	case apiclient.IsTransport(err):
		return exitTransport
	}
	if _, ok := apiclient.AsAPIError(err); ok {
		return exitAPI
	}
	return exitGeneric
}

// userError turns a service error into the message the console shows.
// firstError picks the blocking validation message; nil uses field order.
func userError(err error, firstError func(serrors.ValidationErrors) string, fallback string) error {
	if err == nil {
		return nil
	}
	var verrs serrors.ValidationErrors
	if errors.As(err, &verrs) {
		msg := verrs.First(nil)
		if firstError != nil {
			msg = firstError(verrs)
		}
		return withCode(exitValidation, errors.New(msg))
	}
	var ae *inflight.ActionError
	if errors.As(err, &ae) {
		return withCode(classify(ae.Err), errors.New(ae.Message))
	}
	code := classify(err)
	if code == exitAPI || code == exitTransport {
		return withCode(code, errors.New(apiclient.MessageOr(err, fallback)))
	}
	return withCode(code, err)
}
