package inflight

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tasdonena/admin-console/pkg/apiclient"
)

var (
	ErrCanceled     = errors.New("action canceled")
	ErrNotConfirmed = errors.New("confirmation text does not match")
)

// Prompt describes the confirmation step shown before an action runs.
type Prompt struct {
	Title string
	Text  string
	// InputLabel asks for free text such as remarks or a reason.
	InputLabel string
	// RequireWord, when set, must be typed exactly for the action to proceed.
	RequireWord string
}

type Confirmation struct {
	Confirmed bool
	Input     string
}

type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (Confirmation, error)
}

// AutoConfirm accepts every prompt with a fixed input.
type AutoConfirm struct {
	Input string
}

func (a AutoConfirm) Confirm(ctx context.Context, p Prompt) (Confirmation, error) {
	return Confirmation{Confirmed: true, Input: a.Input}, nil
}

type Action struct {
	Name     string
	EntityID string
	Prompt   *Prompt
	// Call performs the API request with the captured confirmation input.
	Call func(ctx context.Context, input string) error
	// Refresh reloads the owning collection after a successful call.
	Refresh        func(ctx context.Context) error
	SuccessMessage string
	FailureMessage string
}

type Outcome struct {
	Message    string
	Input      string
	RefreshErr error
}

// ActionError carries the user-facing message for a failed action.
type ActionError struct {
	Action  string
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

type Runner struct {
	tracker   *Tracker
	confirmer Confirmer
	log       *logrus.Logger
}

func NewRunner(tracker *Tracker, confirmer Confirmer, log *logrus.Logger) *Runner {
	if confirmer == nil {
		confirmer = AutoConfirm{}
	}
	return &Runner{tracker: tracker, confirmer: confirmer, log: log}
}

func (r *Runner) Tracker() *Tracker { return r.tracker }

// Run executes confirm, busy, call and refresh in order. A failed refresh
// does not fail the action; it is reported on the outcome.
func (r *Runner) Run(ctx context.Context, a Action) (Outcome, error) {
	input := ""
	if a.Prompt != nil {
		conf, err := r.confirmer.Confirm(ctx, *a.Prompt)
		if err != nil {
			return Outcome{}, fmt.Errorf("%s: confirm: %w", a.Name, err)
		}
		if !conf.Confirmed {
			return Outcome{}, ErrCanceled
		}
		if a.Prompt.RequireWord != "" && conf.Input != a.Prompt.RequireWord {
			return Outcome{}, ErrNotConfirmed
		}
		input = conf.Input
	}

	release, err := r.tracker.Acquire(a.EntityID)
	if err != nil {
		return Outcome{}, err
	}
	callErr := a.Call(ctx, input)
	release()

	if callErr != nil {
		msg := apiclient.MessageOr(callErr, a.FailureMessage)
		if r.log != nil {
			r.log.WithError(callErr).Warnf("%s %s failed", a.Name, a.EntityID)
		}
		return Outcome{Input: input}, &ActionError{Action: a.Name, Message: msg, Err: callErr}
	}

	out := Outcome{Message: a.SuccessMessage, Input: input}
	if a.Refresh != nil {
		out.RefreshErr = a.Refresh(ctx)
	}
	if r.log != nil {
		r.log.Infof("%s %s succeeded", a.Name, a.EntityID)
	}
	return out, nil
}
