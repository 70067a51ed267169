// Package form owns the state of one intake-form session: the current
// input, field errors, the in-flight gate and the last outcome.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Skufu/strokerisk/internal/patient"
	"github.com/Skufu/strokerisk/internal/prediction"
	"github.com/Skufu/strokerisk/internal/validation"
)

// FailureMessage is shown for every remote failure.
const FailureMessage = "Failed to generate prediction. Please try again."

// ErrSubmissionInFlight is returned when Submit is called while a previous
// prediction has not settled.
var ErrSubmissionInFlight = errors.New("a prediction is already in progress")

// ErrPredictorPanic wraps a panic raised by the predictor.
var ErrPredictorPanic = errors.New("predictor panicked")

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSettled    State = "settled"
)

// ValidationError reports the fields that kept the form from submitting.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	return e.Errors.Summary()
}

// Snapshot is a copy of the controller state safe to hand to a view.
type Snapshot struct {
	State       State             `json:"state"`
	Input       patient.Input     `json:"input"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Message     string            `json:"message,omitempty"`
	Result      *patient.Result   `json:"result,omitempty"`
}

// Succeeded reports whether the last submission settled with a result.
func (s Snapshot) Succeeded() bool {
	return s.State == StateSettled && s.Result != nil
}

// Controller runs the Idle -> Submitting -> Settled cycle for one session.
type Controller struct {
	predictor prediction.Predictor

	mu      sync.Mutex
	state   State
	input   patient.Input
	errs    validation.Errors
	result  *patient.Result
	message string
}

func NewController(predictor prediction.Predictor) *Controller {
	return &Controller{
		predictor: predictor,
		state:     StateIdle,
		input:     patient.NewInput(),
	}
}

// Submit validates in and, if it is submittable, runs one prediction. It
// blocks until the prediction settles. The remote call is not cancelled when
// ctx is; once sent it runs to completion.
func (c *Controller) Submit(ctx context.Context, in patient.Input) (Snapshot, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrSubmissionInFlight
	}

	c.input = in
	c.result = nil
	c.message = ""
	c.errs = validation.Validate(in)
	if !c.errs.Valid() {
		c.state = StateIdle
		c.message = c.errs.Summary()
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, &ValidationError{Errors: c.errs}
	}
	c.state = StateSubmitting
	c.mu.Unlock()

	result, err := c.predict(context.WithoutCancel(ctx), in)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateSettled
	if err != nil {
		c.message = FailureMessage
		return c.snapshotLocked(), err
	}
	c.result = &result
	return c.snapshotLocked(), nil
}

// predict turns a predictor panic into an error so the form always settles.
func (c *Controller) predict(ctx context.Context, in patient.Input) (result patient.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPredictorPanic, r)
		}
	}()
	return c.predictor.Predict(ctx, in)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns the current state without copying the rest.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:   c.state,
		Input:   c.input,
		Message: c.message,
	}
	if fields := c.errs.Fields(); len(fields) > 0 {
		snap.FieldErrors = fields
	}
	if c.result != nil {
		r := *c.result
		snap.Result = &r
	}
	return snap
}
