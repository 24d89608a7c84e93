package contact

import (
	"context"
	"fmt"
	"sync"

	"contactform/errs"
)

// Sink receives a snapshot of every accepted form.
type Sink interface {
	Record(ctx context.Context, f Fields) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, f Fields) error

func (fn SinkFunc) Record(ctx context.Context, f Fields) error {
	return fn(ctx, f)
}

// State is the observable state of a Controller.
type State int

const (
	StateEditing State = iota
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome classifies a Submit call.
type Outcome int

const (
	// Rejected means validation failed; errors are stored, fields kept.
	Rejected Outcome = iota
	// Accepted means the sink recorded the form and the fields were reset.
	Accepted
	// Busy means another submit was still in flight; nothing changed.
	Busy
	// Failed means the sink returned an error; fields are kept.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Accepted:
		return "accepted"
	case Busy:
		return "busy"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// SubmitResult reports what a Submit call did.
type SubmitResult struct {
	Outcome Outcome
	Errors  FieldErrors
	Err     error
}

// SubmissionError is the general, non-field error of a failed sink call.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return "contact: submission failed: " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// AppError is the user-facing form of the failure.
func (e *SubmissionError) AppError() *errs.Error {
	return ErrSendFailed
}

// Controller owns one visitor's draft form. Validation only runs on Submit.
type Controller struct {
	sink Sink

	mu        sync.Mutex
	fields    Fields
	errors    FieldErrors
	state     State
	submitErr error
	cancel    context.CancelFunc
}

func NewController(sink Sink) *Controller {
	return &Controller{
		sink:   sink,
		errors: FieldErrors{},
	}
}

// UpdateField stores value without validating it.
func (c *Controller) UpdateField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitting {
		return ErrSubmitting
	}
	return c.fields.Set(field, value)
}

// Validate checks the current fields. It does not touch the displayed errors.
func (c *Controller) Validate() FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields.Validate()
}

// Submit validates the form and, when it is valid, hands a snapshot to the
// sink. The sink runs without the lock held; concurrent calls see Busy.
func (c *Controller) Submit(ctx context.Context) SubmitResult {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return SubmitResult{Outcome: Busy, Err: ErrSubmitting}
	}

	fe := c.fields.Validate()
	c.errors = fe
	c.submitErr = nil
	if !fe.Valid() {
		c.mu.Unlock()
		return SubmitResult{Outcome: Rejected, Errors: fe.clone()}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.state = StateSubmitting
	c.cancel = cancel
	snapshot := c.fields
	c.mu.Unlock()

	err := c.sink.Record(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateEditing
	c.cancel = nil
	if err != nil {
		c.submitErr = &SubmissionError{Err: err}
		return SubmitResult{Outcome: Failed, Errors: FieldErrors{}, Err: c.submitErr}
	}
	c.fields = Fields{}
	return SubmitResult{Outcome: Accepted, Errors: FieldErrors{}}
}

// Cancel aborts an in-flight submission. It is a no-op while editing.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Controller) Fields() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Errors returns a copy of the errors from the last submit attempt.
func (c *Controller) Errors() FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.clone()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SubmitErr returns the general error of the last failed submission, or nil.
func (c *Controller) SubmitErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitErr
}
