// Package guard runs the existence, authentication and payload checks that
// precede every mutation. Checks are ordered Steps; Run stops at the first
// one that does not pass.
package guard

import (
	"context"
	"errors"

	"typoteka/internal/domain/entity"
	"typoteka/internal/observability/metrics"
)

// Outcome tags the result of a single step.
type Outcome int

const (
	Pass Outcome = iota
	BadRequest
	NotFound
	Invalid
	Unauthorized
	// Internal is an infrastructure failure met while checking.
	Internal
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case BadRequest:
		return "bad_request"
	case NotFound:
		return "not_found"
	case Invalid:
		return "invalid"
	case Unauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Result is what a Step reports. Err is nil only for Pass.
type Result struct {
	Outcome Outcome
	Err     error
}

// Passed reports whether the step let the request through.
func (r Result) Passed() bool { return r.Outcome == Pass }

// Step is one check of a pipeline.
type Step func(ctx context.Context) Result

// Run executes steps in order and returns the error of the first step that
// does not pass, or nil.
func Run(ctx context.Context, steps ...Step) error {
	for _, step := range steps {
		if r := step(ctx); !r.Passed() {
			return r.Err
		}
	}
	return nil
}

// Classify maps an error onto the outcome it represents.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return Pass
	case errors.Is(err, entity.ErrUnauthorized):
		return Unauthorized
	case errors.Is(err, entity.ErrValidationFailed):
		return Invalid
	case errors.Is(err, entity.ErrNotFound):
		return NotFound
	case errors.Is(err, entity.ErrBadRequest):
		return BadRequest
	default:
		return Internal
	}
}

// resultOf tags err with its outcome.
func resultOf(err error) Result {
	return Result{Outcome: Classify(err), Err: err}
}

// Check is Run with the rejection counted under operation.
func Check(ctx context.Context, operation string, steps ...Step) error {
	err := Run(ctx, steps...)
	if err != nil {
		metrics.RecordGuardRejection(operation, Classify(err).String())
	}
	return err
}
