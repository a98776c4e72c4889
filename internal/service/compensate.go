package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

// undoLog records the inverse of each completed write. On failure the steps
// run newest first and every step runs even if an earlier one failed.
type undoLog struct {
	op    string
	steps []undoStep
}

type undoStep struct {
	name string
	fn   func(ctx context.Context) error
}

func (u *undoLog) add(name string, fn func(ctx context.Context) error) {
	u.steps = append(u.steps, undoStep{name: name, fn: fn})
}

func (u *undoLog) run(ctx context.Context) error {
	l := logging.FromContext(ctx).With("op", u.op)

	var errs []error
	for i := len(u.steps) - 1; i >= 0; i-- {
		s := u.steps[i]
		if err := s.fn(ctx); err != nil {
			l.Error("compensation_step_failed", "step", s.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			continue
		}
		l.Info("compensation_step_done", "step", s.name)
	}
	return errors.Join(errs...)
}

// fail runs the undo log and returns cause. A failed undo is appended to the
// message without changing how cause classifies.
func (u *undoLog) fail(ctx context.Context, cause error) error {
	if err := u.run(ctx); err != nil {
		return fmt.Errorf("%w (compensation: %v)", cause, err)
	}
	return cause
}
