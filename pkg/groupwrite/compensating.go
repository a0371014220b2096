package groupwrite

import (
	"context"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

type Compensating struct {
	logger *slog.Logger
}

func NewCompensating(logger *slog.Logger) *Compensating {
	return &Compensating{logger: logger}
}

// Run applies ops in order. When an operation fails the operations applied
// before it are compensated in reverse order and the apply error is
// returned. If a compensation fails too, the result also matches
// ErrCompensationFailed and carries every compensation error.
func (c *Compensating) Run(ctx context.Context, ops ...Op) error {
	if len(ops) == 0 {
		return ErrEmptyBatch
	}

	for i, op := range ops {
		err := op.Apply(ctx)
		if err == nil {
			continue
		}

		cause := applyErr(op, err)
		if compErr := c.compensate(ctx, ops[:i]); compErr != nil {
			logger(c.logger).Error("grouped write left partially applied",
				slog.Any("ops", opNames(ops)),
				slog.String("failed_op", op.Name),
				slog.String(logAttrError, err.Error()),
				slog.String("compensation_error", compErr.Error()),
			)
			return &CompensationError{Cause: cause, Compensation: compErr}
		}

		return cause
	}

	return nil
}

func (c *Compensating) compensate(ctx context.Context, applied []Op) error {
	var result *multierror.Error

	// The request may already be cancelled; compensations must still run.
	ctx = context.WithoutCancel(ctx)

	for i := len(applied) - 1; i >= 0; i-- {
		op := applied[i]
		if op.Compensate == nil {
			continue
		}

		if err := op.Compensate(ctx); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "compensate %s", op.Name))
			continue
		}

		logger(c.logger).Debug("grouped write op compensated", slog.String(logAttrOp, op.Name))
	}

	return result.ErrorOrNil()
}

// CompensationError is returned when a batch failed and could not be fully
// undone. The store needs manual reconciliation.
type CompensationError struct {
	Cause        error
	Compensation error
}

func (e *CompensationError) Error() string {
	return ErrCompensationFailed.Error() + ": " + e.Cause.Error() + "; " + e.Compensation.Error()
}

func (e *CompensationError) Is(target error) bool {
	return target == ErrCompensationFailed
}

func (e *CompensationError) Unwrap() error {
	return e.Cause
}
