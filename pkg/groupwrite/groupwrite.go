// Package groupwrite applies a small fixed batch of writes so that readers
// see either all of them or none of them.
//
// Two executors are provided. Transactional runs the batch inside a single
// database transaction. Compensating is for stores without multi-statement
// transactions: it applies the operations one by one and, when one fails,
// undoes the already applied ones in reverse order. The compensating executor
// is best-effort: a crash between a write and its compensation leaves the
// batch half applied.
package groupwrite

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
)

type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrEmptyBatch         Error = "grouped write has no operations"
	ErrCompensationFailed Error = "grouped write compensation failed"
)

// Op is one write of a batch. Compensate must undo the effect of Apply. It
// is called only for operations whose Apply succeeded.
type Op struct {
	Name       string
	Apply      func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

type Executor interface {
	Run(ctx context.Context, ops ...Op) error
}

const (
	logAttrOp    = "op"
	logAttrError = "error"
)

func opNames(ops []Op) []string {
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, op.Name)
	}
	return names
}

func applyErr(op Op, err error) error {
	return errors.Wrapf(err, "apply %s", op.Name)
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
