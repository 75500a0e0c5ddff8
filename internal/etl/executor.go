package etl

import (
	"context"
	"fmt"

	"github.com/gvanzela/nexcore-erp/internal/worker"
)

// Executor adapts the Runner to the job queue. Each queued job becomes one
// extract or promote run.
type Executor struct{ runner *Runner }

func NewExecutor(runner *Runner) *Executor { return &Executor{runner: runner} }

func (e *Executor) Execute(ctx context.Context, job worker.Job) error {
	switch job.Kind {
	case "extract":
		_, err := e.runner.Extract(ctx, job.Entity)
		return err
	case "promote":
		_, err := e.runner.Promote(ctx, job.Entity)
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnknownJob, job.Kind)
	}
}
