// Package runner executes the fixed sequence of demonstration queries
// against a BookStore and prints their results.
package runner

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// StepFunc runs one query against the store.
type StepFunc func(ctx context.Context, store domain.BookStore) (Result, error)

// Step is a named query of the run.
type Step struct {
	Name        string
	Description string
	Run         StepFunc
}

// StepResult pairs a step name with its result.
type StepResult struct {
	Step   string
	Result Result
}

// Runner executes steps in order against one store. Each step sees the
// state left behind by the steps before it.
type Runner struct {
	store domain.BookStore
	steps []Step
	out   io.Writer
}

// New creates a runner. With no steps the default run is used. Results are
// rendered to out when it is not nil.
func New(store domain.BookStore, out io.Writer, steps ...Step) *Runner {
	if len(steps) == 0 {
		steps = DefaultSteps()
	}
	return &Runner{store: store, steps: steps, out: out}
}

// Steps returns the configured steps.
func (r *Runner) Steps() []Step {
	return r.steps
}

// Run executes every step and stops at the first failure, returning the
// results gathered so far together with a *domain.QueryError.
func (r *Runner) Run(ctx context.Context) ([]StepResult, error) {
	results := make([]StepResult, 0, len(r.steps))
	for i, step := range r.steps {
		if r.out != nil {
			fmt.Fprintf(r.out, "\n=== %d. %s ===\n", i+1, step.Description)
		}
		res, err := r.execute(ctx, step)
		if err != nil {
			return results, err
		}
		results = append(results, StepResult{Step: step.Name, Result: res})
	}
	return results, nil
}

// RunStep executes a single named step.
func (r *Runner) RunStep(ctx context.Context, name string) (Result, error) {
	for _, step := range r.steps {
		if step.Name == name {
			return r.execute(ctx, step)
		}
	}
	return nil, &domain.QueryError{Step: name, Err: fmt.Errorf("no such step")}
}

func (r *Runner) execute(ctx context.Context, step Step) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.QueryError{Step: step.Name, Err: err}
	}
	zap.S().Debugf("Running step %s", step.Name)
	res, err := step.Run(ctx, r.store)
	if err != nil {
		zap.S().Errorf("Step %s failed: %v", step.Name, err)
		return nil, &domain.QueryError{Step: step.Name, Err: err}
	}
	if r.out != nil {
		res.Render(r.out)
	}
	return res, nil
}
