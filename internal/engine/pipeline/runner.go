// Package pipeline runs ordered external toolchain steps.
package pipeline

import (
	"context"
	"io"
	"runtime"
	"slices"
	"strconv"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// maxCapturedOutput bounds the tail of a step's output kept for failure reports.
const maxCapturedOutput = 64 << 10

// Runner executes pipelines step by step and stops at the first failure.
type Runner struct {
	executor ports.Executor
	tracer   ports.Tracer
	jobs     int
	quiet    bool
}

// NewRunner creates a Runner whose parallel steps use host parallelism minus one.
func NewRunner(executor ports.Executor, tracer ports.Tracer) *Runner {
	return &Runner{
		executor: executor,
		tracer:   tracer,
		jobs:     domain.Jobs(runtime.NumCPU()),
	}
}

// SetJobs overrides the worker count passed to parallel steps. Values below one are ignored.
func (r *Runner) SetJobs(n int) {
	if n > 0 {
		r.jobs = n
	}
}

// SetQuiet stops streaming step output to the logger. Output is still captured for failure reports.
func (r *Runner) SetQuiet(quiet bool) {
	r.quiet = quiet
}

// Quiet reports whether step output is kept off the logger.
func (r *Runner) Quiet() bool {
	return r.quiet
}

// Jobs returns the worker count passed to parallel steps.
func (r *Runner) Jobs() int {
	return r.jobs
}

// Run executes the steps of p in order. The first failing step aborts the
// pipeline with a ToolchainFailure naming the step and carrying its output.
func (r *Runner) Run(ctx context.Context, p *domain.Pipeline) error {
	r.tracer.EmitPlan(ctx, p.StepNames())

	for _, step := range p.Steps {
		if err := r.runStep(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, step domain.Step) error {
	cmd := step.Command
	cmd.Quiet = cmd.Quiet || r.quiet
	if step.Parallel {
		cmd.Args = append(slices.Clone(cmd.Args), "-j", strconv.Itoa(r.jobs))
	}

	opts := []ports.SpanOption{ports.WithAttribute("args", cmd.Args)}
	if cmd.Dir != "" {
		opts = append(opts, ports.WithAttribute("dir", cmd.Dir))
	}
	ctx, span := r.tracer.Start(ctx, step.Name, opts...)
	defer span.End()

	captured := &tailBuffer{limit: maxCapturedOutput}
	out := io.MultiWriter(captured, span)

	if err := r.executor.Execute(ctx, cmd, out, out); err != nil {
		code := domain.ExitCode(err)
		failure := domain.NewToolchainFailure(step.Name, cmd.Args, captured.String(), code, err)
		span.SetAttribute("exit_code", code)
		span.RecordError(failure)
		return failure
	}
	return nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit     int
	buf       []byte
	truncated bool
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
		t.truncated = true
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	if t.truncated {
		return "...\n" + string(t.buf)
	}
	return string(t.buf)
}
