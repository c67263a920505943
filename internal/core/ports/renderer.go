package ports

import "time"

// StepStart describes a step that began executing.
type StepStart struct {
	SpanID string
	// ParentID is empty for root spans.
	ParentID string
	Name     string
	// Args and Dir are empty for spans that do not run a command.
	Args []string
	Dir  string
	Time time.Time
}

// StepEnd describes a finished step.
type StepEnd struct {
	SpanID string
	Time   time.Time
	// ExitCode is -1 unless the command exited with a status.
	ExitCode int
	// Err is nil on success.
	Err error
}

// Renderer is the abstraction for progress output.
// It decouples telemetry collection from presentation.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnPlanEmit is called with the ordered step names of a pipeline.
	OnPlanEmit(steps []string)

	// OnStepStart is called when a step begins.
	OnStepStart(step StepStart)

	// OnStepComplete is called when a step finishes.
	OnStepComplete(end StepEnd)
}
