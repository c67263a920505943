package telemetry

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/kiln/internal/core/ports"
)

// Span attribute keys the pipeline runner sets on step spans.
const (
	AttrArgs     attribute.Key = "args"
	AttrDir      attribute.Key = "dir"
	AttrExitCode attribute.Key = "exit_code"
)

// Bridge is an sdktrace.SpanProcessor turning step spans into renderer events.
// The command line and working directory of a step are read from its start
// attributes and the exit code from the attributes present when it ends.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge reporting to renderer. A nil renderer discards events.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart announces the step.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}

	step := ports.StepStart{
		SpanID: s.SpanContext().SpanID().String(),
		Name:   s.Name(),
		Time:   s.StartTime(),
	}
	if p := trace.SpanContextFromContext(parent); p.IsValid() {
		step.ParentID = p.SpanID().String()
	}
	for _, kv := range s.Attributes() {
		switch kv.Key {
		case AttrArgs:
			step.Args = kv.Value.AsStringSlice()
		case AttrDir:
			step.Dir = kv.Value.AsString()
		}
	}

	b.renderer.OnStepStart(step)
}

// OnEnd reports the outcome of the step.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}

	end := ports.StepEnd{
		SpanID:   s.SpanContext().SpanID().String(),
		Time:     s.EndTime(),
		ExitCode: -1,
	}
	for _, kv := range s.Attributes() {
		if kv.Key == AttrExitCode {
			end.ExitCode = int(kv.Value.AsInt64())
		}
	}
	if s.Status().Code == codes.Error {
		end.Err = errors.New(statusSummary(s.Status().Description))
	}

	b.renderer.OnStepComplete(end)
}

// statusSummary keeps the first line of a failure description; captured tool
// output follows it and is reported by the logger instead.
func statusSummary(desc string) string {
	desc, _, _ = strings.Cut(desc, "\n")
	if desc == "" {
		return "step failed"
	}
	return desc
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
