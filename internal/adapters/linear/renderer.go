// Package linear provides a synchronous, line-oriented progress renderer.
package linear

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/kiln/internal/ui/style"
)

// Renderer implements ports.Renderer for terminals and CI logs.
// It prints one chronological line per step transition, prefixed with the step name.
type Renderer struct {
	mu     sync.Mutex
	out    io.Writer
	output *termenv.Output
	steps  map[string]*stepState // spanID -> step state
}

type stepState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a Renderer writing to w. A nil writer selects stderr.
func NewRenderer(w io.Writer) *Renderer {
	r := &Renderer{steps: make(map[string]*stepState)}
	r.SetOutput(w)
	return r
}

// SetOutput redirects the renderer.
func (r *Renderer) SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = w
	r.output = output.New(w)
}

// OnPlanEmit prints the planned steps.
func (r *Renderer) OnPlanEmit(steps []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(steps) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.out, "Planning %d step(s): %s\n", len(steps), strings.Join(steps, ", "))
}

// OnStepStart prints the step's command line, or a bare start message for
// spans that run no command.
func (r *Renderer) OnStepStart(step ports.StepStart) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps[step.SpanID] = &stepState{
		name:      step.Name,
		startTime: step.Time,
	}

	prefix := r.prefixLocked(step.Name)
	if len(step.Args) == 0 {
		_, _ = fmt.Fprintf(r.out, "%s Starting...\n", prefix)
		return
	}

	line := strings.Join(step.Args, " ")
	if step.Dir != "" {
		line += r.output.String(" (in " + step.Dir + ")").Faint().String()
	}
	_, _ = fmt.Fprintf(r.out, "%s $ %s\n", prefix, line)
}

// OnStepComplete prints the completion status of a step.
func (r *Renderer) OnStepComplete(end ports.StepEnd) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step, ok := r.steps[end.SpanID]
	if !ok {
		return
	}
	delete(r.steps, end.SpanID)

	duration := formatDuration(end.Time.Sub(step.startTime))
	prefix := r.prefixLocked(step.name)

	if end.Err != nil {
		symbol := r.output.String(style.Cross).Foreground(r.output.Color(string(style.Red))).String()
		status := "Failed after " + duration
		if end.ExitCode >= 0 {
			status += fmt.Sprintf(" (exit code %d)", end.ExitCode)
		}
		_, _ = fmt.Fprintf(r.out, "%s %s %s: %v\n", prefix, symbol, status, end.Err)
		return
	}

	symbol := r.output.String(style.Check).Foreground(r.output.Color(string(style.Green))).String()
	_, _ = fmt.Fprintf(r.out, "%s %s Done (%s)\n", prefix, symbol, duration)
}

// prefixLocked renders the "[name]" prefix. Must be called with r.mu held.
func (r *Renderer) prefixLocked(name string) string {
	return r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
