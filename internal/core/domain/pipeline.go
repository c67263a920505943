package domain

import (
	"errors"
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// Command is a single external tool invocation.
type Command struct {
	// Args is the argv of the command; Args[0] is the executable.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env overlays the inherited environment.
	Env map[string]string
	// Quiet suppresses streaming the command's output to the logger.
	Quiet bool
}

// String renders the argv for diagnostics.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// Step is one named command of a pipeline.
type Step struct {
	Name    string
	Command Command
	// Parallel steps receive a "-j N" worker-count argument from the runner.
	Parallel bool
}

// Pipeline is an ordered list of steps. Conditional steps are resolved when added,
// so the list never changes while it runs.
type Pipeline struct {
	Name  string
	Steps []Step
}

// NewPipeline creates an empty pipeline.
func NewPipeline(name string) *Pipeline {
	return &Pipeline{Name: name}
}

// Add appends an unconditional step.
func (p *Pipeline) Add(step Step) *Pipeline {
	p.Steps = append(p.Steps, step)
	return p
}

// AddIf appends the step only when cond holds.
func (p *Pipeline) AddIf(cond bool, step Step) *Pipeline {
	if cond {
		p.Steps = append(p.Steps, step)
	}
	return p
}

// StepNames returns the names of the steps in order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		names[i] = s.Name
	}
	return names
}

// Jobs returns the worker count for parallel steps: host parallelism minus one, floored at one.
func Jobs(cpus int) int {
	return max(cpus-1, 1)
}

// NewToolchainFailure builds the error reported when an external step fails.
// The cause stays reachable with errors.Is next to ErrToolchainFailure.
func NewToolchainFailure(step string, args []string, output string, exitCode int, cause error) error {
	err := zerr.Wrap(errors.Join(ErrToolchainFailure, cause), fmt.Sprintf("step %q failed", step))
	err = zerr.With(err, "step", step)
	err = zerr.With(err, "args", strings.Join(args, " "))
	err = zerr.With(err, "exit_code", exitCode)
	if output != "" {
		err = zerr.With(err, "output", output)
	}
	return err
}

// WrapIO marks a filesystem failure as ErrIO while keeping the cause reachable.
func WrapIO(err error, msg, path string) error {
	if err == nil {
		return nil
	}
	return zerr.With(zerr.Wrap(errors.Join(ErrIO, err), msg), "path", path)
}

// ExitCode returns the "exit_code" metadata attached anywhere in err's chain, or -1.
func ExitCode(err error) int {
	var ze *zerr.Error
	for cur := err; errors.As(cur, &ze); cur = ze.Unwrap() {
		if code, ok := ze.Metadata()["exit_code"].(int); ok {
			return code
		}
	}
	return -1
}
