// Package shell provides the external tool executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the command with the inherited environment overlaid by cmd.Env.
// Output is copied to stdout and stderr and, unless cmd.Quiet is set, streamed
// line by line to the logger.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error {
	if len(cmd.Args) == 0 {
		return domain.ErrEmptyPipelineStep
	}

	name := cmd.Args[0]
	cmdEnv := resolveEnvironment(os.Environ(), cmd.Env)

	// Resolve the executable using the overlaid PATH, if the command carries one.
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // argv comes from the project description
	if len(c.Args) > 0 {
		c.Args[0] = name
	}
	c.Dir = cmd.Dir
	c.Env = cmdEnv

	var outLog, errLog *logWriter
	if !cmd.Quiet && e.logger != nil {
		outLog = &logWriter{logger: e.logger}
		errLog = &logWriter{logger: e.logger, warn: true}
	}

	if stdout != nil && sameWriter(stdout, stderr) {
		// A shared destination gets a single pipe so the interleaving is preserved.
		combined := fanOut(stdout, outLog)
		c.Stdout, c.Stderr = combined, combined
		errLog = nil
	} else {
		c.Stdout = fanOut(stdout, outLog)
		c.Stderr = fanOut(stderr, errLog)
	}

	err := c.Run()

	outLog.Flush()
	errLog.Flush()

	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return zerr.With(zerr.Wrap(errors.Join(domain.ErrToolchainMissing, err), "command not found"), "command", name)
		}

		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(ctxErr, err)
		}
		return zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
	}

	return nil
}

func fanOut(w io.Writer, log *logWriter) io.Writer {
	switch {
	case w != nil && log != nil:
		return io.MultiWriter(w, log)
	case log != nil:
		return log
	default:
		return w
	}
}

// sameWriter reports whether a and b are the same destination. Writers of
// non-comparable types are never the same.
func sameWriter(a, b io.Writer) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// logWriter forwards complete lines to the logger, buffering partial ones.
type logWriter struct {
	logger ports.Logger
	warn   bool
	buf    bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Keep the partial line for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *logWriter) Flush() {
	if w == nil || w.buf.Len() == 0 {
		return
	}
	w.emit(w.buf.String())
	w.buf.Reset()
}

func (w *logWriter) emit(line string) {
	if w.warn {
		w.logger.Warn(line)
		return
	}
	w.logger.Info(line)
}

// resolveEnvironment overlays overrides on the system environment.
// The result is sorted so child processes see a stable environment.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
