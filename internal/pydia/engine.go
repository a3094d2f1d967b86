package pydia

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/vk/dgrun/internal/ctxlog"
	"github.com/vk/dgrun/internal/searchpath"
	"github.com/vk/dgrun/internal/session"
)

//go:embed driver.py
var driverSource string

// DefaultPython is the interpreter used when Engine.Python is empty.
const DefaultPython = "python"

// SearchPathEnv carries the search path to the interpreter.
const SearchPathEnv = "DGRUN_SEARCH_PATH"

// pathSetup appends each search path entry to sys.path unless it is
// already there. Inherited PYTHONPATH and site-packages keep precedence.
const pathSetup = `import os, sys
for p in os.environ.get('` + SearchPathEnv + `', '').split(os.pathsep):
    if p and p not in sys.path:
        sys.path.append(p)
`

// importCheck loads only the session constructor.
const importCheck = pathSetup + "from druggability import DIA\n"

// Engine runs the druggability package in a Python interpreter.
type Engine struct {
	// Python is the interpreter executable.
	Python string
	// SearchPath is handed to the interpreter in SearchPathEnv and appended
	// to sys.path.
	SearchPath *searchpath.SearchPath
	// Environ is the base environment; nil means the current process's.
	Environ []string
	// Stdout and Stderr receive the engine's console output.
	Stdout io.Writer
	Stderr io.Writer
}

var _ session.Engine = (*Engine)(nil)

// New returns an Engine for the given interpreter and search path.
func New(python string, sp *searchpath.SearchPath, out io.Writer) *Engine {
	return &Engine{Python: python, SearchPath: sp, Stdout: out, Stderr: out}
}

func (e *Engine) python() string {
	if e.Python == "" {
		return DefaultPython
	}
	return e.Python
}

func (e *Engine) environ() []string {
	base := e.Environ
	if base == nil {
		base = os.Environ()
	}
	if e.SearchPath == nil {
		return base
	}
	return e.SearchPath.Environ(base, SearchPathEnv)
}

func (e *Engine) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, e.python(), args...)
	cmd.Env = e.environ()
	return cmd
}

// Locate runs the import check. Any failure, including a missing
// interpreter, is reported as session.ErrPackageNotFound.
func (e *Engine) Locate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Checking druggability package import.", "python", e.python(), "search_path", e.SearchPath.String())

	var stderr bytes.Buffer
	cmd := e.command(ctx, "-c", importCheck)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s", session.ErrPackageNotFound, lastLine(stderr.String()))
		}
		return fmt.Errorf("%w: interpreter %q: %v", session.ErrPackageNotFound, e.python(), err)
	}
	logger.Debug("Druggability package located.")
	return nil
}

// NewSession starts the bridge interpreter and constructs a DIA object.
// The interpreter lives until Close or until ctx is cancelled.
func (e *Engine) NewSession(ctx context.Context, opts session.Options) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)

	replyR, replyW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create reply pipe: %w", err)
	}

	cmd := e.command(ctx, "-u", "-c", pathSetup+driverSource)
	cmd.ExtraFiles = []*os.File{replyW}
	cmd.Stdout = writerOr(e.Stdout)
	cmd.Stderr = writerOr(e.Stderr)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		replyR.Close()
		replyW.Close()
		return nil, fmt.Errorf("failed to open engine stdin: %w", err)
	}

	if err := cmd.Start(); err != nil {
		replyR.Close()
		replyW.Close()
		return nil, fmt.Errorf("failed to start %s: %w", e.python(), err)
	}
	// The child holds its own copy of the write end.
	replyW.Close()
	logger.Debug("Engine bridge started.", "pid", cmd.Process.Pid)

	s := newSession(cmd, stdin, replyR)
	if err := s.handshake(ctx); err != nil {
		s.Close()
		return nil, err
	}

	if _, err := s.call(ctx, request{
		Op:      "new",
		Name:    opts.Name,
		Workdir: opts.Workdir,
		Verbose: &opts.Verbose,
	}); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
