package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vk/dgrun/internal/ctxlog"
	"github.com/vk/dgrun/internal/params"
	"github.com/vk/dgrun/internal/probe"
)

// Op names a session call.
type Op string

const (
	OpLocate          Op = "locate"
	OpNew             Op = "new"
	OpSetParameters   Op = "set_parameters"
	OpAddProbe        Op = "add_probe"
	OpPerformAnalysis Op = "perform_analysis"
	OpPickle          Op = "pickle"
	OpEvaluateLigand  Op = "evaluate_ligand"
	OpClose           Op = "close"
)

// Call is one recorded engine or session call.
type Call struct {
	Op      Op
	Options Options
	Group   params.Group
	Probe   probe.Probe
	Path    string
}

func (c Call) String() string {
	switch c.Op {
	case OpNew:
		return fmt.Sprintf("%s(%q, workdir=%q, verbose=%q)", c.Op, c.Options.Name, c.Options.Workdir, c.Options.Verbose)
	case OpSetParameters:
		return fmt.Sprintf("%s(%s)", c.Op, c.Group)
	case OpAddProbe:
		return fmt.Sprintf("%s(%q, %q)", c.Op, c.Probe.Label, c.Probe.GridFile)
	case OpEvaluateLigand:
		return fmt.Sprintf("%s(%q)", c.Op, c.Path)
	default:
		return string(c.Op) + "()"
	}
}

// Recorder is an Engine whose sessions only record the calls made on them.
// It backs the dry-run engine and tests. Errors can be injected per op.
type Recorder struct {
	// Fail maps an op to the error it returns.
	Fail map[Op]error
	// Ligand is the result returned by EvaluateLigand.
	Ligand string
	// Out, when set, receives each call as it is recorded.
	Out io.Writer

	mu    sync.Mutex
	calls []Call
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Fail: make(map[Op]error)}
}

// Calls returns the calls recorded so far, in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Ops returns the op of every recorded call, in order.
func (r *Recorder) Ops() []Op {
	calls := r.Calls()
	ops := make([]Op, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

// Transcript renders the recorded calls one per line.
func (r *Recorder) Transcript() string {
	var sb strings.Builder
	for _, c := range r.Calls() {
		sb.WriteString(c.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r *Recorder) record(ctx context.Context, c Call) error {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	err := r.Fail[c.Op]
	if r.Out != nil {
		fmt.Fprintln(r.Out, c.String())
	}
	r.mu.Unlock()
	ctxlog.FromContext(ctx).Debug("Recorded session call.", "call", c.String())
	return err
}

// Locate implements Engine.
func (r *Recorder) Locate(ctx context.Context) error {
	return r.record(ctx, Call{Op: OpLocate})
}

// NewSession implements Engine.
func (r *Recorder) NewSession(ctx context.Context, opts Options) (Session, error) {
	if err := r.record(ctx, Call{Op: OpNew, Options: opts}); err != nil {
		return nil, err
	}
	return &recordedSession{r: r}, nil
}

type recordedSession struct {
	r *Recorder
}

func (s *recordedSession) SetParameters(ctx context.Context, group params.Group) error {
	return s.r.record(ctx, Call{Op: OpSetParameters, Group: group})
}

func (s *recordedSession) AddProbe(ctx context.Context, p probe.Probe) error {
	return s.r.record(ctx, Call{Op: OpAddProbe, Probe: p})
}

func (s *recordedSession) PerformAnalysis(ctx context.Context) error {
	return s.r.record(ctx, Call{Op: OpPerformAnalysis})
}

func (s *recordedSession) Pickle(ctx context.Context) error {
	return s.r.record(ctx, Call{Op: OpPickle})
}

func (s *recordedSession) EvaluateLigand(ctx context.Context, path string) (string, error) {
	if err := s.r.record(ctx, Call{Op: OpEvaluateLigand, Path: path}); err != nil {
		return "", err
	}
	return s.r.Ligand, nil
}

func (s *recordedSession) Close() error {
	return s.r.record(context.Background(), Call{Op: OpClose})
}
