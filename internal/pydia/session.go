package pydia

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/vk/dgrun/internal/params"
	"github.com/vk/dgrun/internal/probe"
	"github.com/vk/dgrun/internal/session"
)

// ErrClosed is returned by calls on a closed session.
var ErrClosed = errors.New("session is closed")

// Session is a DIA object living in a bridge interpreter. Calls are
// serialized; only one request is in flight at a time.
type Session struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	replies *os.File
	dec     *json.Decoder

	mu     sync.Mutex
	closed bool
	killed error

	waitOnce sync.Once
	waitErr  error
}

var _ session.Session = (*Session)(nil)

func newSession(cmd *exec.Cmd, stdin io.WriteCloser, replies *os.File) *Session {
	return &Session{
		cmd:     cmd,
		stdin:   stdin,
		replies: replies,
		dec:     json.NewDecoder(bufio.NewReader(replies)),
	}
}

// handshake waits for the bridge to report that the package imported.
func (s *Session) handshake(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.receive(ctx, "import")
	if err != nil {
		return err
	}
	if !r.OK {
		return fmt.Errorf("%w: %s", session.ErrPackageNotFound, r.Error)
	}
	return nil
}

func (s *Session) call(ctx context.Context, req request) (reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return reply{}, ErrClosed
	}
	if s.killed != nil {
		return reply{}, fmt.Errorf("%s: engine was stopped: %w", req.Op, s.killed)
	}

	line, err := json.Marshal(req)
	if err != nil {
		return reply{}, fmt.Errorf("%s: encode request: %w", req.Op, err)
	}
	if _, err := s.stdin.Write(append(line, '\n')); err != nil {
		return reply{}, fmt.Errorf("%s: send request: %w", req.Op, s.exitCause(err))
	}

	r, err := s.receive(ctx, req.Op)
	if err != nil {
		return reply{}, err
	}
	if !r.OK {
		return reply{}, &RemoteError{Op: req.Op, Kind: r.Kind, Message: r.Error}
	}
	return r, nil
}

// receive reads one reply, killing the interpreter if ctx ends first.
// Callers hold s.mu.
func (s *Session) receive(ctx context.Context, op string) (reply, error) {
	type result struct {
		r   reply
		err error
	}
	ch := make(chan result, 1)
	go func() {
		var r reply
		err := s.dec.Decode(&r)
		ch <- result{r, err}
	}()

	select {
	case <-ctx.Done():
		_ = s.cmd.Process.Kill()
		s.killed = ctx.Err()
		return reply{}, fmt.Errorf("%s: %w", op, ctx.Err())
	case res := <-ch:
		if res.err != nil {
			return reply{}, fmt.Errorf("%s: no reply from engine: %w", op, s.exitCause(res.err))
		}
		return res.r, nil
	}
}

// exitCause prefers the interpreter's exit status over a pipe error.
func (s *Session) exitCause(pipeErr error) error {
	if !errors.Is(pipeErr, io.EOF) && !errors.Is(pipeErr, os.ErrClosed) && !errors.Is(pipeErr, io.ErrClosedPipe) {
		return pipeErr
	}
	if err := s.wait(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

func (s *Session) wait() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.cmd.Wait()
		s.replies.Close()
	})
	return s.waitErr
}

// SetParameters implements session.Session.
func (s *Session) SetParameters(ctx context.Context, group params.Group) error {
	_, err := s.call(ctx, request{Op: "set_parameters", Params: encodeGroup(group)})
	return err
}

// AddProbe implements session.Session.
func (s *Session) AddProbe(ctx context.Context, p probe.Probe) error {
	_, err := s.call(ctx, request{Op: "add_probe", ProbeType: p.Label, GridFile: p.GridFile})
	return err
}

// PerformAnalysis implements session.Session.
func (s *Session) PerformAnalysis(ctx context.Context) error {
	_, err := s.call(ctx, request{Op: "perform_analysis"})
	return err
}

// Pickle implements session.Session.
func (s *Session) Pickle(ctx context.Context) error {
	_, err := s.call(ctx, request{Op: "pickle"})
	return err
}

// EvaluateLigand implements session.Session. The result is the engine's
// printable representation of its evaluation.
func (s *Session) EvaluateLigand(ctx context.Context, path string) (string, error) {
	r, err := s.call(ctx, request{Op: "evaluate_ligand", Path: path})
	if err != nil {
		return "", err
	}
	if r.Result == nil {
		return "", nil
	}
	return *r.Result, nil
}

// Close ends the bridge by closing its stdin and waits for it to exit.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.stdin.Close()
	if err := s.wait(); err != nil {
		return fmt.Errorf("engine exited: %w", err)
	}
	return nil
}
