package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vk/dgrun/internal/ctxlog"
	"github.com/vk/dgrun/internal/journal"
	"github.com/vk/dgrun/internal/params"
	"github.com/vk/dgrun/internal/registry"
	"github.com/vk/dgrun/internal/session"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// runState tracks one Run invocation. Calls made before the run is
// journaled are held in pending.
type runState struct {
	id      string
	seq     int
	started bool
	pending []journal.Call
}

// Run drives one analysis session end to end: locate the engine, construct
// the session, apply parameter groups and probes in declaration order,
// perform the analysis, persist it and optionally evaluate a ligand.
//
// The engine is located before anything else; if that fails the run stops
// without constructing a session or touching the journal.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	s := a.model.Session
	st := &runState{id: uuid.NewString()}
	ctx = ctxlog.With(ctx, "run_id", st.id, "session", s.Name)
	logger := ctxlog.FromContext(ctx)

	ctx, span := a.tracer.Start(ctx, "dgrun.run", trace.WithAttributes(
		attribute.String("dgrun.run_id", st.id),
		attribute.String("dgrun.session", s.Name),
		attribute.String("dgrun.engine", a.config.Engine),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	startedAt := time.Now()
	engine, err := a.registry.NewEngine(ctx, a.config.Engine, registry.Env{
		Python:     a.config.Python,
		SearchPath: a.model.SearchPath,
		Out:        a.outW,
	})
	if err != nil {
		return err
	}

	logger.Info("Locating druggability package.", "search_path", a.model.SearchPath.String())
	if err := a.step(ctx, st, session.OpLocate, "", engine.Locate); err != nil {
		if errors.Is(err, session.ErrPackageNotFound) {
			return &MissingPackageError{Source: a.model.Source, Err: err}
		}
		return err
	}

	if err := a.openJournal(ctx); err != nil {
		return err
	}
	a.startJournal(ctx, st, journal.Run{
		ID:        st.id,
		Name:      s.Name,
		Workdir:   s.Workdir,
		Verbose:   a.config.Verbose,
		Engine:    a.config.Engine,
		Source:    a.model.Source,
		StartedAt: startedAt,
	})
	defer func() {
		status := journal.StatusSucceeded
		if err != nil {
			status = journal.StatusFailed
		}
		if jerr := a.journal.FinishRun(context.WithoutCancel(ctx), st.id, status, err); jerr != nil {
			logger.Warn("Failed to record run outcome.", "error", jerr)
		}
	}()

	opts := session.Options{Name: s.Name, Workdir: s.Workdir, Verbose: a.config.Verbose}
	var sess session.Session
	if err := a.step(ctx, st, session.OpNew, fmt.Sprintf("%q workdir=%q verbose=%q", opts.Name, opts.Workdir, opts.Verbose), func(ctx context.Context) error {
		var err error
		sess, err = engine.NewSession(ctx, opts)
		return err
	}); err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			logger.Warn("Session did not close cleanly.", "error", cerr)
			if err == nil {
				err = cerr
			}
		}
	}()
	logger.Info("Session constructed.", "workdir", s.Workdir, "verbose", opts.Verbose)

	for _, group := range s.Parameters {
		logParameters(ctx, group)
		if err := a.step(ctx, st, session.OpSetParameters, group.String(), func(ctx context.Context) error {
			return sess.SetParameters(ctx, group)
		}); err != nil {
			return err
		}
	}

	for _, p := range s.Probes.All() {
		if err := a.step(ctx, st, session.OpAddProbe, p.String(), func(ctx context.Context) error {
			return sess.AddProbe(ctx, p)
		}); err != nil {
			return err
		}
	}
	logger.Info("Probes registered.", "probes", s.Probes.Labels())

	logger.Info("Performing druggability analysis.")
	if err := a.step(ctx, st, session.OpPerformAnalysis, "", sess.PerformAnalysis); err != nil {
		return err
	}
	if err := a.step(ctx, st, session.OpPickle, "", sess.Pickle); err != nil {
		return err
	}
	logger.Info("Analysis persisted.", "workdir", s.Workdir)

	if s.EvaluateLigand != "" {
		var result string
		if err := a.step(ctx, st, session.OpEvaluateLigand, s.EvaluateLigand, func(ctx context.Context) error {
			var err error
			result, err = sess.EvaluateLigand(ctx, s.EvaluateLigand)
			return err
		}); err != nil {
			return err
		}
		logger.Info("Ligand evaluated.", "ligand", s.EvaluateLigand, "result", result)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// step runs one engine or session call inside its own span and journals it.
// Errors are returned as the engine produced them.
func (a *App) step(ctx context.Context, st *runState, op session.Op, args string, fn func(context.Context) error) error {
	st.seq++
	logger := ctxlog.FromContext(ctx)

	ctx, span := a.tracer.Start(ctx, "session."+string(op), trace.WithAttributes(
		attribute.Int("dgrun.seq", st.seq),
		attribute.String("dgrun.args", args),
	))
	defer span.End()

	logger.Debug("Calling engine.", "op", op, "seq", st.seq, "args", args)
	err := fn(ctx)

	call := journal.Call{Seq: st.seq, Op: string(op), Args: args, At: time.Now()}
	if err != nil {
		call.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("Engine call failed.", "op", op, "error", err)
	}
	if !st.started {
		st.pending = append(st.pending, call)
		return err
	}
	if jerr := a.journal.RecordCall(context.WithoutCancel(ctx), st.id, call); jerr != nil {
		logger.Warn("Failed to record call.", "op", op, "error", jerr)
	}
	return err
}

// startJournal records the run and the calls made before it was recorded.
func (a *App) startJournal(ctx context.Context, st *runState, run journal.Run) {
	logger := ctxlog.FromContext(ctx)
	st.started = true
	if err := a.journal.StartRun(ctx, run); err != nil {
		logger.Warn("Failed to record run start.", "error", err)
		return
	}
	for _, call := range st.pending {
		if err := a.journal.RecordCall(ctx, st.id, call); err != nil {
			logger.Warn("Failed to record call.", "op", call.Op, "error", err)
		}
	}
	st.pending = nil
}

func logParameters(ctx context.Context, group params.Group) {
	logger := ctxlog.FromContext(ctx)
	for _, p := range group {
		spec, known := params.Known[p.Name]
		if !known {
			logger.Debug("Parameter is not documented; passing it through.", "name", p.Name, "value", p.Literal())
			continue
		}
		logger.Debug("Setting parameter.", "name", p.Name, "value", p.Literal(), "unit", spec.Unit, "meaning", spec.Description)
	}
}
