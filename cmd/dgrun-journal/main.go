// Command dgrun-journal lists the runs recorded in a dgrun journal, or the
// session calls of one run.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/vk/dgrun/internal/cli"
	"github.com/vk/dgrun/internal/journal"
)

const usage = `
dgrun-journal - show runs recorded by dgrun.

Usage:
  dgrun-journal          list every run, oldest first
  dgrun-journal RUN_ID   list the session calls of one run

Environment:
  DGRUN_JOURNAL  SQLite file written by dgrun (required).
`

type config struct {
	Journal string `env:"DGRUN_JOURNAL,required"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Args[1:], env.ToMap(os.Environ()))
	stop()

	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, outW io.Writer, args []string, environ map[string]string) error {
	if len(args) > 0 {
		switch args[0] {
		case "-h", "-help", "--help":
			fmt.Fprint(outW, usage)
			return nil
		}
	}

	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return &cli.ExitError{Code: 2, Message: fmt.Sprintf("invalid environment: %v", err)}
	}
	// Open would create an empty database.
	if _, err := os.Stat(cfg.Journal); err != nil {
		return &cli.ExitError{Code: 2, Message: fmt.Sprintf("journal %s: %v", cfg.Journal, err)}
	}

	j, err := journal.Open(cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	if len(args) == 0 {
		return listRuns(ctx, outW, j)
	}
	return listCalls(ctx, outW, j, args[0])
}

func listRuns(ctx context.Context, outW io.Writer, j *journal.SQLite) error {
	ids, err := j.RunIDs(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(outW, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSTATUS\tSTARTED\tSESSION\tENGINE\tERROR")
	for _, id := range ids {
		r, err := j.GetRun(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Status, formatTime(r.StartedAt), r.Name, r.Engine, r.Error)
	}
	return tw.Flush()
}

func listCalls(ctx context.Context, outW io.Writer, j *journal.SQLite, runID string) error {
	r, err := j.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	calls, err := j.Calls(ctx, runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(outW, "run %s: session %q in %s, verbose %q, engine %s, %s\n",
		r.ID, r.Name, r.Workdir, r.Verbose, r.Engine, r.Status)
	tw := tabwriter.NewWriter(outW, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tOP\tARGS\tERROR")
	for _, c := range calls {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.Seq, c.Op, c.Args, c.Error)
	}
	return tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}
