// Package runner launches the external Meraculous assembler once per
// planned configuration and records how each run went.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cypridina/glotk/project"
)

// Result is the outcome of one assembler invocation. A failed run is a
// recorded Result, not an error: queued runs still execute and the caller
// decides what a failure means for the sweep.
type Result struct {
	RunID    int
	Name     string
	ExitCode int
	Duration time.Duration
	LogPath  string
	Err      error
}

// Failed reports whether the assembler exited non-zero or never started.
func (r Result) Failed() bool {
	return r.Err != nil || r.ExitCode != 0
}

// Runner drives run_meraculous.sh. MaxParallel > 1 launches that many
// assemblies concurrently; every run gets its own output directory and log
// file, so runs share no mutable state beyond the project's run-number map.
type Runner struct {
	Script       string // assembler entry point, normally run_meraculous.sh
	CleanupLevel int
	MaxParallel  int
	Logger       *slog.Logger

	// RunCommand is the process launch hook. Tests replace it to exercise
	// dispatch logic without an assembler installed. Nil means (*exec.Cmd).Run.
	RunCommand func(*exec.Cmd) error
}

func (r *Runner) script() string {
	if r.Script == "" {
		return "run_meraculous.sh"
	}
	return r.Script
}

// Execute blocks until the assembler for rec exits. It runs in workDir (the
// project's gloTK_assemblies directory, which Meraculous fills with a
// subdirectory named after the run) and streams stdout and stderr to the
// run's activity log.
func (r *Runner) Execute(ctx context.Context, workDir string, rec project.RunRecord) Result {
	res := Result{RunID: rec.ID, Name: rec.Name, LogPath: rec.LogPath}

	logFile, err := os.OpenFile(rec.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		res.Err = fmt.Errorf("opening run log: %w", err)
		return res
	}
	defer logFile.Close()

	// ConfigPath is quoted; project roots may contain spaces.
	cmdStr := fmt.Sprintf("%s -c %q -dir %s -cleanup_level %d",
		r.script(), rec.ConfigPath, rec.Name, r.CleanupLevel)
	cmd := exec.CommandContext(ctx, "bash", "-c", cmdStr)
	cmd.Dir = workDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if r.Logger != nil {
		r.Logger.Info("MERACULOUS", "RUN", rec.Name, "ID", rec.ID, "STATUS", "STARTED", "CMD", cmdStr)
	}

	start := time.Now()
	runErr := r.run(cmd)
	res.Duration = time.Since(start)

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.Err = runErr
	}

	if r.Logger != nil {
		status := "COMPLETED"
		if res.Failed() {
			status = "FAILED"
		}
		r.Logger.Info("MERACULOUS", "RUN", rec.Name, "ID", rec.ID, "STATUS", status,
			"EXIT", res.ExitCode, "DURATION", res.Duration.String())
	}
	return res
}

func (r *Runner) run(cmd *exec.Cmd) error {
	if r.RunCommand != nil {
		return r.RunCommand(cmd)
	}
	return cmd.Run()
}

// RunAll executes every record, at most MaxParallel at a time, and waits for
// all of them. Results come back in input order regardless of completion
// order. A failing run never stops the others.
func (r *Runner) RunAll(ctx context.Context, workDir string, recs []project.RunRecord) []Result {
	limit := r.MaxParallel
	if limit < 1 {
		limit = 1
	}

	results := make([]Result, len(recs))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, rec := range recs {
		i, rec := i, rec
		g.Go(func() error {
			results[i] = r.Execute(ctx, workDir, rec)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // per-run failures live in results
	return results
}
