// Package posthook fires the external rescan collaborator once per run.
//
// The hook is strictly best-effort: whatever the hook does (launch failure,
// non-zero exit, timeout), the pipeline's own exit status is never affected.
// Background mode detaches and returns immediately; synchronous mode waits up
// to the configured timeout.
package posthook

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"gainhound/internal/config"
	"gainhound/internal/logging"
)

var (
	newCommand     = exec.Command
	commandContext = exec.CommandContext
)

// Trigger invokes the configured rescan command.
type Trigger struct {
	command string
	mode    string
	timeout time.Duration
	logger  *slog.Logger
}

// New constructs a trigger from configuration.
func New(cfg config.PostHook, logger *slog.Logger) *Trigger {
	return &Trigger{
		command: strings.TrimSpace(cfg.Command),
		mode:    cfg.Mode,
		timeout: time.Duration(cfg.Timeout) * time.Second,
		logger:  logging.WithComponent(logger, "posthook"),
	}
}

// Fire runs the hook according to the configured mode. It never returns an
// error; every failure path is logged and swallowed.
func (t *Trigger) Fire(ctx context.Context) {
	if t.command == "" {
		t.logger.Debug("no rescan hook configured; skipping")
		return
	}
	if _, err := exec.LookPath(t.command); err != nil {
		t.logger.Info("rescan hook not found; skipping", logging.String("command", t.command))
		return
	}

	if t.mode == "background" {
		t.fireBackground()
		return
	}
	t.fireSynchronous(ctx)
}

func (t *Trigger) fireBackground() {
	t.logger.Info("triggering rescan hook", logging.String("mode", "background"))
	cmd := newCommand(t.command)
	if err := cmd.Start(); err != nil {
		t.logger.Warn("failed to launch rescan hook", logging.Error(err))
		return
	}
	// Detach: the hook outlives this process and is never waited on.
	_ = cmd.Process.Release()
	t.logger.Info("rescan hook launched in background")
}

func (t *Trigger) fireSynchronous(ctx context.Context) {
	t.logger.Info("triggering rescan hook",
		logging.String("mode", "synchronous"),
		logging.Duration("timeout", t.timeout),
	)

	runCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	cmd := commandContext(runCtx, t.command)
	output, err := cmd.CombinedOutput()
	switch {
	case runCtx.Err() != nil:
		t.logger.Warn("rescan hook timed out; continuing", logging.Duration("timeout", t.timeout))
	case err != nil:
		t.logger.Warn("rescan hook failed; continuing",
			logging.Error(err),
			logging.String("output", tail(output)),
		)
	default:
		t.logger.Info("rescan hook completed")
	}
}

func tail(output []byte) string {
	const limit = 240
	s := strings.ReplaceAll(strings.TrimSpace(string(output)), "\n", " ")
	if len(s) > limit {
		s = s[len(s)-limit:]
	}
	return s
}
