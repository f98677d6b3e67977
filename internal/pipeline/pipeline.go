package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gainhound/internal/config"
	"gainhound/internal/history"
	"gainhound/internal/ledger"
	"gainhound/internal/logging"
	"gainhound/internal/posthook"
	"gainhound/internal/remediation"
	"gainhound/internal/runlock"
	"gainhound/internal/services"
	"gainhound/internal/services/ffmpeg"
	"gainhound/internal/services/mp3gain"
)

// Summary reports what a run did.
type Summary struct {
	RunID       string
	DryRun      bool
	LockBusy    bool
	Available   int
	Batch       int
	OK          int
	Failed      int
	Remaining   int
	Interrupted bool
}

// Pipeline orchestrates one remediation batch end to end.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	encoder ffmpeg.Encoder
	tagger  mp3gain.TagStripper
	store   *ledger.Store
	lock    *runlock.Lock
	hook    *posthook.Trigger
	history *history.Store
}

// New assembles a pipeline from configuration and collaborators. The history
// store may be nil when disabled.
func New(cfg *config.Config, logger *slog.Logger, encoder ffmpeg.Encoder, tagger mp3gain.TagStripper, hist *history.Store) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		logger:  logging.WithComponent(logger, "pipeline"),
		encoder: encoder,
		tagger:  tagger,
		store:   ledger.NewStore(cfg.Paths.Ledger),
		lock:    runlock.New(cfg.Paths.Lock),
		hook:    posthook.New(cfg.PostHook, logger),
		history: hist,
	}
}

// Run executes one batch. The returned error is non-nil only for failures
// that aborted the run before candidate processing (configuration problems,
// unreadable ledger); per-candidate failures surface through the summary.
//
// The rescan hook fires exactly once on every path out of this function,
// including early aborts. It gets a fresh context so a canceled run still
// triggers the rescan.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		RunID:  uuid.NewString(),
		DryRun: p.cfg.Remediation.DryRun,
	}
	defer p.hook.Fire(context.WithoutCancel(ctx))

	threshold := p.cfg.Remediation.GainThreshold
	extensions := p.cfg.Remediation.Extensions

	// Dry-run reports without acquiring the lock so a report-only invocation
	// mutates nothing, not even the lock file.
	if summary.DryRun {
		return p.dryRun(summary, threshold, extensions)
	}

	acquired, err := p.lock.TryAcquire()
	if err != nil {
		return summary, services.Wrap(services.ErrTransient, "pipeline", "acquire lock", p.lock.Path(), err)
	}
	if !acquired {
		summary.LockBusy = true
		p.logger.Info("another instance is already running; exiting",
			logging.String("lock", p.lock.Path()),
		)
		return summary, nil
	}
	defer func() {
		if releaseErr := p.lock.Release(); releaseErr != nil {
			p.logger.Warn("failed to release lock", logging.Error(releaseErr))
		}
	}()

	p.logger.Info("starting re-encode scan",
		logging.String("run_id", summary.RunID),
		logging.Float64("threshold_db", threshold),
		logging.String("music_dir", p.cfg.Paths.MusicDir),
	)

	batch, err := p.selectBatch(&summary, threshold, extensions)
	if err != nil {
		return summary, err
	}
	if len(batch) == 0 {
		p.logger.Info("no candidates to process")
		return summary, nil
	}

	worker, err := remediation.NewWorker(p.cfg.Paths.MusicDir, p.encoder, p.tagger, p.store, p.logger)
	if err != nil {
		return summary, err
	}

	p.beginHistory(ctx, &summary)
	p.processBatch(ctx, worker, batch, &summary)

	p.logger.Info("re-encode complete",
		logging.Int("ok", summary.OK),
		logging.Int("fail", summary.Failed),
		logging.Int("total", summary.Batch),
	)

	p.recountRemaining(&summary, threshold, extensions)
	p.finishHistory(ctx, &summary)
	return summary, nil
}

func (p *Pipeline) dryRun(summary Summary, threshold float64, extensions []string) (Summary, error) {
	p.logger.Info("dry run: listing candidates only, no writes")
	batch, err := p.selectBatch(&summary, threshold, extensions)
	if err != nil {
		return summary, err
	}
	for _, cand := range batch {
		p.logger.Info("dry-run candidate",
			logging.String("path", cand.Path),
			logging.String("gain", fmt.Sprintf("%+.2f", cand.Gain)),
		)
	}
	p.logger.Info("dry run complete", logging.Int("listed", summary.Batch))
	return summary, nil
}

func (p *Pipeline) selectBatch(summary *Summary, threshold float64, extensions []string) ([]ledger.Candidate, error) {
	entries, err := p.store.Load()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "load ledger", p.store.Path(), err)
	}

	available := ledger.Select(entries, threshold, extensions)
	summary.Available = len(available)
	batch := ledger.Cap(available, p.cfg.Remediation.MaxFiles)
	summary.Batch = len(batch)

	p.logger.Info("candidates selected",
		logging.Int("available", summary.Available),
		logging.Int("batch", summary.Batch),
	)
	return batch, nil
}

func (p *Pipeline) processBatch(ctx context.Context, worker *remediation.Worker, batch []ledger.Candidate, summary *Summary) {
	done := 0
	for _, cand := range batch {
		if ctx.Err() != nil {
			summary.Interrupted = true
			p.logger.Warn("interrupted; stopping batch",
				logging.Int("completed", done),
				logging.Int("total", summary.Batch),
			)
			break
		}

		outcome, procErr := worker.Process(ctx, cand)
		done++
		if outcome.Success() {
			summary.OK++
		} else {
			summary.Failed++
		}
		p.recordTrack(ctx, summary.RunID, cand, outcome, procErr)

		if done%25 == 0 {
			p.logger.Info("progress",
				logging.Int("ok", summary.OK),
				logging.Int("fail", summary.Failed),
				logging.Int("done", done),
				logging.Int("total", summary.Batch),
			)
		}
	}
}

// recountRemaining reloads the compacted ledger so the summary reflects how
// much work a future run would still find. Best-effort.
func (p *Pipeline) recountRemaining(summary *Summary, threshold float64, extensions []string) {
	entries, err := p.store.Load()
	if err != nil {
		p.logger.Warn("could not recount remaining candidates", logging.Error(err))
		return
	}
	summary.Remaining = len(ledger.Select(entries, threshold, extensions))
	p.logger.Info("remaining candidates", logging.Int("remaining", summary.Remaining))
}

func (p *Pipeline) beginHistory(ctx context.Context, summary *Summary) {
	if p.history == nil {
		return
	}
	if err := p.history.BeginRun(context.WithoutCancel(ctx), summary.RunID, time.Now(), summary.DryRun); err != nil {
		p.logger.Warn("could not record run start", logging.Error(err))
	}
}

func (p *Pipeline) recordTrack(ctx context.Context, runID string, cand ledger.Candidate, outcome remediation.Outcome, procErr error) {
	if p.history == nil {
		return
	}
	detail := ""
	if procErr != nil {
		detail = procErr.Error()
	}
	if err := p.history.RecordTrack(context.WithoutCancel(ctx), runID, cand.Path, cand.Gain, string(outcome), detail); err != nil {
		p.logger.Warn("could not record track outcome", logging.Error(err))
	}
}

func (p *Pipeline) finishHistory(ctx context.Context, summary *Summary) {
	if p.history == nil {
		return
	}
	status := "ok"
	switch {
	case summary.Interrupted:
		status = "interrupted"
	case summary.Failed > 0:
		status = "partial"
	}
	err := p.history.FinishRun(context.WithoutCancel(ctx), summary.RunID,
		summary.OK, summary.Failed, summary.Batch, summary.Remaining, status)
	if err != nil {
		p.logger.Warn("could not record run completion", logging.Error(err))
	}
}
