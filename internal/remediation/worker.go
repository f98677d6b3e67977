package remediation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gainhound/internal/fileutil"
	"gainhound/internal/ledger"
	"gainhound/internal/logging"
	"gainhound/internal/mediainfo"
	"gainhound/internal/services"
	"gainhound/internal/services/ffmpeg"
	"gainhound/internal/services/mp3gain"
)

var probeFile = mediainfo.Probe

// Outcome classifies how a single candidate ended.
type Outcome string

const (
	OutcomeRemediated    Outcome = "remediated"
	OutcomeEncodeFailed  Outcome = "encode-failed"
	OutcomeReplaceFailed Outcome = "replace-failed"
	OutcomeOutsideRoot   Outcome = "outside-root"
)

// Success reports whether the candidate was fully remediated.
func (o Outcome) Success() bool {
	return o == OutcomeRemediated
}

// Worker remediates one candidate at a time: re-encode to a temp sibling,
// strip gain tags, atomically replace the original, compact the ledger.
type Worker struct {
	root    string
	encoder ffmpeg.Encoder
	tagger  mp3gain.TagStripper
	store   *ledger.Store
	logger  *slog.Logger
}

// NewWorker constructs a worker rooted at musicDir. The root is resolved to
// its canonical form once so every candidate's containment check compares
// like with like.
func NewWorker(musicDir string, encoder ffmpeg.Encoder, tagger mp3gain.TagStripper, store *ledger.Store, logger *slog.Logger) (*Worker, error) {
	if encoder == nil || tagger == nil || store == nil {
		return nil, errors.New("worker requires encoder, tagger, and ledger store")
	}
	resolved, err := filepath.EvalSymlinks(musicDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "worker", "resolve music root", musicDir, err)
	}
	return &Worker{
		root:    resolved,
		encoder: encoder,
		tagger:  tagger,
		store:   store,
		logger:  logging.WithComponent(logger, "worker"),
	}, nil
}

// Process runs the full per-candidate state machine. The returned error
// carries detail for failed outcomes; it is nil when the outcome is a
// success. Failures never cascade: the caller moves on to the next
// candidate regardless.
func (w *Worker) Process(ctx context.Context, cand ledger.Candidate) (Outcome, error) {
	if !w.withinRoot(cand.Path) {
		w.logger.Warn("candidate resolves outside music root; skipping",
			logging.String("path", cand.Path),
			logging.String("root", w.root),
		)
		return OutcomeOutsideRoot, services.Wrap(services.ErrSafety, "worker", "path check", cand.Path, nil)
	}

	tempPath := tempSibling(cand.Path)

	if err := w.encoder.Encode(ctx, cand.Path, tempPath); err != nil {
		w.removeTemp(tempPath)
		w.logger.Error("re-encode failed",
			logging.String("path", cand.Path),
			logging.Float64("gain", cand.Gain),
			logging.Error(err),
		)
		return OutcomeEncodeFailed, err
	}

	description := filepath.Base(cand.Path)
	if info, err := probeFile(tempPath); err != nil {
		w.logger.Warn("encoded output failed tag probe",
			logging.String("path", tempPath),
			logging.Error(err),
		)
	} else {
		description = info.Describe(description)
	}

	if err := w.tagger.StripTags(ctx, tempPath); err != nil {
		w.logger.Warn("gain tag removal failed; replacing anyway",
			logging.String("path", cand.Path),
			logging.Error(err),
		)
	}

	if err := fileutil.Replace(tempPath, cand.Path); err != nil {
		w.removeTemp(tempPath)
		w.logger.Error("atomic replace failed",
			logging.String("path", cand.Path),
			logging.Error(err),
		)
		return OutcomeReplaceFailed, services.Wrap(services.ErrTransient, "worker", "replace", cand.Path, err)
	}

	if err := w.store.RemoveByPath(cand.Path); err != nil {
		w.logger.Warn("could not update ledger; file will be re-selected next run",
			logging.String("path", cand.Path),
			logging.Error(err),
		)
	}

	w.logger.Info("re-encoded",
		logging.String("track", description),
		logging.String("path", cand.Path),
		logging.String("gain", fmt.Sprintf("%+.2f", cand.Gain)),
	)
	return OutcomeRemediated, nil
}

// withinRoot resolves the candidate to canonical form and checks containment.
// A candidate that cannot be resolved (broken symlink, missing file) is
// checked lexically; the encode step will surface the real failure.
func (w *Worker) withinRoot(path string) bool {
	resolved := filepath.Clean(path)
	if real, err := filepath.EvalSymlinks(path); err == nil {
		resolved = real
	}
	return resolved == w.root || strings.HasPrefix(resolved, w.root+string(os.PathSeparator))
}

func (w *Worker) removeTemp(tempPath string) {
	if err := os.Remove(tempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		w.logger.Warn("could not remove temp file",
			logging.String("path", tempPath),
			logging.Error(err),
		)
	}
}

// tempSibling names the in-progress re-encode next to the target so the final
// rename stays on one filesystem. The original extension is kept at the end
// so the encoder infers the right output container.
func tempSibling(path string) string {
	return path + ".reenc.tmp" + strings.ToLower(filepath.Ext(path))
}
