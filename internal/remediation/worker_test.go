package remediation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gainhound/internal/ledger"
	"gainhound/internal/logging"
)

type fakeEncoder struct {
	err     error
	partial bool
	calls   []string
}

func (f *fakeEncoder) Encode(_ context.Context, inputPath, outputPath string) error {
	f.calls = append(f.calls, inputPath)
	if f.err != nil {
		if f.partial {
			_ = os.WriteFile(outputPath, []byte("partial"), 0o644)
		}
		return f.err
	}
	return os.WriteFile(outputPath, []byte("encoded:"+filepath.Base(inputPath)), 0o644)
}

type fakeTagger struct {
	err   error
	calls []string
}

func (f *fakeTagger) StripTags(_ context.Context, path string) error {
	f.calls = append(f.calls, path)
	return f.err
}

type fixture struct {
	worker  *Worker
	store   *ledger.Store
	root    string
	encoder *fakeEncoder
	tagger  *fakeTagger
}

func newFixture(t *testing.T, encoder *fakeEncoder, tagger *fakeTagger) *fixture {
	t.Helper()
	root := t.TempDir()
	store := ledger.NewStore(filepath.Join(t.TempDir(), "processed.list"))

	worker, err := NewWorker(root, encoder, tagger, store, logging.NewNop())
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}
	return &fixture{worker: worker, store: store, root: root, encoder: encoder, tagger: tagger}
}

func (f *fixture) addTrack(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.root, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func (f *fixture) seedLedger(t *testing.T, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(f.store.Path(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestProcessSuccessReplacesFileAndCompactsLedger(t *testing.T) {
	f := newFixture(t, &fakeEncoder{}, &fakeTagger{})
	path := f.addTrack(t, "a.mp3", "original audio")
	f.seedLedger(t,
		"t1\t"+path+"\t6.2",
		"t2\t"+filepath.Join(f.root, "b.mp3")+"\t2.0",
	)

	outcome, err := f.worker.Process(context.Background(), ledger.Candidate{Path: path, Gain: 6.2})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if outcome != OutcomeRemediated {
		t.Fatalf("expected remediated, got %v", outcome)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "encoded:a.mp3" {
		t.Fatalf("file not replaced: %q", got)
	}

	if len(f.tagger.calls) != 1 || !strings.Contains(f.tagger.calls[0], ".reenc.tmp") {
		t.Fatalf("tag strip must target the temp file, got %v", f.tagger.calls)
	}

	data, err := os.ReadFile(f.store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), path) {
		t.Fatalf("ledger still references remediated path: %q", data)
	}
	if !strings.Contains(string(data), "b.mp3") {
		t.Fatalf("unrelated ledger entry lost: %q", data)
	}
}

func TestProcessEncodeFailureLeavesOriginalAndLedger(t *testing.T) {
	f := newFixture(t, &fakeEncoder{err: errors.New("exit status 1"), partial: true}, &fakeTagger{})
	path := f.addTrack(t, "a.mp3", "original audio")
	f.seedLedger(t, "t1\t"+path+"\t6.2")

	outcome, err := f.worker.Process(context.Background(), ledger.Candidate{Path: path, Gain: 6.2})
	if outcome != OutcomeEncodeFailed {
		t.Fatalf("expected encode failure, got %v", outcome)
	}
	if err == nil {
		t.Fatal("expected error detail")
	}

	got, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if string(got) != "original audio" {
		t.Fatalf("original mutated on encode failure: %q", got)
	}

	entries, loadErr := f.store.Load()
	if loadErr != nil {
		t.Fatal(loadErr)
	}
	if len(entries) != 1 {
		t.Fatalf("ledger entry must survive a failed candidate, got %v", entries)
	}

	if _, statErr := os.Stat(path + ".reenc.tmp.mp3"); !os.IsNotExist(statErr) {
		t.Fatal("partial temp output must be deleted")
	}
	if len(f.tagger.calls) != 0 {
		t.Fatal("tag strip must not run after encode failure")
	}
}

func TestProcessTagStripFailureIsNonFatal(t *testing.T) {
	f := newFixture(t, &fakeEncoder{}, &fakeTagger{err: errors.New("no ape tag")})
	path := f.addTrack(t, "a.mp3", "original audio")
	f.seedLedger(t, "t1\t"+path+"\t6.2")

	outcome, err := f.worker.Process(context.Background(), ledger.Candidate{Path: path, Gain: 6.2})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if outcome != OutcomeRemediated {
		t.Fatalf("tag strip failure must not block replacement, got %v", outcome)
	}

	got, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if string(got) != "encoded:a.mp3" {
		t.Fatalf("file not replaced: %q", got)
	}
}

func TestProcessSkipsCandidateOutsideRoot(t *testing.T) {
	f := newFixture(t, &fakeEncoder{}, &fakeTagger{})
	outside := filepath.Join(t.TempDir(), "elsewhere.mp3")
	if err := os.WriteFile(outside, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	outcome, err := f.worker.Process(context.Background(), ledger.Candidate{Path: outside, Gain: 9.0})
	if outcome != OutcomeOutsideRoot {
		t.Fatalf("expected outside-root, got %v", outcome)
	}
	if err == nil {
		t.Fatal("expected safety error")
	}
	if len(f.encoder.calls) != 0 {
		t.Fatal("encoder must not run for out-of-root candidates")
	}
}

func TestProcessSkipsSymlinkEscapingRoot(t *testing.T) {
	f := newFixture(t, &fakeEncoder{}, &fakeTagger{})
	outside := filepath.Join(t.TempDir(), "real.mp3")
	if err := os.WriteFile(outside, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(f.root, "sneaky.mp3")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	outcome, _ := f.worker.Process(context.Background(), ledger.Candidate{Path: link, Gain: 9.0})
	if outcome != OutcomeOutsideRoot {
		t.Fatalf("expected outside-root for escaping symlink, got %v", outcome)
	}
}

func TestTempSiblingKeepsExtension(t *testing.T) {
	got := tempSibling("/music/a.MP3")
	if got != "/music/a.MP3.reenc.tmp.mp3" {
		t.Fatalf("unexpected temp name: %q", got)
	}
}

func TestNewWorkerRejectsMissingRoot(t *testing.T) {
	store := ledger.NewStore(filepath.Join(t.TempDir(), "processed.list"))
	_, err := NewWorker(filepath.Join(t.TempDir(), "absent"), &fakeEncoder{}, &fakeTagger{}, store, logging.NewNop())
	if err == nil {
		t.Fatal("expected error for missing music root")
	}
}
