package mp3gain

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"

	"gainhound/internal/services"
)

func TestStripTagsRequiresPath(t *testing.T) {
	cli := NewCLI()
	if err := cli.StripTags(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestStripTagsPassesDeleteFlags(t *testing.T) {
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		return exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI(WithBinary("/usr/bin/mp3gain"))
	if err := cli.StripTags(context.Background(), "/music/a.mp3.reenc.tmp.mp3"); err != nil {
		t.Fatalf("StripTags returned error: %v", err)
	}

	want := []string{"-s", "d", "/music/a.mp3.reenc.tmp.mp3"}
	if len(capturedArgs) != len(want) {
		t.Fatalf("unexpected args: %v", capturedArgs)
	}
	for i := range want {
		if capturedArgs[i] != want[i] {
			t.Fatalf("arg %d: got %q want %q", i, capturedArgs[i], want[i])
		}
	}
}

func TestStripTagsWrapsFailure(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "MP3GAIN_HELPER_MODE=fail")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI()
	err := cli.StripTags(context.Background(), "/music/a.mp3")
	if err == nil {
		t.Fatal("expected failure")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") == "" {
		return
	}
	if os.Getenv("MP3GAIN_HELPER_MODE") == "fail" {
		os.Exit(1)
	}
	os.Exit(0)
}
