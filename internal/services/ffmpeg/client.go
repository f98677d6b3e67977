package ffmpeg

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	"gainhound/internal/services"
)

var commandContext = exec.CommandContext

// Encoder defines the re-encode behaviour the remediation worker needs.
type Encoder interface {
	Encode(ctx context.Context, inputPath, outputPath string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default ffmpeg binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line encoder.
type CLI struct {
	binary     string
	vbrQuality int
	id3Version int
}

// NewCLI constructs an ffmpeg client with the given libmp3lame VBR quality and
// ID3v2 tag version.
func NewCLI(vbrQuality, id3Version int, opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", vbrQuality: vbrQuality, id3Version: id3Version}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Encode re-encodes inputPath into outputPath using libmp3lame, carrying over
// every stream (cover art included) and the source metadata. Success is the
// tool's zero exit status; on failure an excerpt of the combined output is
// folded into the returned error.
func (c *CLI) Encode(ctx context.Context, inputPath, outputPath string) error {
	if strings.TrimSpace(inputPath) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return errors.New("output path required")
	}

	args := []string{
		"-y",
		"-i", inputPath,
		"-map", "0",
		"-map_metadata", "0",
		"-codec:a", "libmp3lame",
		"-q:a", strconv.Itoa(c.vbrQuality),
		"-id3v2_version", strconv.Itoa(c.id3Version),
		outputPath,
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "encoder", "re-encode", excerpt(output), err)
	}
	return nil
}

// excerpt condenses tool output into a single short diagnostic line.
func excerpt(output []byte) string {
	const limit = 240
	s := strings.ReplaceAll(strings.TrimSpace(string(output)), "\n", " ")
	if len(s) > limit {
		s = s[:limit]
	}
	if s == "" {
		return "no tool output"
	}
	return s
}

var _ Encoder = (*CLI)(nil)
