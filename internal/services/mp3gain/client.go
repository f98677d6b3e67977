package mp3gain

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"gainhound/internal/services"
)

var commandContext = exec.CommandContext

// TagStripper removes loudness-adjustment tags from an encoded file in place.
type TagStripper interface {
	StripTags(ctx context.Context, path string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default mp3gain binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the mp3gain command-line tool.
type CLI struct {
	binary string
}

// NewCLI constructs an mp3gain client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "mp3gain"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// StripTags deletes mp3gain APEv2 tags from the file. Normal ID3 frames are
// left alone (mp3gain -s d only touches the APE tag block).
func (c *CLI) StripTags(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path required")
	}
	cmd := commandContext(ctx, c.binary, "-s", "d", path) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.ReplaceAll(strings.TrimSpace(string(output)), "\n", " ")
		if detail == "" {
			detail = "no tool output"
		}
		return services.Wrap(services.ErrExternalTool, "tagstrip", "delete ape tags", detail, err)
	}
	return nil
}

var _ TagStripper = (*CLI)(nil)
