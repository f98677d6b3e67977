package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations used across the pipeline.
type Paths struct {
	MusicDir string `toml:"music_dir"`
	DataDir  string `toml:"data_dir"`
	Ledger   string `toml:"ledger"`
	Lock     string `toml:"lock"`
	LogDir   string `toml:"log_dir"`
}

// Remediation contains candidate selection and batch settings.
type Remediation struct {
	GainThreshold float64  `toml:"gain_threshold"`
	MaxFiles      int      `toml:"max_files"`
	DryRun        bool     `toml:"dry_run"`
	Extensions    []string `toml:"extensions"`
}

// Encoder contains settings for the external re-encode tool.
type Encoder struct {
	Binary     string `toml:"binary"`
	VBRQuality int    `toml:"vbr_quality"`
	ID3Version int    `toml:"id3_version"`
}

// TagStrip contains settings for the external gain-tag removal tool.
type TagStrip struct {
	Binary string `toml:"binary"`
}

// PostHook contains settings for the best-effort rescan trigger run at exit.
type PostHook struct {
	Command string `toml:"command"`
	Mode    string `toml:"mode"`
	Timeout int    `toml:"timeout"`
}

// Plex contains configuration for the Plex Media Server integration.
type Plex struct {
	URL             string `toml:"url"`
	Token           string `toml:"token"`
	Library         string `toml:"library"`
	ForceAnalyze    bool   `toml:"force_analyze"`
	AnalyzeLoudness bool   `toml:"analyze_loudness"`
	RequestTimeout  int    `toml:"request_timeout"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Gainhound.
//
// Configuration sections by subsystem:
//   - Paths: music root, ledger, lock file, and log directory
//   - Remediation: gain threshold, batch cap, dry-run, eligible extensions
//   - Encoder: ffmpeg invocation parameters
//   - TagStrip: mp3gain invocation parameters
//   - PostHook: rescan trigger command, mode, and timeout
//   - Plex: media server URL, token, and analyze toggles
//   - History: run history SQLite database
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Remediation Remediation `toml:"remediation"`
	Encoder     Encoder     `toml:"encoder"`
	TagStrip    TagStrip    `toml:"tagstrip"`
	PostHook    PostHook    `toml:"posthook"`
	Plex        Plex        `toml:"plex"`
	History     History     `toml:"history"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/gainhound/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and derived defaults filled in.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("gainhound.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs to exist up front.
// The music root is deliberately not created: if it is missing the library
// mount is offline and the run must not fabricate an empty tree.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
