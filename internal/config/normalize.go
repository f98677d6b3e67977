package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRemediation()
	c.normalizePlex()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.MusicDir, err = expandPath(c.Paths.MusicDir); err != nil {
		return fmt.Errorf("paths.music_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.Ledger) == "" {
		c.Paths.Ledger = filepath.Join(c.Paths.DataDir, "processed.list")
	} else if c.Paths.Ledger, err = expandPath(c.Paths.Ledger); err != nil {
		return fmt.Errorf("paths.ledger: %w", err)
	}
	if strings.TrimSpace(c.Paths.Lock) == "" {
		c.Paths.Lock = filepath.Join(c.Paths.DataDir, "gainhound.lock")
	} else if c.Paths.Lock, err = expandPath(c.Paths.Lock); err != nil {
		return fmt.Errorf("paths.lock: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	} else if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRemediation() {
	if len(c.Remediation.Extensions) == 0 {
		c.Remediation.Extensions = []string{".mp3"}
	}
	normalized := make([]string, 0, len(c.Remediation.Extensions))
	for _, ext := range c.Remediation.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Remediation.Extensions = normalized
}

func (c *Config) normalizePlex() {
	if env := strings.TrimSpace(os.Getenv("PLEX_URL")); env != "" && strings.TrimSpace(c.Plex.URL) == "" {
		c.Plex.URL = env
	}
	if env := strings.TrimSpace(os.Getenv("PLEX_TOKEN")); env != "" && strings.TrimSpace(c.Plex.Token) == "" {
		c.Plex.Token = env
	}
	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	if strings.TrimSpace(c.Plex.Library) == "" {
		c.Plex.Library = defaultPlexLibrary
	}
	if c.Plex.RequestTimeout <= 0 {
		c.Plex.RequestTimeout = defaultPlexTimeout
	}
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.DataDir, "history.db")
		return nil
	}
	expanded, err := expandPath(c.History.Path)
	if err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	c.History.Path = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.PostHook.Mode = strings.ToLower(strings.TrimSpace(c.PostHook.Mode))
	if c.PostHook.Mode == "" {
		c.PostHook.Mode = defaultPostHookMode
	}
}
