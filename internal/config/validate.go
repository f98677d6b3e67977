package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRemediation(); err != nil {
		return err
	}
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validatePostHook(); err != nil {
		return err
	}
	if err := c.validatePlex(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.MusicDir) == "" {
		return errors.New("paths.music_dir must be set")
	}
	return nil
}

func (c *Config) validateRemediation() error {
	if c.Remediation.GainThreshold <= 0 {
		return errors.New("remediation.gain_threshold must be greater than zero")
	}
	if c.Remediation.MaxFiles < 0 {
		return errors.New("remediation.max_files must not be negative")
	}
	if len(c.Remediation.Extensions) == 0 {
		return errors.New("remediation.extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateEncoder() error {
	if strings.TrimSpace(c.Encoder.Binary) == "" {
		return errors.New("encoder.binary must be set")
	}
	if c.Encoder.VBRQuality < 0 || c.Encoder.VBRQuality > 9 {
		return errors.New("encoder.vbr_quality must be between 0 and 9")
	}
	if c.Encoder.ID3Version != 3 && c.Encoder.ID3Version != 4 {
		return errors.New("encoder.id3_version must be 3 or 4")
	}
	if strings.TrimSpace(c.TagStrip.Binary) == "" {
		return errors.New("tagstrip.binary must be set")
	}
	return nil
}

func (c *Config) validatePostHook() error {
	switch c.PostHook.Mode {
	case "background", "synchronous":
	default:
		return fmt.Errorf("posthook.mode must be %q or %q", "background", "synchronous")
	}
	if c.PostHook.Timeout <= 0 {
		return errors.New("posthook.timeout must be greater than zero")
	}
	return nil
}

func (c *Config) validatePlex() error {
	if !c.Plex.ForceAnalyze {
		return nil
	}
	if c.Plex.URL == "" {
		return errors.New("plex.url must be set when plex.force_analyze is true")
	}
	if c.Plex.Token == "" {
		return errors.New("plex.token must be set when plex.force_analyze is true")
	}
	return nil
}
