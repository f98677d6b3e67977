// Package config loads, normalizes, and validates Gainhound configuration.
//
// Configuration lives in a TOML file (default ~/.config/gainhound/config.toml,
// or ./gainhound.toml for project-local setups). Load produces a single
// immutable Config value that is passed explicitly to every component
// constructor; no component reads the process environment directly. The only
// environment integration happens here, where PLEX_URL and PLEX_TOKEN may
// stand in for the corresponding file settings.
package config
