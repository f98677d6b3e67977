package config

const (
	defaultMusicDir        = "/music"
	defaultDataDir         = "~/.local/share/gainhound"
	defaultGainThreshold   = 5.0
	defaultEncoderBinary   = "ffmpeg"
	defaultVBRQuality      = 2
	defaultID3Version      = 3
	defaultTagStripBinary  = "mp3gain"
	defaultPostHookMode    = "background"
	defaultPostHookTimeout = 60
	defaultPlexLibrary     = "Music"
	defaultPlexTimeout     = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MusicDir: defaultMusicDir,
			DataDir:  defaultDataDir,
		},
		Remediation: Remediation{
			GainThreshold: defaultGainThreshold,
			Extensions:    []string{".mp3"},
		},
		Encoder: Encoder{
			Binary:     defaultEncoderBinary,
			VBRQuality: defaultVBRQuality,
			ID3Version: defaultID3Version,
		},
		TagStrip: TagStrip{
			Binary: defaultTagStripBinary,
		},
		PostHook: PostHook{
			Mode:    defaultPostHookMode,
			Timeout: defaultPostHookTimeout,
		},
		Plex: Plex{
			Library:        defaultPlexLibrary,
			RequestTimeout: defaultPlexTimeout,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
