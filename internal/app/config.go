package app

// Config holds everything an App instance needs to run. Zero values mean
// "not set on the command line" and are resolved against the settings file
// and the built-in defaults in New.
type Config struct {
	// PipelinePath is the definition file to simulate in one-shot mode.
	PipelinePath string
	// OutPath receives the JSON result; empty writes to stdout.
	OutPath string

	// Serve switches to HTTP API mode on Port.
	Serve bool
	Port  int

	// Seed fixes the simulator's random source; 0 keeps it time-seeded.
	Seed int64
	// NoDelay disables the in-process wait for simulated durations.
	NoDelay bool

	LogFormat string
	LogLevel  string

	// SettingsPath points at the optional TOML settings file.
	SettingsPath string
}

const (
	defaultPort      = 3001
	defaultLogFormat = "text"
	defaultLogLevel  = "info"
)

// resolve merges file settings and defaults into the flag-provided config.
// Flags win over the file, the file wins over defaults.
func (c *Config) resolve(s Settings) {
	if c.Port == 0 {
		c.Port = s.Port
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.LogFormat == "" {
		c.LogFormat = s.LogFormat
	}
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
	if c.LogLevel == "" {
		c.LogLevel = s.LogLevel
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Seed == 0 {
		c.Seed = s.Seed
	}
}
