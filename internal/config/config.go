// Package config handles configuration for the registry backend,
// including defaults, JSON overlay, environment variables, and
// command-line flags.
package config

// Config holds runtime settings for the registry process.
//
// Fields:
//   - UseFirebase: selects the Firestore backend instead of the embedded
//     SQLite store. Read once at startup and never re-read mid-process.
//   - DataDir: directory for the SQLite database file. Empty means
//     "dados" next to the running executable.
//   - FirebaseProjectID: GCP project of the Firestore database.
//   - FirebaseCredentialsFile: path to a service-account JSON file.
//   - FirebaseCredentialsJSON: service-account JSON passed by value,
//     either base64-wrapped or raw.
//   - LogLevel: debug|info|warn|error.
type Config struct {
	UseFirebase             bool   `env:"USE_FIREBASE"`
	DataDir                 string `env:"DATA_DIR"`
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS"`
	FirebaseCredentialsJSON string `env:"FIREBASE_CREDENTIALS_JSON"`
	LogLevel                string `env:"LOG_LEVEL"`
}

// LoadDefaults populates Config with local-development defaults: the
// embedded SQLite store in its default location.
func (c *Config) LoadDefaults() {
	c.UseFirebase = false
	c.DataDir = ""
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
