package config

import (
	"encoding/json"
	"os"

	"github.com/lfcamara/fundef-registry/internal/flagx"
)

// JsonConfig is the file-format counterpart of Config, used only for
// unmarshalling the optional JSON configuration file. After unmarshalling,
// its fields are copied into the runtime Config.
type JsonConfig struct {
	UseFirebase             *bool   `json:"use_firebase"`
	DataDir                 *string `json:"data_dir"`
	FirebaseProjectID       *string `json:"firebase_project_id"`
	FirebaseCredentialsFile *string `json:"firebase_credentials"`
	FirebaseCredentialsJSON *string `json:"firebase_credentials_json"`
	LogLevel                *string `json:"log_level"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c or -config flags; when neither
// is set, no file is loaded. Fields absent from the file keep their
// current values. Unreadable or malformed files panic, matching the
// fail-fast behavior of the flag parser.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.UseFirebase != nil {
		config.UseFirebase = *c.UseFirebase
	}
	if c.DataDir != nil {
		config.DataDir = *c.DataDir
	}
	if c.FirebaseProjectID != nil {
		config.FirebaseProjectID = *c.FirebaseProjectID
	}
	if c.FirebaseCredentialsFile != nil {
		config.FirebaseCredentialsFile = *c.FirebaseCredentialsFile
	}
	if c.FirebaseCredentialsJSON != nil {
		config.FirebaseCredentialsJSON = *c.FirebaseCredentialsJSON
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
}
