package config

import (
	"flag"
	"os"

	"github.com/lfcamara/fundef-registry/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-f          use the Firestore backend
//	-d string   SQLite data directory
//	-p string   Firebase project id
//	-l string   log level
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-f", "-d", "-p", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.BoolVar(&config.UseFirebase, "f", config.UseFirebase, "use the Firestore backend")
	fs.StringVar(&config.DataDir, "d", config.DataDir, "SQLite data directory")
	fs.StringVar(&config.FirebaseProjectID, "p", config.FirebaseProjectID, "Firebase project id")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
