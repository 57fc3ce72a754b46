package config

import (
	"flag"
	"os"

	"github.com/avolkov/tracklight/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend API (default from Config)
//	-s string   path of the session record file
//	-d string   path of the local cache database
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseAPIURL, "a", cfg.BaseAPIURL, "base URL of the backend API")
	fs.StringVar(&cfg.SessionFile, "s", cfg.SessionFile, "path of the session record file")
	fs.StringVar(&cfg.CacheDB, "d", cfg.CacheDB, "path of the local cache database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
