package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/werkstatt/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   database DSN (default from Config)
//	-k string   backend service key (default from Config)
//	-s string   S3-compatible base endpoint (default from Config)
//	-t int      timer refresh interval in seconds (default from Config)
//	-odo bool   require a positive odometer value before closing a job
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-k", "-s", "-t", "-odo"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.ServiceKey, "k", cfg.ServiceKey, "backend service key")
	fs.StringVar(&cfg.S3BaseEndpoint, "s", cfg.S3BaseEndpoint, "S3-compatible base endpoint for photo storage")
	tickInterval := fs.Int("t", int(cfg.TickInterval.Seconds()), "timer refresh interval (in seconds)")
	fs.BoolVar(&cfg.RequireOdometer, "odo", cfg.RequireOdometer, "require a positive odometer value before closing a job")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TickInterval = time.Duration(*tickInterval) * time.Second
}
