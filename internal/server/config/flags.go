package config

import (
	"flag"
	"os"
	"time"

	"authcore/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token signing key
//	-t string   token lifetime ("7d", "1h", "30m", "45s", bare seconds)
//	-o int      bcrypt cost factor
//	-w int      max concurrent bcrypt operations
//	-l int      account lookup timeout, milliseconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-o", "-w", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SigningKey, "s", config.SigningKey, "token signing key")
	fs.StringVar(&config.TokenLifetime, "t", config.TokenLifetime, "token lifetime (e.g. 7d)")
	fs.IntVar(&config.HashCost, "o", config.HashCost, "bcrypt cost factor")
	fs.IntVar(&config.HashWorkers, "w", config.HashWorkers, "max concurrent bcrypt operations")

	lookupTimeoutMs := fs.Int("l", int(config.LookupTimeout.Milliseconds()), "account lookup timeout (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.LookupTimeout = time.Duration(*lookupTimeoutMs) * time.Millisecond
}
