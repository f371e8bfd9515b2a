package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// ValueFlags are the client flags that consume the next argument. Callers
// use it to separate flags from the command and its arguments.
var ValueFlags = []string{"-a", "-timeout", "-c", "-config"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     address and port of the server (default from Config)
//	-timeout int  per-request timeout in seconds (default from Config)
//
// Only these flags are parsed from os.Args, so commands and their arguments
// may appear anywhere on the line.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-timeout"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("timeout", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
