package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var serverFlags = []string{
	"-a", "-m", "-d", "-b", "-redis", "-redis-password",
	"-access-secret", "-refresh-secret", "-t", "-r", "-w", "-l",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string               gRPC bind address (e.g., ":50051")
//	-m string               metrics/health bind address, empty to disable
//	-d string               PostgreSQL DSN
//	-b string               session backend: postgres, redis or memory
//	-redis string           Redis address
//	-redis-password string  Redis password
//	-access-secret string   HMAC key for access tokens
//	-refresh-secret string  HMAC key for refresh tokens
//	-t int                  access token validity, minutes
//	-r int                  refresh token validity, minutes
//	-w int                  max parallel password hashing operations
//	-l string               log level
//
// Only the flags above are picked out of os.Args (see flagx.FilterArgs), so
// the JSON -config flag does not collide. Parse errors panic.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for metrics and health probes")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionBackend, "b", config.SessionBackend, "session backend (postgres, redis, memory)")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "redis-password", config.RedisPassword, "redis password")
	fs.StringVar(&config.AccessSecret, "access-secret", config.AccessSecret, "access token secret")
	fs.StringVar(&config.RefreshSecret, "refresh-secret", config.RefreshSecret, "refresh token secret")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.IntVar(&config.HashingConcurrency, "w", config.HashingConcurrency, "max parallel password hashing operations")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
