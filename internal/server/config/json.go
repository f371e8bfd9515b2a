package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept both "15m" style strings and integer nanoseconds. Fields that are
// absent from the file keep their current value.
type JsonConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	MetricsAddr                  *string         `json:"metrics_addr"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SessionBackend               *string         `json:"session_backend"`
	RedisAddr                    *string         `json:"redis_addr"`
	RedisPassword                *string         `json:"redis_password"`
	AccessSecret                 *string         `json:"access_secret"`
	RefreshSecret                *string         `json:"refresh_secret"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	HashingConcurrency           *int            `json:"hashing_concurrency"`
	LogLevel                     *string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config.
// Without the flag nothing is loaded. An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SessionBackend, c.SessionBackend)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.AccessSecret, c.AccessSecret)
	setString(&config.RefreshSecret, c.RefreshSecret)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.HashingConcurrency != nil {
		config.HashingConcurrency = *c.HashingConcurrency
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
