package config

import (
	"encoding/json"
	"os"
	"time"

	"authcore/internal/flagx"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It is an intermediate DTO used only for reading JSON
// configuration files; after unmarshalling, its fields are copied into the
// runtime Config struct.
type JsonConfig struct {
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	DatabaseDSN      string `json:"database_dsn"`
	SigningKey       string `json:"signing_key"`
	TokenLifetime    string `json:"token_lifetime"`
	HashCost         int    `json:"hash_cost"`
	HashWorkers      int    `json:"hash_workers"`
	LookupTimeoutMs  int    `json:"lookup_timeout_ms"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c/-config command-line
// flag; if it is not set, no JSON file is loaded. Only fields present in
// the file override the current values. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlag()

	// nothing to load
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

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SigningKey != "" {
		config.SigningKey = c.SigningKey
	}
	if c.TokenLifetime != "" {
		config.TokenLifetime = c.TokenLifetime
	}
	if c.HashCost != 0 {
		config.HashCost = c.HashCost
	}
	if c.HashWorkers != 0 {
		config.HashWorkers = c.HashWorkers
	}
	if c.LookupTimeoutMs != 0 {
		config.LookupTimeout = time.Duration(c.LookupTimeoutMs) * time.Millisecond
	}
}
