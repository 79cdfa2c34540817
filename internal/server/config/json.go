package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/kairo-health/kairo-server/internal/flagx"
	"github.com/kairo-health/kairo-server/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "24h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	SessionPurgeInterval  timex.Duration `json:"session_purge_interval"`
	RedisAddr             string         `json:"redis_addr"`
	GeminiAPIKey          string         `json:"gemini_api_key"`
	GeminiModel           string         `json:"gemini_model"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. An unreadable file or
// invalid JSON panics: a half-applied config is worse than no server.
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

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	}
	if c.SessionPurgeInterval.Duration != 0 {
		config.SessionPurgeInterval = time.Duration(c.SessionPurgeInterval.Duration)
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.GeminiAPIKey != "" {
		config.GeminiAPIKey = c.GeminiAPIKey
	}
	if c.GeminiModel != "" {
		config.GeminiModel = c.GeminiModel
	}
}
