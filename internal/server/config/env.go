package config

import "os"

// parseEnv overlays values from environment variables. Secrets are accepted
// here so they do not have to be passed on the command line.
//
//	ADDRESS         HTTP bind address
//	DATABASE_DSN    PostgreSQL DSN
//	JWT_SECRET      HMAC signing secret
//	REDIS_ADDR      Redis address for the session ledger
//	GEMINI_API_KEY  Gemini credential
//	GEMINI_MODEL    Gemini model name
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
	if v, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
		config.GeminiAPIKey = v
	}
	if v, ok := os.LookupEnv("GEMINI_MODEL"); ok {
		config.GeminiModel = v
	}
}
