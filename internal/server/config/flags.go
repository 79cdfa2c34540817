package config

import (
	"flag"
	"os"

	"github.com/kairo-health/kairo-server/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":3000")
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-t duration   token validity (e.g., "24h")
//	-p duration   expired-session purge interval (e.g., "1h")
//	-r string     Redis address for the session ledger (optional)
//	-k string     Gemini API key
//	-m string     Gemini model name
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flags handled
// by the JSON overlay.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-p", "-r", "-k", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "token validity duration")
	fs.DurationVar(&config.SessionPurgeInterval, "p", config.SessionPurgeInterval, "session purge interval")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address for the session ledger")
	fs.StringVar(&config.GeminiAPIKey, "k", config.GeminiAPIKey, "Gemini API key")
	fs.StringVar(&config.GeminiModel, "m", config.GeminiModel, "Gemini model name")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
