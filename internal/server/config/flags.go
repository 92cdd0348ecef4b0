package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/backoffice/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-d string     PostgreSQL DSN
//	-s string     HMAC secret key for session tokens
//	-t duration   session token validity (e.g. "10h")
//	-secure       mark the session cookie Secure
//	-insecure-dev-secret
//	              allow an empty or placeholder secret (development only)
//	-log-level    debug, info, warn or error
//
// Arguments not listed here are ignored so -c/-config and other components'
// flags can share os.Args.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "session token validity")
	fs.BoolVar(&config.CookieSecure, "secure", config.CookieSecure, "send the session cookie over HTTPS only")
	fs.BoolVar(&config.AllowInsecureSecret, "insecure-dev-secret", config.AllowInsecureSecret, "allow the placeholder secret")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	return flagx.ParseOwn(fs, args)
}
