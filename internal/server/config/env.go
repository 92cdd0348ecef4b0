package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv overlays values from environment variables. Unset variables leave
// the current value alone; set but unparsable ones are an error.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"BACKOFFICE_ADDR":  &config.EndpointAddrHTTP,
		"DATABASE_DSN":     &config.DatabaseDSN,
		"SECRET_KEY":       &config.SecretKey,
		"LOG_LEVEL":        &config.LogLevel,
		"S3_ROOT_USER":     &config.S3RootUser,
		"S3_ROOT_PASSWORD": &config.S3RootPassword,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"TOKEN_EXPIRES_IN":      &config.TokenValidityDuration,
		"SETTINGS_TIMEOUT":      &config.SettingsTimeout,
		"PROFILE_IMAGE_URL_TTL": &config.ProfileImageURLTTL,
	}
	for name, dst := range durations {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", name, err)
		}
		*dst = d
	}

	bools := map[string]*bool{
		"COOKIE_SECURE":         &config.CookieSecure,
		"ALLOW_INSECURE_SECRET": &config.AllowInsecureSecret,
	}
	for name, dst := range bools {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", name, err)
		}
		*dst = b
	}

	return nil
}
