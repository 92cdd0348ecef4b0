package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/backoffice/internal/flagx"
	"github.com/dmitrijs2005/backoffice/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields let a
// file override only what it mentions.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	SettingsTimeout       *timex.Duration `json:"settings_timeout"`
	CookieSecure          *bool           `json:"cookie_secure"`
	AllowInsecureSecret   *bool           `json:"allow_insecure_secret"`
	LogLevel              *string         `json:"log_level"`
	S3RootUser            *string         `json:"s3_root_user"`
	S3RootPassword        *string         `json:"s3_root_password"`
	S3Bucket              *string         `json:"s3_bucket"`
	S3Region              *string         `json:"s3_region"`
	S3BaseEndpoint        *string         `json:"s3_base_endpoint"`
	ProfileImageURLTTL    *timex.Duration `json:"profile_image_url_ttl"`
}

// parseJSON overlays values from the file named by -c/-config. No flag means
// no file; an unreadable or malformed file is an error.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.SettingsTimeout != nil {
		config.SettingsTimeout = c.SettingsTimeout.Duration
	}
	if c.ProfileImageURLTTL != nil {
		config.ProfileImageURLTTL = c.ProfileImageURLTTL.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if c.AllowInsecureSecret != nil {
		config.AllowInsecureSecret = *c.AllowInsecureSecret
	}

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
