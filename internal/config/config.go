package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
)

const defaultCacheTTL = 10 * time.Minute

type ServerConfig struct {
	RunAddr         string        `env:"SERVER_ADDRESS" json:"server_address"`
	BaseURL         string        `env:"BASE_URL" json:"base_url"`
	AirtableAPIBase string        `env:"AIRTABLE_API_BASE" json:"airtable_api_base"`
	AirtableToken   string        `env:"AIRTABLE_TOKEN" json:"airtable_token"`
	AirtableBase    string        `env:"AIRTABLE_BASE" json:"airtable_base"`
	AirtableTable   string        `env:"AIRTABLE_TABLE" json:"airtable_table"`
	AirtableView    string        `env:"AIRTABLE_VIEW" json:"airtable_view"`
	TLSCertPath     string        `env:"TLS_CERT_PATH" json:"tls_cert_path"`
	TLSKeyPath      string        `env:"TLS_KEY_PATH" json:"tls_key_path"`
	Config          string        `env:"CONFIG" json:"-"`
	CacheTTL        time.Duration `env:"CACHE_TTL" json:"-"`
	EnableHTTPS     bool          `env:"ENABLE_HTTPS" json:"enable_https"`
	ProfileMode     bool          `env:"PROFILE_MODE" json:"profile_mode"`
}

// fileConfig mirrors the JSON config file; the TTL is a duration string
// there ("10m"), not nanoseconds.
type fileConfig struct {
	ServerConfig
	CacheTTL string `json:"cache_ttl"`
}

var ErrMissingCredentials = errors.New("airtable token, base and table are required")

var config ServerConfig

// ParseFlags resolves the configuration from three layers: explicit flags
// and env variables win, then the JSON config file, then flag defaults.
func ParseFlags() (*ServerConfig, error) {
	flag.StringVar(&config.RunAddr, "a", ":8080", "address and port to run server")
	flag.StringVar(&config.BaseURL, "b", "http://localhost:8080", "public base URL for proxied image links")
	flag.StringVar(&config.AirtableAPIBase, "api", "https://api.airtable.com/v0", "upstream API base URL")
	flag.StringVar(&config.AirtableToken, "t", "", "upstream API token")
	flag.StringVar(&config.AirtableBase, "base", "", "upstream base (collection) ID")
	flag.StringVar(&config.AirtableTable, "table", "", "upstream table name")
	flag.StringVar(&config.AirtableView, "view", "", "optional upstream view filter")
	flag.DurationVar(&config.CacheTTL, "ttl", defaultCacheTTL, "image URL cache TTL")
	flag.BoolVar(&config.EnableHTTPS, "s", false, "enable HTTPS")
	flag.StringVar(&config.TLSCertPath, "cert", "./certs/cert.pem", "TLS certificate path")
	flag.StringVar(&config.TLSKeyPath, "key", "./certs/private.pem", "TLS private key path")
	flag.BoolVar(&config.ProfileMode, "p", false, "register pprof endpoints")
	flag.StringVar(&config.Config, "c", "", "path to JSON config file")
	flag.Parse()

	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("error parsing env variables: %w", err)
	}

	if config.Config != "" {
		if err := applyConfigFile(&config, config.Config, explicitOverrides()); err != nil {
			return nil, err
		}
	}

	if config.AirtableToken == "" || config.AirtableBase == "" || config.AirtableTable == "" {
		return nil, ErrMissingCredentials
	}

	return &config, nil
}

// flagEnvNames maps every configurable flag to its env variable, so the
// merge can tell apart a flag default from an explicit override.
var flagEnvNames = map[string]string{
	"a":     "SERVER_ADDRESS",
	"b":     "BASE_URL",
	"api":   "AIRTABLE_API_BASE",
	"t":     "AIRTABLE_TOKEN",
	"base":  "AIRTABLE_BASE",
	"table": "AIRTABLE_TABLE",
	"view":  "AIRTABLE_VIEW",
	"ttl":   "CACHE_TTL",
	"s":     "ENABLE_HTTPS",
	"cert":  "TLS_CERT_PATH",
	"key":   "TLS_KEY_PATH",
	"p":     "PROFILE_MODE",
}

// explicitOverrides reports, by flag name, which fields were set on the
// command line or through an env variable. Only those beat the config file;
// plain flag defaults do not.
func explicitOverrides() map[string]bool {
	overridden := make(map[string]bool, len(flagEnvNames))

	flag.Visit(func(f *flag.Flag) {
		if _, ok := flagEnvNames[f.Name]; ok {
			overridden[f.Name] = true
		}
	})
	for name, envName := range flagEnvNames {
		if _, ok := os.LookupEnv(envName); ok {
			overridden[name] = true
		}
	}

	return overridden
}

// applyConfigFile merges the JSON config file into cfg. A file value applies
// unless the field was explicitly overridden by a flag or env variable.
func applyConfigFile(cfg *ServerConfig, path string, overridden map[string]bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	var fileCfg fileConfig
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}

	if fileCfg.RunAddr != "" && !overridden["a"] {
		cfg.RunAddr = fileCfg.RunAddr
	}
	if fileCfg.BaseURL != "" && !overridden["b"] {
		cfg.BaseURL = fileCfg.BaseURL
	}
	if fileCfg.AirtableAPIBase != "" && !overridden["api"] {
		cfg.AirtableAPIBase = fileCfg.AirtableAPIBase
	}
	if fileCfg.AirtableToken != "" && !overridden["t"] {
		cfg.AirtableToken = fileCfg.AirtableToken
	}
	if fileCfg.AirtableBase != "" && !overridden["base"] {
		cfg.AirtableBase = fileCfg.AirtableBase
	}
	if fileCfg.AirtableTable != "" && !overridden["table"] {
		cfg.AirtableTable = fileCfg.AirtableTable
	}
	if fileCfg.AirtableView != "" && !overridden["view"] {
		cfg.AirtableView = fileCfg.AirtableView
	}
	if fileCfg.TLSCertPath != "" && !overridden["cert"] {
		cfg.TLSCertPath = fileCfg.TLSCertPath
	}
	if fileCfg.TLSKeyPath != "" && !overridden["key"] {
		cfg.TLSKeyPath = fileCfg.TLSKeyPath
	}
	if fileCfg.EnableHTTPS && !overridden["s"] {
		cfg.EnableHTTPS = true
	}
	if fileCfg.ProfileMode && !overridden["p"] {
		cfg.ProfileMode = true
	}
	if fileCfg.CacheTTL != "" && !overridden["ttl"] {
		ttl, err := time.ParseDuration(fileCfg.CacheTTL)
		if err != nil {
			return fmt.Errorf("error parsing cache_ttl: %w", err)
		}
		cfg.CacheTTL = ttl
	}

	return nil
}
