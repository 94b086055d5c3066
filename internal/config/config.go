// Package config loads auditor settings from flags, environment and an
// optional config file through viper.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SECRETS_AUDITOR_KUBECONFIG.
const EnvPrefix = "SECRETS_AUDITOR"

// Output formats understood by the audit command.
const (
	OutputText  = "text"
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

var outputFormats = []string{OutputText, OutputTable, OutputJSON, OutputYAML}

// Keys shared by flag definitions and viper lookups.
const (
	KeyConfig                  = "config"
	KeyKubeconfig              = "kubeconfig"
	KeyContext                 = "context"
	KeyNamespaces              = "namespace"
	KeyExcludeNamespaces       = "exclude-namespace"
	KeyExcludePrefixes         = "exclude-prefix"
	KeyIncludeImagePullSecrets = "include-image-pull-secrets"
	KeyIncludeProjected        = "include-projected"
	KeyParallelism             = "parallelism"
	KeyTimeout                 = "timeout"
	KeyOutput                  = "output"
	KeyShowUsed                = "show-used"
	KeyFailOnUnused            = "fail-on-unused"
	KeyDebug                   = "debug"
	KeyAddress                 = "address"
	KeyJWTSecret               = "jwt-secret"
	KeyTokenTTL                = "token-ttl"
)

// Defaults applied when neither flag, env nor file sets a value.
const (
	DefaultParallelism = 1
	DefaultTimeout     = 60 * time.Second
	DefaultAddress     = ":8080"
	DefaultTokenTTL    = 24 * time.Hour
)

// Config holds every setting of the auditor.
type Config struct {
	Kubeconfig              string
	Context                 string
	Namespaces              []string
	ExcludeNamespaces       []string
	ExcludePrefixes         []string
	IncludeImagePullSecrets bool
	IncludeProjected        bool
	Parallelism             int
	Timeout                 time.Duration
	Output                  string
	ShowUsed                bool
	FailOnUnused            bool
	Debug                   bool

	Address   string
	JWTSecret string
	TokenTTL  time.Duration
}

// NewViper returns a viper instance wired to the auditor's environment
// variables and defaults.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyParallelism, DefaultParallelism)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyOutput, OutputText)
	v.SetDefault(KeyAddress, DefaultAddress)
	v.SetDefault(KeyTokenTTL, DefaultTokenTTL)
	return v
}

// Load reads the config file named by the "config" key, if any, and returns
// the merged, validated configuration.
func Load(v *viper.Viper) (Config, error) {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	cfg := Config{
		Kubeconfig:              v.GetString(KeyKubeconfig),
		Context:                 v.GetString(KeyContext),
		Namespaces:              splitList(v.GetStringSlice(KeyNamespaces)),
		ExcludeNamespaces:       splitList(v.GetStringSlice(KeyExcludeNamespaces)),
		ExcludePrefixes:         splitList(v.GetStringSlice(KeyExcludePrefixes)),
		IncludeImagePullSecrets: v.GetBool(KeyIncludeImagePullSecrets),
		IncludeProjected:        v.GetBool(KeyIncludeProjected),
		Parallelism:             v.GetInt(KeyParallelism),
		Timeout:                 v.GetDuration(KeyTimeout),
		Output:                  strings.ToLower(strings.TrimSpace(v.GetString(KeyOutput))),
		ShowUsed:                v.GetBool(KeyShowUsed),
		FailOnUnused:            v.GetBool(KeyFailOnUnused),
		Debug:                   v.GetBool(KeyDebug),
		Address:                 v.GetString(KeyAddress),
		JWTSecret:               v.GetString(KeyJWTSecret),
		TokenTTL:                v.GetDuration(KeyTokenTTL),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the auditor cannot run with.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(outputFormats, c.Output) {
		errs = append(errs, fmt.Errorf("output must be one of %s, got %q", strings.Join(outputFormats, "|"), c.Output))
	}
	if c.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token-ttl must be positive, got %s", c.TokenTTL))
	}
	return errors.Join(errs...)
}

// splitList flattens comma-separated entries, as env vars arrive as one string.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
