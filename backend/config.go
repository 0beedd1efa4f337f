// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/stcorp/muninn-ecmwfmars/mars"
)

const (
	DefaultEnvPrefix = "ECMWFMARS"

	DefaultEndpoint     = "https://api.ecmwf.int/v1"
	DefaultMaxRetries   = 3
	DefaultPollInterval = 10 * time.Second
	DefaultRetryDelay   = 5 * time.Second
	DefaultRetryMaxWait = 2 * time.Minute
)

var DefaultConfig = Config{
	Service: mars.ClientConfig{
		Endpoint: DefaultEndpoint,
	},
	MaxRetries:   DefaultMaxRetries,
	PollInterval: DefaultPollInterval,
	RetryDelay:   DefaultRetryDelay,
	RetryMaxWait: DefaultRetryMaxWait,
}

// Config configures the remote backend. It is always passed in explicitly;
// LoadConfig is a convenience for processes that configure through the
// environment.
type Config struct {
	// Service holds the MARS web service endpoint and credentials.
	Service mars.ClientConfig `json:"service" mapstructure:"service"`

	// MaxRetries bounds the transient-failure retries per sub-request, on
	// top of the first attempt.
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`

	// PollInterval is the delay between job status polls.
	PollInterval time.Duration `json:"poll_interval" mapstructure:"poll_interval"`

	// RetryDelay and RetryMaxWait bound the exponential backoff between
	// retry attempts.
	RetryDelay   time.Duration `json:"retry_delay"    mapstructure:"retry_delay"`
	RetryMaxWait time.Duration `json:"retry_max_wait" mapstructure:"retry_max_wait"`

	// JournalPath, when set, persists the pull journal on disk so
	// completed pulls short-circuit across processes. Empty keeps the
	// journal in memory.
	JournalPath string `json:"journal_path,omitempty" mapstructure:"journal_path"`
}

// LoadConfig reads the backend configuration from ECMWFMARS_* environment
// variables on top of the defaults.
func LoadConfig() (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	_ = v.BindEnv("service.endpoint")
	v.SetDefault("service.endpoint", DefaultEndpoint)

	_ = v.BindEnv("service.key")
	v.SetDefault("service.key", "")

	_ = v.BindEnv("service.email")
	v.SetDefault("service.email", "")

	_ = v.BindEnv("max_retries")
	v.SetDefault("max_retries", DefaultMaxRetries)

	_ = v.BindEnv("poll_interval")
	v.SetDefault("poll_interval", DefaultPollInterval)

	_ = v.BindEnv("retry_delay")
	v.SetDefault("retry_delay", DefaultRetryDelay)

	_ = v.BindEnv("retry_max_wait")
	v.SetDefault("retry_max_wait", DefaultRetryMaxWait)

	_ = v.BindEnv("journal_path")
	v.SetDefault("journal_path", "")

	decodeHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	config := &Config{}
	if err := v.Unmarshal(config, viper.DecodeHook(decodeHooks)); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return config, nil
}
