package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/opnfv/kube-node-validator/pkg/logging"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables overriding script settings
const EnvPrefix = "VALIDATOR"

// Load reads and validates the configuration file at path
func Load(path string) (*Config, error) {
	log := logging.For("config")

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, classify(path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &LoadError{Path: path, Kind: KindMalformed, Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Path: path, Kind: KindInvalid, Err: err}
	}

	log.WithField("path", path).Debugf("loaded configuration with %d test cases", len(cfg.TestCases))
	return &cfg, nil
}

func classify(path string, err error) error {
	var parseErr viper.ConfigParseError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &LoadError{Path: path, Kind: KindNotFound, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &LoadError{Path: path, Kind: KindPermissionDenied, Err: err}
	case errors.As(err, &parseErr):
		return &LoadError{Path: path, Kind: KindMalformed, Err: err}
	default:
		return &LoadError{Path: path, Kind: KindMalformed, Err: err}
	}
}

// Validate checks the values that the run cannot do without
func (c *Config) Validate() error {
	s := c.Script
	if strings.TrimSpace(s.PodNamespace) == "" {
		return errors.New("script.podNamespace must not be empty")
	}
	if strings.TrimSpace(s.DeployFiles.Directory) == "" {
		return errors.New("script.deployFiles.directory must not be empty")
	}
	if s.NamespacePause < 0 || s.PodPause < 0 {
		return fmt.Errorf("pauses must not be negative (namespacePause=%d, podPause=%d)", s.NamespacePause, s.PodPause)
	}
	if s.PollInterval <= 0 {
		return fmt.Errorf("script.pollInterval must be positive, got %d", s.PollInterval)
	}
	for i, tc := range c.TestCases {
		if tc.Name == "" {
			return fmt.Errorf("testCases[%d] has no name", i)
		}
	}
	return nil
}
