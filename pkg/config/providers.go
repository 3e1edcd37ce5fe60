package config

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotConfigured marks a provider whose source does not apply in the
// current environment, letting the resolution chain move on.
var ErrNotConfigured = errors.New("configuration source not configured")

const (
	// EnvConfigPath names a config file through the environment
	EnvConfigPath = "KNOWYOURMORTGAGE_CONFIG"
	// LocalConfigFile is picked up from the working directory when present
	LocalConfigFile = "knowyourmortgage.yaml"
)

// Provider is one source in the configuration resolution chain
type Provider interface {
	// Name identifies the source in logs and error messages
	Name() string
	// Load returns the provider's configuration, or ErrNotConfigured
	// when the source does not apply
	Load() (*Config, error)
}

// flagProvider loads the file named by the -config flag
type flagProvider struct {
	path string
}

func (p flagProvider) Name() string { return "flag " + p.path }

func (p flagProvider) Load() (*Config, error) {
	if p.path == "" {
		return nil, ErrNotConfigured
	}
	return LoadConfig(p.path)
}

// envProvider loads the file named by KNOWYOURMORTGAGE_CONFIG
type envProvider struct{}

func (envProvider) Name() string { return "env " + EnvConfigPath }

func (envProvider) Load() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return nil, ErrNotConfigured
	}
	return LoadConfig(path)
}

// localProvider loads knowyourmortgage.yaml from the working directory
type localProvider struct{}

func (localProvider) Name() string { return "file " + LocalConfigFile }

func (localProvider) Load() (*Config, error) {
	if _, err := os.Stat(LocalConfigFile); err != nil {
		return nil, ErrNotConfigured
	}
	return LoadConfig(LocalConfigFile)
}

// embeddedProvider falls back to the compiled-in defaults
type embeddedProvider struct{}

func (embeddedProvider) Name() string { return "embedded defaults" }

func (embeddedProvider) Load() (*Config, error) { return LoadDefaultConfig() }

// Providers returns the resolution chain in priority order: explicit
// flag path, environment variable, local file, embedded defaults.
func Providers(flagPath string) []Provider {
	return []Provider{
		flagProvider{path: flagPath},
		envProvider{},
		localProvider{},
		embeddedProvider{},
	}
}

// Resolve walks the provider chain and returns the first configuration
// that loads, along with the name of its source. A source that is
// present but unreadable fails the resolution instead of falling
// through: a misspelled explicit path should not silently analyze the
// defaults.
func Resolve(flagPath string) (*Config, string, error) {
	for _, p := range Providers(flagPath) {
		cfg, err := p.Load()
		if errors.Is(err, ErrNotConfigured) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("loading configuration from %s: %w", p.Name(), err)
		}
		return cfg, p.Name(), nil
	}
	return nil, "", errors.New("no configuration source available")
}
