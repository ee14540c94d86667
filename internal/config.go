package internal

import (
	"fmt"

	"github.com/hbomb79/Syphon/internal/api"
	"github.com/hbomb79/Syphon/internal/extractor"
	"github.com/hbomb79/Syphon/internal/limiter"
	"github.com/hbomb79/Syphon/internal/proxy"
	"github.com/ilyakaznacheev/cleanenv"
)

// SyphonConfig is the struct used to contain the various user config
// supplied by file, or manually inside the code.
type SyphonConfig struct {
	Rest      api.RestConfig   `yaml:"api"`
	RateLimit limiter.Config   `yaml:"rate_limit"`
	Extractor extractor.Config `yaml:"extractor"`
	Proxy     proxy.Config     `yaml:"proxy"`
	RedisURL  string           `yaml:"redis_url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
}

// LoadFromFile loads a configuration file formatted in YAML in to a
// SyphonConfig struct, with environment variables taking precedence.
func (config *SyphonConfig) LoadFromFile(configPath string) error {
	if err := cleanenv.ReadConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to load configuration for SyphonConfig - %v", err.Error())
	}

	return nil
}

// LoadFromEnv populates the config from environment variables alone,
// falling back to the tagged defaults.
func (config *SyphonConfig) LoadFromEnv() error {
	if err := cleanenv.ReadEnv(config); err != nil {
		return fmt.Errorf("failed to load configuration for SyphonConfig - %v", err.Error())
	}

	return nil
}
