package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// CleanConfig holds configuration for the clean command.
type CleanConfig struct {
	Store      StoreConfig
	Checkpoint string
	LogLevel   string
}

// LoadClean merges config file, environment variables, and flags into CleanConfig.
func LoadClean(cfgFile string, flags *pflag.FlagSet) (CleanConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setStoreDefaults(v)
	v.SetDefault("checkpoint", "./data/checkpoint.json")
	v.SetDefault("log-level", "info")

	if err := readInto(v, cfgFile, flags); err != nil {
		return CleanConfig{}, err
	}

	return CleanConfig{
		Store:      storeConfig(v),
		Checkpoint: v.GetString("checkpoint"),
		LogLevel:   v.GetString("log-level"),
	}, nil
}
