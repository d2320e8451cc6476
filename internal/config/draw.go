package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DrawConfig holds configuration for the draw command.
type DrawConfig struct {
	Winners   int
	Exclude   []string
	Seed      int64
	Tokens    []string
	Store     StoreConfig
	PageSize  int
	Decimals  uint8
	Precision int
	Format    string
	Out       string
	LogLevel  string
}

// LoadDraw merges config file, environment variables, and flags into DrawConfig.
func LoadDraw(cfgFile string, flags *pflag.FlagSet) (DrawConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("winners", 100)
	v.SetDefault("token", DefaultTokens)
	setStoreDefaults(v)
	v.SetDefault("page-size", 1000)
	v.SetDefault("decimals", 18)
	v.SetDefault("format", "table")
	v.SetDefault("log-level", "info")

	if err := readInto(v, cfgFile, flags); err != nil {
		return DrawConfig{}, err
	}

	cfg := DrawConfig{
		Winners:   v.GetInt("winners"),
		Exclude:   getStringSlice(v, "exclude"),
		Seed:      v.GetInt64("seed"),
		Tokens:    getStringSlice(v, "token"),
		Store:     storeConfig(v),
		PageSize:  v.GetInt("page-size"),
		Decimals:  uint8(v.GetUint("decimals")),
		Precision: v.GetInt("precision"),
		Format:    v.GetString("format"),
		Out:       v.GetString("out"),
		LogLevel:  v.GetString("log-level"),
	}

	return cfg, nil
}
