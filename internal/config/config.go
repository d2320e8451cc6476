package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "RAFFLE"

// FetchConfig holds configuration values for the fetch command.
type FetchConfig struct {
	Source            string
	APIKey            string
	APIURL            string
	ChainName         string
	BlockHeight       string
	PageSize          int
	RPCURL            string
	FromBlock         uint64
	BatchSize         uint64
	Tokens            []string
	Store             StoreConfig
	Snapshot          string
	Checkpoint        string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
	LogLevel          string
}

// StoreConfig selects and locates the holder store.
type StoreConfig struct {
	Kind   string
	DBPath string
	PGDSN  string
}

// LoadFetch merges config file, environment variables, and flags into FetchConfig.
func LoadFetch(cfgFile string, flags *pflag.FlagSet) (FetchConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("source", "covalent")
	v.SetDefault("api-url", "https://api.covalenthq.com")
	v.SetDefault("chain-name", "base-mainnet")
	v.SetDefault("block", "latest")
	v.SetDefault("page-size", 1000)
	v.SetDefault("batch-size", uint64(2000))
	v.SetDefault("token", DefaultTokens)
	setStoreDefaults(v)
	v.SetDefault("checkpoint", "./data/checkpoint.json")
	v.SetDefault("checkpoint-enabled", true)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if err := readInto(v, cfgFile, flags); err != nil {
		return FetchConfig{}, err
	}

	cfg := FetchConfig{
		Source:            v.GetString("source"),
		APIKey:            v.GetString("api-key"),
		APIURL:            v.GetString("api-url"),
		ChainName:         v.GetString("chain-name"),
		BlockHeight:       v.GetString("block"),
		PageSize:          v.GetInt("page-size"),
		RPCURL:            v.GetString("rpc"),
		FromBlock:         v.GetUint64("from"),
		BatchSize:         v.GetUint64("batch-size"),
		Tokens:            getStringSlice(v, "token"),
		Store:             storeConfig(v),
		Snapshot:          v.GetString("snapshot"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		LogLevel:          v.GetString("log-level"),
	}

	return cfg, nil
}

func readInto(v *viper.Viper, cfgFile string, flags *pflag.FlagSet) error {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func setStoreDefaults(v *viper.Viper) {
	v.SetDefault("store", "pebble")
	v.SetDefault("db-path", "./data/holders.db")
}

func storeConfig(v *viper.Viper) StoreConfig {
	return StoreConfig{
		Kind:   v.GetString("store"),
		DBPath: v.GetString("db-path"),
		PGDSN:  v.GetString("pg-dsn"),
	}
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
