package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config carries every service setting, populated from the environment.
type Config struct {
	Port        string `mapstructure:"PORT"`
	BodyLimitMB int    `mapstructure:"BODY_LIMIT_MB"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	StorageBucket    string `mapstructure:"STORAGE_BUCKET"`
	StoragePrefix    string `mapstructure:"STORAGE_PREFIX"`
	StorageRegion    string `mapstructure:"STORAGE_REGION"`
	StorageEndpoint  string `mapstructure:"STORAGE_ENDPOINT"`
	StoragePathStyle bool   `mapstructure:"STORAGE_PATH_STYLE"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
}

func Load() Config {
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("BODY_LIMIT_MB", 25)
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CACHE_TTL", "24h")

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}

// BodyLimitBytes converts the configured megabyte bound for fiber.
func (c Config) BodyLimitBytes() int {
	return c.BodyLimitMB * 1024 * 1024
}
