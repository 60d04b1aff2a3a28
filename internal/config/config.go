package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/akazakov/shop-backend/pkg/utils"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTP   `yaml:"http"`
	Postgres PG     `yaml:"postgres"`
	Redis    Redis  `yaml:"redis"`
	Auth     Auth   `yaml:"auth"`
	Logger   Logger `yaml:"logger"`
}

type HTTP struct {
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:":3000"`
	Timeout time.Duration `yaml:"timeout" env-default:"4s"`
}

type PG struct {
	URL string `yaml:"url" env:"DB_URL"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"10m"`
}

type Auth struct {
	AccessSecret string        `yaml:"access_secret" env:"ACCESS_SECRET"`
	AccessTTL    time.Duration `yaml:"access_ttl" env-default:"15m"`
}

type Logger struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

func MustLoad() *Config {
	configPath := utils.ParseWithFallback("CONFIG_PATH", "./config/local.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exists: %v\n", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	return &cfg
}
