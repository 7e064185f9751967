package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string            `yaml:"env" env-default:"development"` // environment
	OrderAPI    OrderAPIConfig    `yaml:"order_api"`
	CartService CartServiceConfig `yaml:"cart_service"`
	DevServer   DevServerConfig   `yaml:"dev_server"`
}

// OrderAPIConfig points the order client at the backend REST API. The token
// is never read from the file, only from the environment.
type OrderAPIConfig struct {
	BaseURL string        `yaml:"base_url" env-default:"http://localhost:8081/api"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
	Token   string        `yaml:"-" env:"STOREFRONT_TOKEN"`
}

// CartServiceConfig points the cart client at the external cart service.
type CartServiceConfig struct {
	BaseURL string        `yaml:"base_url" env-default:"http://localhost:8081/api"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
}

// DevServerConfig configures the local stub backend.
type DevServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8081"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	TokenTTL    int           `yaml:"token_ttl" env-default:"60"` // minutes
}

// MustLoad - panic when the config cannot be loaded
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s", configPath)
	}

	return &cfg
}
