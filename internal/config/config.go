// Package config loads application configuration from a YAML file with
// environment variable overrides. The path comes from the CONFIG_PATH
// environment variable or the --config flag.
package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	// Env controls the log format. Valid values: "dev", "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path of the SQLite database file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	// StaticDir holds the landing page assets served under /static.
	StaticDir string `yaml:"static_dir" env:"STATIC_DIR" env-default:"./static"`

	HTTPServer `yaml:"http_server"`
}

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8000"`
}

// MustLoad returns a valid config or exits the process.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		path := flag.String("config", "", "path to the configuration YAML file")
		flag.Parse()
		configPath = *path
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return &cfg
}
