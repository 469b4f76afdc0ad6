package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress    = "127.0.0.1:7345"
	defaultServerAddress = "127.0.0.1:7345"
	defaultLogLevel      = "info"
	defaultEnv           = EnvLocal
	defaultDataDir       = ".clipvault"
	defaultDatabaseFile  = "notes.db"
	defaultKeyFile       = "vault.key"
)

type Config struct {
	Env    string
	DB     DB
	Vault  Vault
	Server Server
	Client Client
	Logger Logger
}

type DB struct {
	Path string `env:"DATABASE_PATH"`
}

type Vault struct {
	KeyPath string `env:"KEY_PATH"`
}

type Server struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type Client struct {
	ServerAddress string `env:"SERVER_ADDRESS"`
}

type Logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// New loads configuration from .env (when present) and the environment.
// File paths default to ~/.clipvault; the directory is created on first use.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("RUN_ADDRESS", defaultRunAddress)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("DATA_DIR", "")

	dataDir := viper.GetString("DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataDir = filepath.Join(home, defaultDataDir)
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		log.Printf("failed to create data directory %s: %v", dataDir, err)
	}

	dbPath := viper.GetString("DATABASE_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, defaultDatabaseFile)
	}

	keyPath := viper.GetString("KEY_PATH")
	if keyPath == "" {
		keyPath = filepath.Join(dataDir, defaultKeyFile)
	}

	cfg := &Config{
		Env:    viper.GetString("APP_ENV"),
		DB:     DB{Path: dbPath},
		Vault:  Vault{KeyPath: keyPath},
		Server: Server{RunAddress: viper.GetString("RUN_ADDRESS")},
		Client: Client{ServerAddress: viper.GetString("SERVER_ADDRESS")},
		Logger: Logger{LogLevel: viper.GetString("LOG_LEVEL")},
	}

	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	return cfg
}

func (c *Config) validate() error {
	if c.Server.RunAddress == "" {
		return fmt.Errorf("run_address must not be empty")
	}
	if c.DB.Path == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.Vault.KeyPath == "" {
		return fmt.Errorf("key_path must not be empty")
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
