package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	AppPort string

	// sqlite (default) or redis
	StorageBackend string

	SQLitePath string

	RedisAddr string
	RedisDB   int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	// .env is optional; real env always wins
	_ = godotenv.Load()

	c := &Config{
		AppPort:        getenv("APP_PORT", "8080"),
		StorageBackend: getenv("STORAGE_BACKEND", BackendSQLite),
		SQLitePath:     getenv("SQLITE_PATH", "tredgate.db"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.StorageBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("missing REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}
