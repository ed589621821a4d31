// Package config loads application configuration from environment
// variables.
package config

import (
    "log"
    "os"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Database fields are only required when
// the MySQL store driver is selected; the in-memory driver needs none.
type Config struct {
    Env         string // application environment (e.g. "dev", "prod")
    Port        string // HTTP port to listen on
    StoreDriver string // "mysql" or "memory"
    DBUser      string // database username
    DBPass      string // database password (optional)
    DBHost      string // database host address
    DBPort      string // database port number
    DBName      string // database name
}

// Load reads configuration from environment variables.  APP_ENV,
// APP_PORT and STORE_DRIVER fall back to development defaults; the
// database variables are enforced by must() only for the MySQL driver.
func Load() Config {
    cfg := Config{
        Env:         getenv("APP_ENV", "dev"),
        Port:        getenv("APP_PORT", "3000"),
        StoreDriver: getenv("STORE_DRIVER", "memory"),
    }
    if cfg.StoreDriver == "mysql" {
        cfg.DBUser = must("DB_USER")
        cfg.DBPass = os.Getenv("DB_PASS")
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = must("DB_PORT")
        cfg.DBName = must("DB_NAME")
    }
    return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}
