// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server and both stores.
type Config struct {
	HTTPAddr        string
	MySQLDSN        string
	RedisAddr       string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	return time.Duration(atoienv(key, defMs)) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	return time.Duration(atoienv(key, defSec)) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		MySQLDSN:        getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/sales?parseTime=true"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		MaxOpenConns:    atoienv("MYSQL_MAX_OPEN_CONNS", 20),
		MaxIdleConns:    atoienv("MYSQL_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime: durenvs("MYSQL_CONN_MAX_LIFETIME_S", 300),
		ConnectTimeout:  durenvms("CONNECT_TIMEOUT_MS", 2000),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 5),
	}
}
