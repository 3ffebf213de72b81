// Package config provides runtime configuration for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server and the store backend.
type Config struct {
	HTTPAddr        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// StoreBackend selects the persistence layer: memory, redis or mongo.
	StoreBackend  string
	RedisAddr     string
	RedisPassword string
	MongoURI      string
	MongoDBName   string

	LogLevel string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durenvs(key string, defSec int) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return time.Duration(defSec) * time.Second
	}
	sec, err := strconv.Atoi(v)
	if err != nil {
		return time.Duration(defSec) * time.Second
	}
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		RequestTimeout:  durenvs("REQUEST_TIMEOUT", 30),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 10),
		StoreBackend:    getenv("STORE_BACKEND", "memory"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getenv("MONGO_DB_NAME", "cartdb"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
	}
}
