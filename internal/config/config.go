// Package config loads editor and server settings from the environment, with
// an optional .env file in the working directory.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	WindowWidth  int
	WindowHeight int
	ProjectKey   string

	Store StoreConfig

	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
}

// StoreConfig selects and configures the project store driver.
type StoreConfig struct {
	Driver     string // fs|sqlite|s3|memory
	FSRoot     string
	SQLitePath string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// Load reads .env (when present) and then the process environment. Variables
// already set in the environment win over .env entries.
func Load() *Config {
	loadDotEnv(".env")

	return &Config{
		WindowWidth:  getEnvAsInt("PLANTA_WINDOW_WIDTH", 1024),
		WindowHeight: getEnvAsInt("PLANTA_WINDOW_HEIGHT", 768),
		ProjectKey:   getEnv("PLANTA_PROJECT_KEY", "planta.json"),
		Store: StoreConfig{
			Driver:      getEnv("PLANTA_STORE_DRIVER", "fs"),
			FSRoot:      getEnv("PLANTA_STORE_FS_ROOT", "./projects"),
			SQLitePath:  getEnv("PLANTA_SQLITE_PATH", "./projects/planta.db"),
			S3Bucket:    getEnv("PLANTA_S3_BUCKET", ""),
			S3Region:    getEnv("PLANTA_S3_REGION", "us-east-1"),
			S3Endpoint:  getEnv("PLANTA_S3_ENDPOINT", ""),
			S3PathStyle: getEnvAsBool("PLANTA_S3_PATH_STYLE", false),
		},
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
	}
}

func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("config: could not load %s: %v", path, err)
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("config: %s=%q is not an integer, using %d", key, value, defaultVal)
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultVal
}
