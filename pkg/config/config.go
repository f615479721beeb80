package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	Env          string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	RedisAddr    string // empty disables the pub/sub bridge
	ClientOrigin string
}

func Load() *Config {
	// Load environment variables from .env file when present
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "ideanest"),
		JWTSecret:    getEnv("JWT_SECRET", "supersecretjwtkey"),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
