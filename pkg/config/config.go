package config

import "os"

// defaultJWTSecret is the development fallback; deployments set JWT_SECRET.
const defaultJWTSecret = "supersecretjwtkey"

type Config struct {
	Port            string
	Env             string
	PostgresConnStr string
	MongoURI        string
	JWTSecret       string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:        getEnv("MONGO_URI", ""),
		JWTSecret:       JWTSigningKey(),
	}
}

// JWTSigningKey returns the HMAC key used to sign and verify session tokens.
// Issuing and verifying must read the same source, so both go through here.
func JWTSigningKey() string {
	return getEnv("JWT_SECRET", defaultJWTSecret)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
