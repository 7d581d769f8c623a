package config

import "os"

// Server captures process-level configuration.
type Server struct {
	Addr        string
	DatabaseURL string
	LogLevel    string
	SeedCatalog bool
}

// FromEnv builds a Server config from environment variables so main stays
// lean. An empty DatabaseURL selects the in-memory stores (local runs and
// tests); production always sets QUOTIENT_DATABASE_URL.
func FromEnv() Server {
	addr := os.Getenv("QUOTIENT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	level := os.Getenv("QUOTIENT_LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("QUOTIENT_DATABASE_URL"),
		LogLevel:    level,
		SeedCatalog: os.Getenv("QUOTIENT_SEED") == "true",
	}
}
