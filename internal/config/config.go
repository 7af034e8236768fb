// Package config resuelve el backend de almacenamiento y sus
// parámetros. Orden de resolución: valor explícito (flag) > variable
// de entorno > default.
package config

import (
	"os"
	"strings"
)

const (
	BackendJSON     = "json"
	BackendDynamo   = "ddb"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	// Backend: json (default) | ddb | postgres | memory.
	Backend string

	// Backend json: ruta del archivo de datos.
	DBPath string

	// Backend ddb: tabla y región.
	DDBTable  string
	AWSRegion string

	// Backend postgres: dsn de conexión.
	PostgresDSN string
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// FromEnv arma la config con defaults y variables de entorno.
func FromEnv() Config {
	return Config{
		Backend:     strings.ToLower(envOr("BACKEND", BackendJSON)),
		DBPath:      envOr("MONKEY_DB_PATH", "data/monkeys.json"),
		DDBTable:    envOr("DDB_TABLE", "assessment-users"),
		AWSRegion:   envOr("AWS_REGION", "eu-west-1"),
		PostgresDSN: strings.TrimSpace(os.Getenv("DB_DSN")),
	}
}

// WithOverrides aplica los valores explícitos (flags de CLI) por
// encima de lo resuelto desde el entorno.
func (c Config) WithOverrides(backend, dbPath string) Config {
	if strings.TrimSpace(backend) != "" {
		c.Backend = strings.ToLower(strings.TrimSpace(backend))
	}
	if strings.TrimSpace(dbPath) != "" {
		c.DBPath = strings.TrimSpace(dbPath)
	}
	return c
}

// NormalizedBackend colapsa alias aceptados (dynamodb -> ddb).
func (c Config) NormalizedBackend() string {
	switch c.Backend {
	case "dynamodb", BackendDynamo:
		return BackendDynamo
	case BackendPostgres, "pg":
		return BackendPostgres
	case BackendMemory:
		return BackendMemory
	default:
		return BackendJSON
	}
}
