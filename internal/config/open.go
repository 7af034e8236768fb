package config

import (
	"context"
	"fmt"

	"monkey-registry/internal/adapters/storage/dynamo"
	"monkey-registry/internal/adapters/storage/jsonfile"
	"monkey-registry/internal/adapters/storage/memory"
	"monkey-registry/internal/adapters/storage/postgres"
	"monkey-registry/internal/domain/monkeys"
)

// Open construye el Repository del backend configurado. Es el único
// punto donde se elige implementación; el resto del código habla solo
// con la interfaz.
func Open(ctx context.Context, cfg Config) (monkeys.Repository, error) {
	switch cfg.NormalizedBackend() {
	case BackendDynamo:
		store, err := dynamo.New(ctx, cfg.DDBTable, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("open dynamo backend: %w", err)
		}
		return store, nil

	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres backend requires DB_DSN")
		}
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		return postgres.NewMonkeysStore(db), nil

	case BackendMemory:
		return memory.NewMonkeyRepo(), nil

	default:
		store, err := jsonfile.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open json backend: %w", err)
		}
		return store, nil
	}
}
