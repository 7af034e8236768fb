// Package postgres implementa el Repository sobre una tabla monkeys,
// con pgx detrás de database/sql.
//
// Esquema esperado:
//
//	CREATE TABLE monkeys (
//	    monkey_id       text PRIMARY KEY,
//	    name            text NOT NULL,
//	    species         text NOT NULL,
//	    age_years       integer NOT NULL,
//	    favourite_fruit text NOT NULL DEFAULT '',
//	    last_checkup_at text,
//	    created_at      text NOT NULL,
//	    updated_at      text NOT NULL
//	);
//
// Los timestamps se guardan como texto iso8601, igual que en el resto
// de los backends, para que el round-trip sea byte a byte.
package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para el tamaño de este servicio
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
