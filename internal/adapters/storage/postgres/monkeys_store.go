package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"monkey-registry/internal/domain/monkeys"
)

// pgUniqueViolation es el sqlstate de unique_violation.
const pgUniqueViolation = "23505"

const monkeyColumns = `
	monkey_id, name, species, age_years,
	favourite_fruit, last_checkup_at,
	created_at, updated_at
`

type MonkeysStore struct {
	db *sql.DB
}

func NewMonkeysStore(db *sql.DB) *MonkeysStore {
	return &MonkeysStore{db: db}
}

func (s *MonkeysStore) Create(ctx context.Context, m monkeys.Monkey) (monkeys.Monkey, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monkeys (`+monkeyColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		m.MonkeyID,
		m.Name,
		string(m.Species),
		m.AgeYears,
		m.FavouriteFruit,
		toNullString(m.LastCheckupAt),
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return monkeys.Monkey{}, monkeys.ErrAlreadyExists
		}
		return monkeys.Monkey{}, err
	}
	return m, nil
}

func (s *MonkeysStore) Get(ctx context.Context, id string) (monkeys.Monkey, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return monkeys.Monkey{}, false, nil
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+monkeyColumns+`
		FROM monkeys
		WHERE monkey_id = $1
	`, id)

	m, err := scanMonkey(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return monkeys.Monkey{}, false, nil
		}
		return monkeys.Monkey{}, false, err
	}
	return m, true, nil
}

// Update pisa solo los campos no nil del patch (COALESCE) y devuelve
// la fila resultante. Sin lock optimista: last-writer-wins, igual que
// los demás backends.
func (s *MonkeysStore) Update(ctx context.Context, id string, p monkeys.Partial) (monkeys.Monkey, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE monkeys
		SET
			name            = COALESCE($2, name),
			species         = COALESCE($3, species),
			age_years       = COALESCE($4, age_years),
			favourite_fruit = COALESCE($5, favourite_fruit),
			last_checkup_at = COALESCE($6, last_checkup_at),
			updated_at      = COALESCE($7, updated_at)
		WHERE monkey_id = $1
		RETURNING `+monkeyColumns+`
	`,
		id,
		p.Name,
		p.Species,
		p.AgeYears,
		p.FavouriteFruit,
		p.LastCheckupAt,
		p.UpdatedAt,
	)

	m, err := scanMonkey(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return monkeys.Monkey{}, false, nil
		}
		return monkeys.Monkey{}, false, err
	}
	return m, true, nil
}

func (s *MonkeysStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM monkeys WHERE monkey_id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *MonkeysStore) List(ctx context.Context, f monkeys.ListFilter) ([]monkeys.Monkey, error) {
	name := strings.TrimSpace(f.Name)
	species := strings.TrimSpace(f.Species)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+monkeyColumns+`
		FROM monkeys
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR lower(species) = lower($2))
		ORDER BY created_at ASC, monkey_id ASC
	`, escapeLike(name), species)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMonkeys(rows)
}

func (s *MonkeysStore) Search(ctx context.Context, query string) ([]monkeys.Monkey, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []monkeys.Monkey{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+monkeyColumns+`
		FROM monkeys
		WHERE name ILIKE '%' || $1 || '%'
		   OR species ILIKE '%' || $1 || '%'
		ORDER BY created_at ASC, monkey_id ASC
	`, escapeLike(q))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMonkeys(rows)
}

func (s *MonkeysStore) FindByNameSpecies(ctx context.Context, name, species string) (monkeys.Monkey, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+monkeyColumns+`
		FROM monkeys
		WHERE lower(trim(name)) = lower(trim($1))
		  AND lower(species) = lower(trim($2))
		LIMIT 1
	`, name, species)

	m, err := scanMonkey(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return monkeys.Monkey{}, false, nil
		}
		return monkeys.Monkey{}, false, err
	}
	return m, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMonkey(row rowScanner) (monkeys.Monkey, error) {
	var m monkeys.Monkey
	var species string
	var checkup sql.NullString
	if err := row.Scan(
		&m.MonkeyID,
		&m.Name,
		&species,
		&m.AgeYears,
		&m.FavouriteFruit,
		&checkup,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return monkeys.Monkey{}, err
	}
	m.Species = monkeys.Species(species)
	if checkup.Valid {
		m.LastCheckupAt = checkup.String
	}
	return m, nil
}

func collectMonkeys(rows *sql.Rows) ([]monkeys.Monkey, error) {
	out := make([]monkeys.Monkey, 0)
	for rows.Next() {
		m, err := scanMonkey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// escapeLike neutraliza los metacaracteres de LIKE/ILIKE para que el
// filtro sea substring literal, igual que en los otros backends. El
// escape default de postgres es backslash.
func escapeLike(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	).Replace(s)
}

// last_checkup_at es nullable; string vacío se guarda como NULL.
func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
