package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/match-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store depends on. pgxmock
// pools satisfy it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot-path store operations.
var preparedStatements = map[string]string{
	"get_entity":     `SELECT document FROM entities WHERE profile_id = $1`,
	"count_entities": `SELECT COUNT(*) FROM entities`,
	"get_template":   `SELECT id, name, description, active, criteria, created_at, updated_at FROM templates WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS entities (
	profile_id     TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	country        TEXT,
	profile_type   TEXT,
	market_segment TEXT,
	search_text    TEXT NOT NULL DEFAULT '',
	document       JSONB NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS templates (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT,
	active      BOOLEAN NOT NULL DEFAULT true,
	criteria    JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entities_country ON entities(country);
CREATE INDEX IF NOT EXISTS idx_entities_profile_type ON entities(profile_type);
CREATE INDEX IF NOT EXISTS idx_templates_active ON templates(active);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertEntity(ctx context.Context, entity model.CompanyEntity) error {
	doc, err := json.Marshal(entity)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal entity")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO entities (profile_id, name, country, profile_type, market_segment, search_text, document, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (profile_id) DO UPDATE SET
		   name = $2, country = $3, profile_type = $4, market_segment = $5,
		   search_text = $6, document = $7, updated_at = $8`,
		entity.ProfileID,
		entity.Name(),
		entity.CompanyDetails.Country,
		entity.Classification.ProfileType,
		entity.Classification.MarketSegment,
		searchText(&entity),
		doc,
		time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert entity %s", entity.ProfileID)
}

func (s *PostgresStore) GetEntity(ctx context.Context, profileID string) (*model.CompanyEntity, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM entities WHERE profile_id = $1`,
		profileID,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get entity %s", profileID)
	}

	var entity model.CompanyEntity
	if err := json.Unmarshal(doc, &entity); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal entity")
	}
	return &entity, nil
}

func (s *PostgresStore) ListEntities(ctx context.Context, limit int) ([]model.CompanyEntity, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT document FROM entities ORDER BY name LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list entities")
	}
	defer rows.Close()
	return scanEntityRows(rows)
}

func (s *PostgresStore) CountEntities(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM entities`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count entities")
}

func (s *PostgresStore) SearchEntities(ctx context.Context, query string, k int) ([]model.CompanyEntity, error) {
	if k <= 0 {
		k = 100
	}
	tokens := queryTokens(query)

	sqlQuery := `SELECT document FROM entities`
	var args []any
	if len(tokens) > 0 {
		var likes []string
		for i, tok := range tokens {
			likes = append(likes, `search_text LIKE $`+strconv.Itoa(i+1))
			args = append(args, "%"+tok+"%")
		}
		sqlQuery += ` WHERE ` + strings.Join(likes, ` OR `)
	}
	sqlQuery += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search entities")
	}
	defer rows.Close()

	entities, err := scanEntityRows(rows)
	if err != nil {
		return nil, err
	}
	return rankByTokenHits(entities, tokens, k), nil
}

func (s *PostgresStore) SaveTemplate(ctx context.Context, template model.Template) error {
	criteria, err := json.Marshal(template.Criteria)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal criteria")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO templates (id, name, description, active, criteria, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   name = $2, description = $3, active = $4, criteria = $5, updated_at = $7`,
		template.ID,
		template.Name,
		template.Description,
		template.Active,
		criteria,
		template.CreatedAt,
		template.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: save template %s", template.ID)
}

func (s *PostgresStore) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	var t model.Template
	var criteriaJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, name, description, active, criteria, created_at, updated_at
		 FROM templates WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.Active, &criteriaJSON, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get template %s", id)
	}

	if err := json.Unmarshal(criteriaJSON, &t.Criteria); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal criteria")
	}
	return &t, nil
}

func (s *PostgresStore) ListTemplates(ctx context.Context) ([]model.Template, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, active, criteria, created_at, updated_at
		 FROM templates ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list templates")
	}
	defer rows.Close()

	var templates []model.Template
	for rows.Next() {
		var t model.Template
		var criteriaJSON []byte
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Active, &criteriaJSON, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan template")
		}
		if err := json.Unmarshal(criteriaJSON, &t.Criteria); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal criteria")
		}
		templates = append(templates, t)
	}
	return templates, eris.Wrap(rows.Err(), "postgres: list templates iterate")
}

func scanEntityRows(rows pgx.Rows) ([]model.CompanyEntity, error) {
	var entities []model.CompanyEntity
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, eris.Wrap(err, "postgres: scan entity")
		}
		var entity model.CompanyEntity
		if err := json.Unmarshal(doc, &entity); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal entity")
		}
		entities = append(entities, entity)
	}
	return entities, eris.Wrap(rows.Err(), "postgres: iterate entities")
}
