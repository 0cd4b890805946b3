package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/match-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS entities (
	profile_id     TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	country        TEXT,
	profile_type   TEXT,
	market_segment TEXT,
	search_text    TEXT NOT NULL DEFAULT '',
	document       TEXT NOT NULL,
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS templates (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT,
	active      INTEGER NOT NULL DEFAULT 1,
	criteria    TEXT NOT NULL,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entities_country ON entities(country);
CREATE INDEX IF NOT EXISTS idx_entities_profile_type ON entities(profile_type);
CREATE INDEX IF NOT EXISTS idx_templates_active ON templates(active);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertEntity(ctx context.Context, entity model.CompanyEntity) error {
	doc, err := json.Marshal(entity)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal entity")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entities (profile_id, name, country, profile_type, market_segment, search_text, document, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(profile_id) DO UPDATE SET
			name = excluded.name,
			country = excluded.country,
			profile_type = excluded.profile_type,
			market_segment = excluded.market_segment,
			search_text = excluded.search_text,
			document = excluded.document,
			updated_at = excluded.updated_at`,
		entity.ProfileID,
		entity.Name(),
		entity.CompanyDetails.Country,
		entity.Classification.ProfileType,
		entity.Classification.MarketSegment,
		searchText(&entity),
		string(doc),
		time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert entity %s", entity.ProfileID)
}

func (s *SQLiteStore) GetEntity(ctx context.Context, profileID string) (*model.CompanyEntity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT document FROM entities WHERE profile_id = ?`, profileID,
	)
	var doc string
	err := row.Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get entity %s", profileID)
	}
	var entity model.CompanyEntity
	if err := json.Unmarshal([]byte(doc), &entity); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal entity")
	}
	return &entity, nil
}

func (s *SQLiteStore) ListEntities(ctx context.Context, limit int) ([]model.CompanyEntity, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM entities ORDER BY name LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list entities")
	}
	defer rows.Close()
	return scanEntityDocs(rows)
}

func (s *SQLiteStore) CountEntities(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entities`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count entities")
}

func (s *SQLiteStore) SearchEntities(ctx context.Context, query string, k int) ([]model.CompanyEntity, error) {
	if k <= 0 {
		k = 100
	}
	tokens := queryTokens(query)

	sqlQuery := `SELECT document FROM entities`
	var args []any
	if len(tokens) > 0 {
		var likes []string
		for _, tok := range tokens {
			likes = append(likes, `search_text LIKE ?`)
			args = append(args, "%"+tok+"%")
		}
		sqlQuery += ` WHERE ` + strings.Join(likes, ` OR `)
	}
	sqlQuery += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search entities")
	}
	defer rows.Close()

	entities, err := scanEntityDocs(rows)
	if err != nil {
		return nil, err
	}
	return rankByTokenHits(entities, tokens, k), nil
}

func (s *SQLiteStore) SaveTemplate(ctx context.Context, template model.Template) error {
	criteria, err := json.Marshal(template.Criteria)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal criteria")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO templates (id, name, description, active, criteria, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			active = excluded.active,
			criteria = excluded.criteria,
			updated_at = excluded.updated_at`,
		template.ID,
		template.Name,
		template.Description,
		boolToInt(template.Active),
		string(criteria),
		template.CreatedAt,
		template.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: save template %s", template.ID)
}

func (s *SQLiteStore) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, active, criteria, created_at, updated_at
		 FROM templates WHERE id = ?`, id,
	)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get template %s", id)
	}
	return t, nil
}

func (s *SQLiteStore) ListTemplates(ctx context.Context) ([]model.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, active, criteria, created_at, updated_at
		 FROM templates ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list templates")
	}
	defer rows.Close()

	var templates []model.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan template")
		}
		templates = append(templates, *t)
	}
	return templates, eris.Wrap(rows.Err(), "sqlite: list templates iterate")
}

// helpers

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanEntityDocs(rows *sql.Rows) ([]model.CompanyEntity, error) {
	var entities []model.CompanyEntity
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan entity")
		}
		var entity model.CompanyEntity
		if err := json.Unmarshal([]byte(doc), &entity); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal entity")
		}
		entities = append(entities, entity)
	}
	return entities, eris.Wrap(rows.Err(), "sqlite: iterate entities")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTemplate(row scannable) (*model.Template, error) {
	var t model.Template
	var active int
	var criteriaJSON string

	err := row.Scan(&t.ID, &t.Name, &t.Description, &active, &criteriaJSON, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Active = active != 0
	if err := json.Unmarshal([]byte(criteriaJSON), &t.Criteria); err != nil {
		return nil, eris.Wrap(err, "unmarshal criteria")
	}
	return &t, nil
}
