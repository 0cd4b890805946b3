package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/match-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_GetEntity_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT document FROM entities WHERE profile_id = \$1`).
		WithArgs("missing-profile").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetEntity(context.Background(), "missing-profile")
	require.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetEntity(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	entity := model.CompanyEntity{
		ProfileID: "profile-1",
		CompanyDetails: model.CompanyDetails{
			CompanyName: "Acme Logistics",
			Country:     "Netherlands",
		},
	}
	doc, err := json.Marshal(entity)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT document FROM entities WHERE profile_id = \$1`).
		WithArgs("profile-1").
		WillReturnRows(pgxmock.NewRows([]string{"document"}).AddRow(doc))

	got, err := s.GetEntity(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Logistics", got.Name())
	assert.Equal(t, "Netherlands", got.CompanyDetails.Country)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertEntity(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT \(profile_id\) DO UPDATE`).
		WithArgs("profile-2", "Beta Foods", "Germany", "Manufacturer", "SMB",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	entity := model.CompanyEntity{
		ProfileID: "profile-2",
		CompanyDetails: model.CompanyDetails{
			CompanyName: "Beta Foods",
			Country:     "Germany",
		},
		Classification: model.Classification{
			ProfileType:   "Manufacturer",
			MarketSegment: "SMB",
		},
	}
	require.NoError(t, s.UpsertEntity(context.Background(), entity))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetTemplate_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, description, active, criteria, created_at, updated_at`).
		WithArgs("icp-missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetTemplate(context.Background(), "icp-missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveTemplate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT \(id\) DO UPDATE`).
		WithArgs("icp-1", "Dutch Distributors", "", true,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	template := model.Template{
		ID:        "icp-1",
		Name:      "Dutch Distributors",
		Active:    true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Criteria: []model.Criterion{
			model.NewCriterion("country", model.StringValue("Netherlands"), 9),
		},
	}
	require.NoError(t, s.SaveTemplate(context.Background(), template))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountEntities(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM entities`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	n, err := s.CountEntities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SearchEntities_RanksByTokenHits(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	match := model.CompanyEntity{
		ProfileID: "profile-nl",
		CompanyDetails: model.CompanyDetails{
			CompanyName: "Tulip Trading",
			Country:     "Netherlands",
		},
		Classification: model.Classification{ProfileType: "Distributor"},
	}
	other := model.CompanyEntity{
		ProfileID: "profile-de",
		CompanyDetails: model.CompanyDetails{
			CompanyName: "Rhein Retail",
			Country:     "Germany",
		},
		Classification: model.Classification{ProfileType: "Retailer"},
	}
	matchDoc, _ := json.Marshal(match)
	otherDoc, _ := json.Marshal(other)

	mock.ExpectQuery(`SELECT document FROM entities WHERE`).
		WithArgs("%location%", "%netherlands%", "%type%", "%distributor%").
		WillReturnRows(pgxmock.NewRows([]string{"document"}).
			AddRow(otherDoc).
			AddRow(matchDoc))

	got, err := s.SearchEntities(context.Background(), "Location: Netherlands. Type: Distributor.", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "profile-nl", got[0].ProfileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
