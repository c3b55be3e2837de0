package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"revenue_engine_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "company_name", "website", "context", "summary", "technologies", "key_personnel",
	"status", "source", "confidence_score", "created_at", "updated_at",
}

func strPtr(s string) *string { return &s }

// anyArgs matches n positional arguments of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func leadRow(rows *pgxmock.Rows, id uuid.UUID, name string, website *string, status string, createdAt time.Time) *pgxmock.Rows {
	return rows.AddRow(
		id, name, website, "", "", []string{}, []string{},
		status, domain.SourceAIAgent, float64(0), createdAt, createdAt,
	)
}

func TestUpsertByWebsiteInsertsResearchingLead(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	now := time.Now()
	website := strPtr("a.com")
	summary := strPtr("EHR tooling")

	mock.ExpectQuery(`INSERT INTO leads`).
		WithArgs("Acme Health", website, pgxmock.AnyArg(), summary,
			[]string{"Go"}, pgxmock.AnyArg(), pgxmock.AnyArg(), "researching", "ai_agent").
		WillReturnRows(
			pgxmock.NewRows(columns).AddRow(
				id, "Acme Health", website, "", "EHR tooling", []string{"Go"}, []string{},
				"researching", "ai_agent", float64(0), now, now,
			),
		)

	repo := New(mock)
	lead, err := repo.UpsertByWebsite(context.Background(), UpsertLeadParams{
		CompanyName:  "Acme Health",
		Website:      website,
		Summary:      summary,
		Technologies: []string{"Go"},
	})

	require.NoError(t, err)
	assert.Equal(t, id, lead.ID)
	assert.Equal(t, "researching", lead.Status)
	assert.Equal(t, "ai_agent", lead.Source)
	require.NotNil(t, lead.Website)
	assert.Equal(t, "a.com", *lead.Website)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertByWebsiteUsesSingleConflictStatement(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`ON CONFLICT \(website\) WHERE website IS NOT NULL DO UPDATE SET`).
		WithArgs("Acme", strPtr("a.com"), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), "researching", "ai_agent").
		WillReturnRows(leadRow(pgxmock.NewRows(columns), uuid.New(), "Acme", strPtr("a.com"), "researching", now))

	repo := New(mock)
	lead, err := repo.UpsertByWebsite(context.Background(), UpsertLeadParams{CompanyName: "Acme", Website: strPtr("a.com")})

	require.NoError(t, err)
	assert.Equal(t, "researching", lead.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertByWebsiteMergeResetsStatusAndSource(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// A manually qualified lead that a campaign rediscovers goes back to research.
	now := time.Now()
	mock.ExpectQuery(`(?s)DO UPDATE SET.*status = EXCLUDED\.status,\s+source = EXCLUDED\.source`).
		WithArgs(anyArgs(9)...).
		WillReturnRows(leadRow(pgxmock.NewRows(columns), uuid.New(), "Acme", strPtr("a.com"), "researching", now))

	repo := New(mock)
	lead, err := repo.UpsertByWebsite(context.Background(), UpsertLeadParams{CompanyName: "Acme", Website: strPtr("a.com")})

	require.NoError(t, err)
	assert.Equal(t, "researching", lead.Status)
	assert.Equal(t, "ai_agent", lead.Source)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertByWebsiteWrapsDriverErrors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO leads`).
		WithArgs(anyArgs(9)...).
		WillReturnError(errors.New("connection reset"))

	repo := New(mock)
	_, err = repo.UpsertByWebsite(context.Background(), UpsertLeadParams{CompanyName: "Acme"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "leads: upsert")
	assert.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppliesDefaultsForNilSets(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO leads`).
		WithArgs("Manual Co", pgxmock.AnyArg(), "", "", []string{}, []string{}, "new", "ai_prospector", float64(0)).
		WillReturnRows(leadRow(pgxmock.NewRows(columns), uuid.New(), "Manual Co", nil, "new", now))

	repo := New(mock)
	lead, err := repo.Create(context.Background(), CreateLeadParams{
		CompanyName: "Manual Co",
		Status:      "new",
		Source:      "ai_prospector",
	})

	require.NoError(t, err)
	assert.Equal(t, "new", lead.Status)
	assert.Nil(t, lead.Website)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMapsCheckViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO leads`).
		WithArgs(anyArgs(9)...).
		WillReturnError(&pgconn.PgError{Code: "23514"})

	repo := New(mock)
	_, err = repo.Create(context.Background(), CreateLeadParams{CompanyName: " ", Status: "new"})

	assert.ErrorIs(t, err, ErrInvalidLead)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`FROM leads WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(columns))

	repo := New(mock)
	_, err = repo.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`UPDATE leads SET`).
		WithArgs(anyArgs(10)...).
		WillReturnRows(pgxmock.NewRows(columns))

	repo := New(mock)
	_, err = repo.Update(context.Background(), uuid.New(), UpdateLeadParams{Status: strPtr("contacted")})

	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDuplicateWebsite(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`UPDATE leads SET`).
		WithArgs(anyArgs(10)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "leads_website_key"})

	repo := New(mock)
	_, err = repo.Update(context.Background(), uuid.New(), UpdateLeadParams{WebsiteSet: true, Website: strPtr("b.com")})

	assert.ErrorIs(t, err, ErrDuplicateWebsite)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMergesStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	status := strPtr("qualified")
	now := time.Now()
	mock.ExpectQuery(`UPDATE leads SET`).
		WithArgs(id, pgxmock.AnyArg(), false, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), status, pgxmock.AnyArg()).
		WillReturnRows(leadRow(pgxmock.NewRows(columns), id, "Acme", strPtr("a.com"), "qualified", now))

	repo := New(mock)
	lead, err := repo.Update(context.Background(), id, UpdateLeadParams{Status: status})

	require.NoError(t, err)
	assert.Equal(t, "qualified", lead.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListFiltersAndOrdersNewestFirst(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	status := strPtr("qualified")
	rows := pgxmock.NewRows(columns)
	leadRow(rows, uuid.New(), "Newer", strPtr("c.com"), "qualified", now)
	leadRow(rows, uuid.New(), "Older", strPtr("d.com"), "qualified", now.Add(-time.Hour))

	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC`).
		WithArgs(status, ListLimit).
		WillReturnRows(rows)

	repo := New(mock)
	leads, err := repo.List(context.Background(), ListParams{Status: status})

	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Newer", leads[0].CompanyName)
	assert.Equal(t, "Older", leads[1].CompanyName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmptyReturnsNonNilSlice(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM leads`).
		WithArgs(anyArgs(2)...).
		WillReturnRows(pgxmock.NewRows(columns))

	repo := New(mock)
	leads, err := repo.List(context.Background(), ListParams{})

	require.NoError(t, err)
	assert.NotNil(t, leads)
	assert.Empty(t, leads)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM leads`).
		WithArgs(anyArgs(2)...).
		WillReturnError(errors.New("timeout"))

	repo := New(mock)
	_, err = repo.List(context.Background(), ListParams{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "leads: list")
	assert.Contains(t, err.Error(), "timeout")
	require.NoError(t, mock.ExpectationsWereMet())
}
