package repository

import (
	"context"
	"errors"
	"time"

	"revenue_engine_backend/internal/leads/domain"
	"revenue_engine_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"
)

// ListLimit caps every listing.
const ListLimit = 100

var (
	ErrNotFound         = errors.New("lead not found")
	ErrDuplicateWebsite = errors.New("website already belongs to another lead")
	ErrInvalidLead      = errors.New("lead violates a table constraint")
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

const leadColumns = `id, company_name, website, context, summary, technologies, key_personnel,
	status, source, confidence_score, created_at, updated_at`

type Repository struct {
	pool db.Pool
}

func New(pool db.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID              uuid.UUID
	CompanyName     string
	Website         *string
	Context         string
	Summary         string
	Technologies    []string
	KeyPersonnel    []string
	Status          string
	Source          string
	ConfidenceScore float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UpsertLeadParams carries research fields for a reconciled lead.
// Nil optionals leave the stored value untouched on merge.
type UpsertLeadParams struct {
	CompanyName     string
	Website         *string
	Context         *string
	Summary         *string
	Technologies    []string
	KeyPersonnel    []string
	ConfidenceScore *float64
}

type CreateLeadParams struct {
	CompanyName     string
	Website         *string
	Context         string
	Summary         string
	Technologies    []string
	KeyPersonnel    []string
	Status          string
	Source          string
	ConfidenceScore float64
}

// UpdateLeadParams merges non-nil fields. WebsiteSet distinguishes
// "clear the website" (Website nil) from "leave it alone".
type UpdateLeadParams struct {
	CompanyName     *string
	WebsiteSet      bool
	Website         *string
	Context         *string
	Summary         *string
	Technologies    []string
	KeyPersonnel    []string
	Status          *string
	ConfidenceScore *float64
}

type ListParams struct {
	Status *string
}

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.CompanyName, &lead.Website, &lead.Context, &lead.Summary,
		&lead.Technologies, &lead.KeyPersonnel, &lead.Status, &lead.Source,
		&lead.ConfidenceScore, &lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

// mapWriteError turns driver errors into repository sentinels.
func mapWriteError(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicateWebsite
		case pgCheckViolation:
			return eris.Wrap(ErrInvalidLead, op)
		}
	}
	return eris.Wrap(err, op)
}

// UpsertByWebsite inserts a lead or merges into the one holding the same
// website, in a single statement so concurrent callers cannot create twins.
// Both paths leave the lead as researching/ai_agent, so a rediscovered lead
// re-enters research. A nil website never conflicts and always inserts.
func (r *Repository) UpsertByWebsite(ctx context.Context, params UpsertLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			company_name, website, context, summary, technologies, key_personnel,
			status, source, confidence_score
		) VALUES (
			$1, $2,
			COALESCE($3::text, ''), COALESCE($4::text, ''),
			COALESCE($5::text[], '{}'), COALESCE($6::text[], '{}'),
			$8, $9, COALESCE($7::double precision, 0)
		)
		ON CONFLICT (website) WHERE website IS NOT NULL DO UPDATE SET
			company_name = EXCLUDED.company_name,
			context = COALESCE($3::text, leads.context),
			summary = COALESCE($4::text, leads.summary),
			technologies = COALESCE($5::text[], leads.technologies),
			key_personnel = COALESCE($6::text[], leads.key_personnel),
			confidence_score = COALESCE($7::double precision, leads.confidence_score),
			status = EXCLUDED.status,
			source = EXCLUDED.source,
			updated_at = GREATEST(now(), leads.updated_at)
		RETURNING `+leadColumns,
		params.CompanyName, params.Website, params.Context, params.Summary,
		params.Technologies, params.KeyPersonnel, params.ConfidenceScore,
		string(domain.StatusResearching), domain.SourceAIAgent,
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, mapWriteError(err, "leads: upsert")
	}
	return lead, nil
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	technologies := params.Technologies
	if technologies == nil {
		technologies = []string{}
	}
	keyPersonnel := params.KeyPersonnel
	if keyPersonnel == nil {
		keyPersonnel = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			company_name, website, context, summary, technologies, key_personnel,
			status, source, confidence_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+leadColumns,
		params.CompanyName, params.Website, params.Context, params.Summary,
		technologies, keyPersonnel, params.Status, params.Source, params.ConfidenceScore,
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, mapWriteError(err, "leads: create")
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, eris.Wrap(err, "leads: get by id")
	}
	return lead, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			company_name = COALESCE($2::text, company_name),
			website = CASE WHEN $3::boolean THEN $4::text ELSE website END,
			context = COALESCE($5::text, context),
			summary = COALESCE($6::text, summary),
			technologies = COALESCE($7::text[], technologies),
			key_personnel = COALESCE($8::text[], key_personnel),
			status = COALESCE($9::text, status),
			confidence_score = COALESCE($10::double precision, confidence_score),
			updated_at = GREATEST(now(), updated_at)
		WHERE id = $1
		RETURNING `+leadColumns,
		id, params.CompanyName, params.WebsiteSet, params.Website, params.Context, params.Summary,
		params.Technologies, params.KeyPersonnel, params.Status, params.ConfidenceScore,
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, mapWriteError(err, "leads: update")
	}
	return lead, nil
}

// List returns at most ListLimit leads, newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE ($1::text IS NULL OR status = $1::text)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, params.Status, ListLimit)
	if err != nil {
		return nil, eris.Wrap(err, "leads: list")
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "leads: list scan")
		}
		items = append(items, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "leads: list rows")
	}

	return items, nil
}

// Ping exposes store reachability to readiness checks.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
