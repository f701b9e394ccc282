package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ronled86/InsuraIQ/internal/domain/policy"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaks.
const uniqueViolation = "23505"

const policyColumns = `id, user_id, owner_name, insurer, product_type, policy_number,
	start_date, end_date, premium_monthly, premium_annual, deductible, coverage_limit,
	coverage_details, policy_language, terms_and_conditions, notes, active,
	extraction_confidence, ai_enhanced, original_filename, document_key,
	created_at, updated_at`

// PolicyRepository is the pgx-backed implementation of policy.Repository.
type PolicyRepository struct {
	pool *pgxpool.Pool
}

// NewPolicyRepository constructs a PolicyRepository over the shared pool.
func NewPolicyRepository(pool *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{pool: pool}
}

func scanPolicy(row pgx.Row) (*policy.Policy, error) {
	var p policy.Policy
	err := row.Scan(
		&p.ID, &p.UserID, &p.OwnerName, &p.Insurer, &p.ProductType, &p.PolicyNumber,
		&p.StartDate, &p.EndDate, &p.PremiumMonthly, &p.PremiumAnnual, &p.Deductible, &p.CoverageLimit,
		&p.CoverageDetails, &p.PolicyLanguage, &p.TermsAndConditions, &p.Notes, &p.Active,
		&p.ExtractionConfidence, &p.AIEnhanced, &p.OriginalFilename, &p.DocumentKey,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create implements policy.Repository.
func (r *PolicyRepository) Create(ctx context.Context, p *policy.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	err := r.pool.QueryRow(ctx, `
		INSERT INTO policies (
			user_id, owner_name, insurer, product_type, policy_number,
			start_date, end_date, premium_monthly, premium_annual, deductible, coverage_limit,
			coverage_details, policy_language, terms_and_conditions, notes, active,
			extraction_confidence, ai_enhanced, original_filename, document_key,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
		RETURNING id`,
		p.UserID, p.OwnerName, p.Insurer, p.ProductType, p.PolicyNumber,
		p.StartDate, p.EndDate, p.PremiumMonthly, p.PremiumAnnual, p.Deductible, p.CoverageLimit,
		p.CoverageDetails, p.PolicyLanguage, p.TermsAndConditions, p.Notes, p.Active,
		p.ExtractionConfidence, p.AIEnhanced, p.OriginalFilename, p.DocumentKey,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.New(apperrors.ErrCodePolicyAlreadyExists,
				"policy number already exists").WithDetail("policy_number="+p.PolicyNumber)
		}
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to insert policy")
	}
	return nil
}

// GetByID implements policy.Repository.
func (r *PolicyRepository) GetByID(ctx context.Context, id int64, userID string) (*policy.Policy, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+policyColumns+` FROM policies WHERE id = $1 AND user_id = $2`, id, userID)
	p, err := scanPolicy(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrCodePolicyNotFound, "policy not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to query policy")
	}
	return p, nil
}

// GetByIDs implements policy.Repository.  Policies not owned by the user are
// silently absent from the result.
func (r *PolicyRepository) GetByIDs(ctx context.Context, ids []int64, userID string) ([]*policy.Policy, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+policyColumns+` FROM policies WHERE id = ANY($1) AND user_id = $2 ORDER BY id`,
		ids, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to query policies")
	}
	defer rows.Close()
	return collectPolicies(rows)
}

// ListByUser implements policy.Repository.
func (r *PolicyRepository) ListByUser(ctx context.Context, userID string) ([]*policy.Policy, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+policyColumns+` FROM policies WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to list policies")
	}
	defer rows.Close()
	return collectPolicies(rows)
}

func collectPolicies(rows pgx.Rows) ([]*policy.Policy, error) {
	var out []*policy.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to scan policy")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to iterate policies")
	}
	return out, nil
}

// Update implements policy.Repository.
func (r *PolicyRepository) Update(ctx context.Context, p *policy.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx, `
		UPDATE policies SET
			owner_name = $1, insurer = $2, product_type = $3, policy_number = $4,
			start_date = $5, end_date = $6, premium_monthly = $7, premium_annual = $8,
			deductible = $9, coverage_limit = $10, coverage_details = $11,
			policy_language = $12, terms_and_conditions = $13, notes = $14, active = $15,
			updated_at = $16
		WHERE id = $17 AND user_id = $18`,
		p.OwnerName, p.Insurer, p.ProductType, p.PolicyNumber,
		p.StartDate, p.EndDate, p.PremiumMonthly, p.PremiumAnnual,
		p.Deductible, p.CoverageLimit, p.CoverageDetails,
		p.PolicyLanguage, p.TermsAndConditions, p.Notes, p.Active,
		p.UpdatedAt, p.ID, p.UserID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.New(apperrors.ErrCodePolicyAlreadyExists, "policy number already exists")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to update policy")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrCodePolicyNotFound, "policy not found")
	}
	return nil
}

// Delete implements policy.Repository.
func (r *PolicyRepository) Delete(ctx context.Context, id int64, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM policies WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to delete policy")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrCodePolicyNotFound, "policy not found")
	}
	return nil
}

// ExistsByNumber implements policy.Repository.
func (r *PolicyRepository) ExistsByNumber(ctx context.Context, policyNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM policies WHERE policy_number = $1)`,
		strings.TrimSpace(policyNumber)).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to check policy number")
	}
	return exists, nil
}
