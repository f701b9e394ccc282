package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ronled86/InsuraIQ/internal/domain/policy"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// CompareHistoryRepository is the pgx-backed implementation of
// policy.CompareHistoryRepository.  Policy id lists are stored as a CSV
// string, matching the historical schema.
type CompareHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewCompareHistoryRepository constructs the repository.
func NewCompareHistoryRepository(pool *pgxpool.Pool) *CompareHistoryRepository {
	return &CompareHistoryRepository{pool: pool}
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func splitIDs(csv string) []int64 {
	var out []int64
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// Save implements policy.CompareHistoryRepository.
func (r *CompareHistoryRepository) Save(ctx context.Context, rec *policy.CompareRecord) error {
	rec.CreatedAt = time.Now().UTC()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO compare_history (user_id, policy_ids_csv, result_json, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		rec.UserID, joinIDs(rec.PolicyIDs), rec.ResultJSON, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to save comparison record")
	}
	return nil
}

// ListRecent implements policy.CompareHistoryRepository.
func (r *CompareHistoryRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*policy.CompareRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, policy_ids_csv, result_json, created_at
		FROM compare_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to query comparison history")
	}
	defer rows.Close()

	var out []*policy.CompareRecord
	for rows.Next() {
		var rec policy.CompareRecord
		var csv string
		if err := rows.Scan(&rec.ID, &rec.UserID, &csv, &rec.ResultJSON, &rec.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to scan comparison record")
		}
		rec.PolicyIDs = splitIDs(csv)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to iterate comparison history")
	}
	return out, nil
}
