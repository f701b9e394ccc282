package policy

import (
	"context"
	"time"
)

// Repository is the persistence contract for policies.
type Repository interface {
	Create(ctx context.Context, p *Policy) error
	GetByID(ctx context.Context, id int64, userID string) (*Policy, error)
	GetByIDs(ctx context.Context, ids []int64, userID string) ([]*Policy, error)
	ListByUser(ctx context.Context, userID string) ([]*Policy, error)
	Update(ctx context.Context, p *Policy) error
	Delete(ctx context.Context, id int64, userID string) error
	// ExistsByNumber reports whether a policy with the given policy number
	// already exists, used to keep generated numbers unique.
	ExistsByNumber(ctx context.Context, policyNumber string) (bool, error)
}

// CompareRecord is one persisted comparison run.
type CompareRecord struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	PolicyIDs  []int64   `json:"policy_ids"`
	ResultJSON string    `json:"result_json"`
	CreatedAt  time.Time `json:"created_at"`
}

// CompareHistoryRepository persists comparison runs for later review.
type CompareHistoryRepository interface {
	Save(ctx context.Context, rec *CompareRecord) error
	// ListRecent returns the user's most recent comparison runs, newest
	// first, at most limit entries.
	ListRecent(ctx context.Context, userID string, limit int) ([]*CompareRecord, error)
}
