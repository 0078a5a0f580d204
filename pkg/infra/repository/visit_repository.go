package repository

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/database"
)

const maxListLimit = 500

type VisitRepository struct {
	db *database.DB
}

func NewVisitRepository(db *database.DB) visitor.VisitRepository {
	return &VisitRepository{db: db}
}

func (r *VisitRepository) Save(ctx context.Context, visit *visitor.Visit) error {
	if err := r.db.WithContext(ctx).Create(visit).Error; err != nil {
		return fmt.Errorf("failed to save visit: %w", err)
	}
	return nil
}

func (r *VisitRepository) ListRecent(ctx context.Context, limit int) ([]visitor.Visit, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	var visits []visitor.Visit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}
