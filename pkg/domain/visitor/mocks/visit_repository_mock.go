package mocks

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/stretchr/testify/mock"
)

type VisitRepository struct {
	mock.Mock
}

func (m *VisitRepository) Save(ctx context.Context, visit *visitor.Visit) error {
	args := m.Called(ctx, visit)
	return args.Error(0)
}

func (m *VisitRepository) ListRecent(ctx context.Context, limit int) ([]visitor.Visit, error) {
	args := m.Called(ctx, limit)
	visits, ok := args.Get(0).([]visitor.Visit)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected []visitor.Visit, got %T", args.Get(0))
	}
	return visits, args.Error(1)
}
