package mocks

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"
)

type SnapshotStore struct {
	mock.Mock
}

func (m *SnapshotStore) Load(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	data, ok := args.Get(0).([]byte)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected []byte, got %T", args.Get(0))
	}
	return data, args.Error(1)
}

func (m *SnapshotStore) Save(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}
