package classification

import (
	"context"
	"errors"
)

var (
	ErrSnapshotNotFound = errors.New("cache snapshot not found")
	ErrInvalidIP        = errors.New("invalid ip address")
	ErrEntryNotFound    = errors.New("ip not cached")
)

type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
