package mocks

import (
	"context"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/stretchr/testify/mock"
)

type Classifier struct {
	mock.Mock
}

func (m *Classifier) Classify(ctx context.Context, req *visitor.Request) (classification.Verdict, error) {
	args := m.Called(ctx, req)
	verdict, _ := args.Get(0).(classification.Verdict) //nolint:errcheck
	return verdict, args.Error(1)
}
