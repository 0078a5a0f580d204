package mocks

import (
	"context"

	"github.com/NeuralTrust/TrustCloak/pkg/app/decision"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/stretchr/testify/mock"
)

type Orchestrator struct {
	mock.Mock
}

var _ decision.Orchestrator = (*Orchestrator)(nil)

func (m *Orchestrator) Decide(ctx context.Context, req visitor.Request) visitor.Decision {
	args := m.Called(ctx, req)
	return args.Get(0).(visitor.Decision)
}
