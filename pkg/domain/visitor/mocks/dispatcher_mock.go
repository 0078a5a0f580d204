package mocks

import (
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/stretchr/testify/mock"
)

type Dispatcher struct {
	mock.Mock
}

func (m *Dispatcher) CaptureEmail(email visitor.CapturedEmail) bool {
	args := m.Called(email)
	return args.Bool(0)
}

func (m *Dispatcher) RecordVisit(visit visitor.Visit) {
	m.Called(visit)
}
