package mocks

import (
	"github.com/NeuralTrust/TrustCloak/pkg/infra/auth/jwt"
	"github.com/stretchr/testify/mock"
)

type Manager struct {
	mock.Mock
}

var _ jwt.Manager = (*Manager)(nil)

func (m *Manager) CreateToken(subject string) (string, error) {
	args := m.Called(subject)
	return args.String(0), args.Error(1)
}

func (m *Manager) ValidateToken(tokenString string) error {
	args := m.Called(tokenString)
	return args.Error(0)
}

func (m *Manager) DecodeToken(tokenString string) (*jwt.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*jwt.Claims)
	return claims, args.Error(1)
}
