package dispatch

import (
	"context"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
)

// RepositoryVisitSink stores visits through a VisitRepository.
type RepositoryVisitSink struct {
	repo visitor.VisitRepository
}

func NewRepositoryVisitSink(repo visitor.VisitRepository) *RepositoryVisitSink {
	return &RepositoryVisitSink{repo: repo}
}

func (s *RepositoryVisitSink) Name() string {
	return "repository"
}

func (s *RepositoryVisitSink) RecordVisit(ctx context.Context, visit visitor.Visit) error {
	return s.repo.Save(ctx, &visit)
}
