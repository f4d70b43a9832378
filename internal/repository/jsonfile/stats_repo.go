package jsonfile

import (
	"context"

	"jobspace-backend/internal/domain"
)

type statsRepo struct {
	store *Store
}

func NewStatsRepository(store *Store) domain.StatsRepository {
	return &statsRepo{store: store}
}

func (r *statsRepo) Counts(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{CandidateByStatus: map[domain.CandidateStatus]int{}}
	err := r.store.View(ctx, func(doc *Document) error {
		stats.Candidates = len(doc.Candidates)
		stats.Offers = len(doc.Offers)
		stats.Recruiters = len(doc.Recruiters)
		for _, c := range doc.Candidates {
			stats.CandidateByStatus[c.EffectiveStatus()]++
		}
		return nil
	})
	return stats, err
}
