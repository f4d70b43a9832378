package jsonfile

import (
	"context"

	"jobspace-backend/internal/domain"
)

type recruiterRepo struct {
	store *Store
}

func NewRecruiterRepository(store *Store) domain.RecruiterRepository {
	return &recruiterRepo{store: store}
}

func (r *recruiterRepo) Fetch(ctx context.Context) ([]domain.Recruiter, error) {
	var out []domain.Recruiter
	err := r.store.View(ctx, func(doc *Document) error {
		out = doc.Recruiters
		return nil
	})
	return out, err
}

func (r *recruiterRepo) Create(ctx context.Context, recruiter *domain.Recruiter) error {
	return r.store.Update(ctx, func(doc *Document) error {
		doc.Recruiters = append(doc.Recruiters, *recruiter)
		return nil
	})
}
