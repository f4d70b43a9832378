package jsonfile

import (
	"context"
	"slices"

	"jobspace-backend/internal/domain"
)

type candidateRepo struct {
	store *Store
}

func NewCandidateRepository(store *Store) domain.CandidateRepository {
	return &candidateRepo{store: store}
}

func (r *candidateRepo) Fetch(ctx context.Context) ([]domain.Candidate, error) {
	var out []domain.Candidate
	err := r.store.View(ctx, func(doc *Document) error {
		out = doc.Candidates
		return nil
	})
	return out, err
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	var found *domain.Candidate
	err := r.store.View(ctx, func(doc *Document) error {
		i := indexCandidate(doc.Candidates, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		found = &doc.Candidates[i]
		return nil
	})
	return found, err
}

func (r *candidateRepo) Create(ctx context.Context, candidate *domain.Candidate) error {
	return r.store.Update(ctx, func(doc *Document) error {
		doc.Candidates = append(doc.Candidates, *candidate)
		return nil
	})
}

func (r *candidateRepo) Patch(ctx context.Context, id string, patch domain.Patch) (*domain.Candidate, error) {
	var updated domain.Candidate
	err := r.store.Update(ctx, func(doc *Document) error {
		i := indexCandidate(doc.Candidates, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		merged, err := domain.ApplyPatch(doc.Candidates[i], patch)
		if err != nil {
			return err
		}
		doc.Candidates[i] = merged
		updated = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *candidateRepo) Delete(ctx context.Context, id string) error {
	return r.store.Update(ctx, func(doc *Document) error {
		i := indexCandidate(doc.Candidates, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		doc.Candidates = slices.Delete(doc.Candidates, i, i+1)
		return nil
	})
}

func indexCandidate(list []domain.Candidate, id string) int {
	return slices.IndexFunc(list, func(c domain.Candidate) bool { return c.ID.String() == id })
}
