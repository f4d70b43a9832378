package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobspace-backend/internal/domain"
)

type candidateRepo struct {
	records records
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepo{records: records{db: db, collection: collectionCandidates}}
}

func (r *candidateRepo) Fetch(ctx context.Context) ([]domain.Candidate, error) {
	rows, err := r.records.list(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Candidate](rows)
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	data, err := r.records.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.Candidate](data)
}

func (r *candidateRepo) Create(ctx context.Context, candidate *domain.Candidate) error {
	return r.records.insert(ctx, candidate.ID.String(), candidate)
}

func (r *candidateRepo) Patch(ctx context.Context, id string, patch domain.Patch) (*domain.Candidate, error) {
	return patchAs[domain.Candidate](ctx, r.records, id, patch)
}

func (r *candidateRepo) Delete(ctx context.Context, id string) error {
	return r.records.delete(ctx, id)
}
