package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobspace-backend/internal/domain"
)

type recruiterRepo struct {
	records records
}

func NewRecruiterRepository(db *pgxpool.Pool) domain.RecruiterRepository {
	return &recruiterRepo{records: records{db: db, collection: collectionRecruiters}}
}

func (r *recruiterRepo) Fetch(ctx context.Context) ([]domain.Recruiter, error) {
	rows, err := r.records.list(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Recruiter](rows)
}

func (r *recruiterRepo) Create(ctx context.Context, recruiter *domain.Recruiter) error {
	return r.records.insert(ctx, recruiter.ID.String(), recruiter)
}
