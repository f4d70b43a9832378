package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"jobspace-backend/internal/domain"
)

type statsRepo struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) domain.StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) Counts(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{CandidateByStatus: map[domain.CandidateStatus]int{}}

	rows, err := r.db.Query(ctx, `
		SELECT collection, COUNT(*)
		FROM records
		WHERE collection = ANY($1::text[])
		GROUP BY collection`,
		pq.Array([]string{collectionCandidates, collectionOffers, collectionRecruiters}),
	)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	for rows.Next() {
		var collection string
		var n int
		if err := rows.Scan(&collection, &n); err != nil {
			rows.Close()
			return nil, err
		}
		switch collection {
		case collectionCandidates:
			stats.Candidates = n
		case collectionOffers:
			stats.Offers = n
		case collectionRecruiters:
			stats.Recruiters = n
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.Query(ctx, `
		SELECT COALESCE(NULLIF(data->>'statut', ''), $2), COUNT(*)
		FROM records
		WHERE collection = $1
		GROUP BY 1`,
		collectionCandidates, string(domain.StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("count candidate statuses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.CandidateByStatus[domain.CandidateStatus(status)] = n
	}
	return stats, rows.Err()
}
