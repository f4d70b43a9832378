package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/logger"
)

const (
	collectionCandidates = "candidats"
	collectionOffers     = "offres"
	collectionRecruiters = "recruteurs"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS records (
		position   BIGSERIAL PRIMARY KEY,
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		data       JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS records_collection_id_idx ON records (collection, id)`,
	`CREATE SEQUENCE IF NOT EXISTS offre_id_seq`,
}

// EnsureSchema creates the records table and the offer id sequence, then
// moves the sequence past any offer id already stored.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	var maxID int64
	err := db.QueryRow(ctx,
		`SELECT COALESCE(MAX((data->>'id')::bigint), 0) FROM records WHERE collection = $1`,
		collectionOffers,
	).Scan(&maxID)
	if err != nil {
		return fmt.Errorf("ensure schema: read max offer id: %w", err)
	}
	if maxID > 0 {
		_, err = db.Exec(ctx,
			`SELECT setval('offre_id_seq', GREATEST($1::bigint, (SELECT last_value FROM offre_id_seq)))`,
			maxID,
		)
		if err != nil {
			return fmt.Errorf("ensure schema: advance offre_id_seq: %w", err)
		}
	}

	logger.Log.Info("Database schema ready", "max_offer_id", maxID)
	return nil
}

type poolChecker struct {
	db *pgxpool.Pool
}

// NewHealthChecker reports the pool state on /health.
func NewHealthChecker(db *pgxpool.Pool) domain.HealthChecker {
	return &poolChecker{db: db}
}

func (p *poolChecker) Name() string { return "postgres" }

func (p *poolChecker) Ping(ctx context.Context) error { return p.db.Ping(ctx) }
