package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobspace-backend/internal/domain"
)

type offerRepo struct {
	db      *pgxpool.Pool
	records records
}

func NewOfferRepository(db *pgxpool.Pool) domain.OfferRepository {
	return &offerRepo{db: db, records: records{db: db, collection: collectionOffers}}
}

func (r *offerRepo) Fetch(ctx context.Context) ([]domain.Offer, error) {
	rows, err := r.records.list(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Offer](rows)
}

func (r *offerRepo) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	data, err := r.records.get(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.Offer](data)
}

func (r *offerRepo) Create(ctx context.Context, offer *domain.Offer) error {
	if err := r.db.QueryRow(ctx, `SELECT nextval('offre_id_seq')`).Scan(&offer.ID); err != nil {
		return fmt.Errorf("next offer id: %w", err)
	}
	return r.records.insert(ctx, strconv.FormatInt(offer.ID, 10), offer)
}

func (r *offerRepo) Patch(ctx context.Context, id int64, patch domain.Patch) (*domain.Offer, error) {
	return patchAs[domain.Offer](ctx, r.records, strconv.FormatInt(id, 10), patch.Without("id"))
}

func (r *offerRepo) Delete(ctx context.Context, id int64) error {
	return r.records.delete(ctx, strconv.FormatInt(id, 10))
}
