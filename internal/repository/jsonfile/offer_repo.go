package jsonfile

import (
	"context"
	"slices"

	"jobspace-backend/internal/domain"
)

type offerRepo struct {
	store *Store
}

func NewOfferRepository(store *Store) domain.OfferRepository {
	return &offerRepo{store: store}
}

func (r *offerRepo) Fetch(ctx context.Context) ([]domain.Offer, error) {
	var out []domain.Offer
	err := r.store.View(ctx, func(doc *Document) error {
		out = doc.Offers
		return nil
	})
	return out, err
}

func (r *offerRepo) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	var found *domain.Offer
	err := r.store.View(ctx, func(doc *Document) error {
		i := indexOffer(doc.Offers, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		found = &doc.Offers[i]
		return nil
	})
	return found, err
}

func (r *offerRepo) Create(ctx context.Context, offer *domain.Offer) error {
	return r.store.Update(ctx, func(doc *Document) error {
		offer.ID = doc.nextOfferID()
		doc.Offers = append(doc.Offers, *offer)
		return nil
	})
}

func (r *offerRepo) Patch(ctx context.Context, id int64, patch domain.Patch) (*domain.Offer, error) {
	var updated domain.Offer
	err := r.store.Update(ctx, func(doc *Document) error {
		i := indexOffer(doc.Offers, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		merged, err := domain.ApplyPatch(doc.Offers[i], patch)
		if err != nil {
			return err
		}
		merged.ID = id
		doc.Offers[i] = merged
		updated = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *offerRepo) Delete(ctx context.Context, id int64) error {
	return r.store.Update(ctx, func(doc *Document) error {
		i := indexOffer(doc.Offers, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		doc.Offers = slices.Delete(doc.Offers, i, i+1)
		return nil
	})
}

func indexOffer(list []domain.Offer, id int64) int {
	return slices.IndexFunc(list, func(o domain.Offer) bool { return o.ID == id })
}
