package usecase

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"strconv"

	"github.com/go-playground/validator/v10"

	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/apperror"
	"jobspace-backend/pkg/audit"
	"jobspace-backend/pkg/validation"
)

type offerUsecase struct {
	offerRepo domain.OfferRepository
	validate  *validator.Validate
}

func NewOfferUsecase(offerRepo domain.OfferRepository, validate *validator.Validate) domain.OfferUsecase {
	return &offerUsecase{offerRepo: offerRepo, validate: validate}
}

func (u *offerUsecase) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	list, err := u.offerRepo.Fetch(ctx)
	if err != nil {
		return nil, apperror.Internal(msgReadFailed, err)
	}
	return list, nil
}

func (u *offerUsecase) GetOffer(ctx context.Context, id int64) (*domain.Offer, error) {
	o, err := u.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, msgOfferNotFound, msgReadFailed)
	}
	return o, nil
}

// PublishOffer stores a new offer. Any id sent by the client is replaced by
// the next server-assigned one.
func (u *offerUsecase) PublishOffer(ctx context.Context, offer *domain.Offer) error {
	if err := u.validate.Struct(offer); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}
	offer.ID = 0
	if err := u.offerRepo.Create(ctx, offer); err != nil {
		return storeError(err, msgOfferNotFound, msgOfferSaveFailed)
	}
	audit.Default().RecordCreated(ctx, "offres", strconv.FormatInt(offer.ID, 10))
	return nil
}

func (u *offerUsecase) UpdateOffer(ctx context.Context, id int64, patch domain.Patch) (*domain.Offer, error) {
	patch = patch.Without("id")
	if raw, ok := patch["type"]; ok {
		var t domain.OfferType
		if err := json.Unmarshal(raw, &t); err != nil || u.validate.Var(string(t), "omitempty,offer_type") != nil {
			return nil, apperror.BadRequest("Type d'offre invalide")
		}
	}

	updated, err := u.offerRepo.Patch(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, msgOfferNotFound, msgUpdateFailed)
	}
	audit.Default().RecordUpdated(ctx, "offres", strconv.FormatInt(id, 10), slices.Sorted(maps.Keys(patch)))
	return updated, nil
}

func (u *offerUsecase) DeleteOffer(ctx context.Context, id int64) error {
	if err := u.offerRepo.Delete(ctx, id); err != nil {
		return storeError(err, msgOfferNotFound, msgDeleteFailed)
	}
	audit.Default().RecordDeleted(ctx, "offres", strconv.FormatInt(id, 10))
	return nil
}
