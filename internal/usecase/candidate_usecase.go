package usecase

import (
	"context"
	"encoding/json"
	"maps"
	"slices"

	"github.com/go-playground/validator/v10"

	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/apperror"
	"jobspace-backend/pkg/audit"
	"jobspace-backend/pkg/logger"
	"jobspace-backend/pkg/validation"
)

type candidateUsecase struct {
	candidateRepo domain.CandidateRepository
	notifier      domain.StatusNotifier
	validate      *validator.Validate
}

// NewCandidateUsecase wires the candidacy flows. notifier may be nil.
func NewCandidateUsecase(candidateRepo domain.CandidateRepository, notifier domain.StatusNotifier, validate *validator.Validate) domain.CandidateUsecase {
	return &candidateUsecase{
		candidateRepo: candidateRepo,
		notifier:      notifier,
		validate:      validate,
	}
}

func (u *candidateUsecase) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	list, err := u.candidateRepo.Fetch(ctx)
	if err != nil {
		return nil, apperror.Internal(msgReadFailed, err)
	}
	return list, nil
}

func (u *candidateUsecase) FilterCandidates(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error) {
	list, err := u.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Candidate, 0, len(list))
	for _, c := range list {
		if filter.Match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (u *candidateUsecase) GetCandidate(ctx context.Context, id string) (*domain.Candidate, error) {
	c, err := u.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, msgCandidateNotFound, msgReadFailed)
	}
	return c, nil
}

func (u *candidateUsecase) RegisterCandidate(ctx context.Context, candidate *domain.Candidate) error {
	if candidate.ID.IsZero() {
		return apperror.BadRequest("L'identifiant du candidat est obligatoire")
	}
	if err := u.validate.Struct(candidate); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}
	if candidate.Status == "" {
		candidate.Status = domain.StatusPending
	}

	if err := u.candidateRepo.Create(ctx, candidate); err != nil {
		return storeError(err, msgCandidateNotFound, msgSaveFailed)
	}
	audit.Default().RecordCreated(ctx, "candidats", candidate.ID.String())
	return nil
}

func (u *candidateUsecase) UpdateCandidate(ctx context.Context, id string, patch domain.Patch) (*domain.Candidate, error) {
	if err := u.checkPatch(patch); err != nil {
		return nil, err
	}

	var before *domain.Candidate
	if patch.Has("statut") && u.notifier != nil {
		// Only needed to tell a real decision from a repeated one.
		before, _ = u.candidateRepo.GetByID(ctx, id)
	}

	updated, err := u.candidateRepo.Patch(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, msgCandidateNotFound, msgUpdateFailed)
	}

	keys := slices.Sorted(maps.Keys(patch))
	audit.Default().RecordUpdated(ctx, "candidats", id, keys)

	if patch.Has("statut") && (before == nil || before.EffectiveStatus() != updated.EffectiveStatus()) {
		audit.Default().Log(ctx, audit.Event{
			Event:      audit.EventStatusChanged,
			Collection: "candidats",
			RecordID:   id,
			Details:    map[string]interface{}{"statut": string(updated.EffectiveStatus())},
		})
		u.notify(ctx, *updated)
	}
	return updated, nil
}

func (u *candidateUsecase) DeleteCandidate(ctx context.Context, id string) error {
	if err := u.candidateRepo.Delete(ctx, id); err != nil {
		return storeError(err, msgCandidateNotFound, msgDeleteFailed)
	}
	audit.Default().RecordDeleted(ctx, "candidats", id)
	return nil
}

// checkPatch validates the members of a partial update that carry rules.
func (u *candidateUsecase) checkPatch(patch domain.Patch) error {
	if raw, ok := patch["statut"]; ok {
		var status domain.CandidateStatus
		if err := json.Unmarshal(raw, &status); err != nil || !status.Valid() {
			return apperror.BadRequest("Statut invalide : valeurs possibles en_attente, accepte, refuse")
		}
	}
	if email, ok := patch.String("email"); ok && email != "" {
		if err := u.validate.Var(email, "email"); err != nil {
			return apperror.BadRequest("Adresse email invalide")
		}
	}
	return nil
}

func (u *candidateUsecase) notify(ctx context.Context, c domain.Candidate) {
	if u.notifier == nil || c.Email == "" {
		return
	}
	switch c.EffectiveStatus() {
	case domain.StatusAccepted, domain.StatusRejected:
	default:
		return
	}
	if err := u.notifier.NotifyStatusChange(ctx, c); err != nil {
		logger.Log.WarnContext(ctx, "status email not sent", "candidate_id", c.ID.String(), "error", err)
	}
}
