package usecase

import (
	"context"

	"github.com/go-playground/validator/v10"

	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/apperror"
	"jobspace-backend/pkg/audit"
	"jobspace-backend/pkg/validation"
)

type recruiterUsecase struct {
	recruiterRepo domain.RecruiterRepository
	validate      *validator.Validate
}

func NewRecruiterUsecase(recruiterRepo domain.RecruiterRepository, validate *validator.Validate) domain.RecruiterUsecase {
	return &recruiterUsecase{recruiterRepo: recruiterRepo, validate: validate}
}

func (u *recruiterUsecase) ListRecruiters(ctx context.Context) ([]domain.Recruiter, error) {
	list, err := u.recruiterRepo.Fetch(ctx)
	if err != nil {
		return nil, apperror.Internal(msgReadFailed, err)
	}
	return list, nil
}

func (u *recruiterUsecase) RegisterRecruiter(ctx context.Context, recruiter *domain.Recruiter) error {
	if err := u.validate.Struct(recruiter); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}
	if err := u.recruiterRepo.Create(ctx, recruiter); err != nil {
		return apperror.Internal(msgSaveFailed, err)
	}
	audit.Default().RecordCreated(ctx, "recruteurs", recruiter.ID.String())
	return nil
}
