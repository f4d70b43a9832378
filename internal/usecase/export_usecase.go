package usecase

import (
	"context"
	"io"

	"jobspace-backend/internal/domain"
	"jobspace-backend/internal/export"
	"jobspace-backend/pkg/apperror"
)

type exportUsecase struct {
	candidates domain.CandidateUsecase
}

func NewExportUsecase(candidates domain.CandidateUsecase) domain.ExportUsecase {
	return &exportUsecase{candidates: candidates}
}

func (u *exportUsecase) ExportCandidates(ctx context.Context, filter domain.CandidateFilter, w io.Writer) error {
	list, err := u.candidates.FilterCandidates(ctx, filter)
	if err != nil {
		return err
	}
	if err := export.WriteCandidates(w, list); err != nil {
		return apperror.Internal("Erreur lors de l'export", err)
	}
	return nil
}
