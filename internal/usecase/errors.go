package usecase

import (
	"errors"

	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/apperror"
)

const (
	msgCandidateNotFound = "Candidat non trouvé"
	msgOfferNotFound     = "Offre non trouvée"
	msgReadFailed        = "Erreur lors de la lecture des données"
	msgSaveFailed        = "Erreur lors de l'enregistrement"
	msgUpdateFailed      = "Erreur lors de la mise à jour"
	msgDeleteFailed      = "Erreur lors de la suppression"
	msgOfferSaveFailed   = "Erreur lors de l'enregistrement de l'offre"
	msgUploadFailed      = "Erreur lors de l'upload des fichiers"
	msgInvalidField      = "Données invalides : type de champ incorrect"
)

// storeError maps repository errors onto client-facing ones. Not-found keeps
// its own message and a patch that breaks the record's shape is the
// caller's fault; everything else is a persistence failure.
func storeError(err error, notFound, failed string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(notFound)
	}
	if errors.Is(err, domain.ErrInvalidPatch) {
		return apperror.BadRequest(msgInvalidField)
	}
	return apperror.Internal(failed, err)
}
