package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const patchKey = "Patch"

// bindError turns a body decoding failure into a client error; oversized
// bodies get 413.
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.TooLarge("Requête trop volumineuse")
	}
	return apperror.BadRequest("Données invalides : un objet JSON est attendu")
}

func bindPatch(c *gin.Context) (domain.Patch, bool) {
	var patch domain.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(bindError(err))
		return nil, false
	}
	if patch == nil {
		patch = domain.Patch{}
	}
	return patch, true
}

// decodeRecord decodes an already bound body into a typed record.
func decodeRecord(body domain.Patch, v any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return apperror.BadRequest("Données invalides : un objet JSON est attendu")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperror.BadRequest("Données invalides : type de champ incorrect")
	}
	return nil
}

// patchFromContext reuses a patch already decoded by a guard.
func patchFromContext(c *gin.Context) (domain.Patch, bool) {
	if v, ok := c.Get(patchKey); ok {
		if patch, ok := v.(domain.Patch); ok {
			return patch, true
		}
	}
	return bindPatch(c)
}

func offerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Identifiant d'offre invalide"))
		return 0, false
	}
	return id, true
}
