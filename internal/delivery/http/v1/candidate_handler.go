package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"jobspace-backend/internal/delivery/http/middleware"
	"jobspace-backend/internal/delivery/http/response"
	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
	exportUC    domain.ExportUsecase
}

func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase, exportUC domain.ExportUsecase, enforce bool) {
	handler := &CandidateHandler{candidateUC: candidateUC, exportUC: exportUC}

	candidates := r.Group("/candidats")
	{
		candidates.GET("", handler.List)
		candidates.GET("/export", middleware.RequireRole(enforce, domain.RoleAdmin), handler.Export)
		candidates.GET("/:id", handler.Get)
		candidates.POST("", handler.Create)
		candidates.PATCH("/:id", handler.guardPatch(enforce), handler.Update)
		candidates.DELETE("/:id", middleware.RequireRole(enforce, domain.RoleAdmin), handler.Delete)
	}
}

// List godoc
// @Summary      List candidacies
// @Description  Returns every candidacy in insertion order
// @Tags         candidats
// @Produce      json
// @Success      200  {array}   domain.Candidate
// @Failure      500  {object}  response.ErrorBody
// @Router       /candidats [get]
func (h *CandidateHandler) List(c *gin.Context) {
	list, err := h.candidateUC.ListCandidates(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Get godoc
// @Summary      Get a candidacy
// @Tags         candidats
// @Produce      json
// @Param        id   path      string  true  "Candidate id"
// @Success      200  {object}  domain.Candidate
// @Failure      404  {object}  response.ErrorBody
// @Router       /candidats/{id} [get]
func (h *CandidateHandler) Get(c *gin.Context) {
	candidate, err := h.candidateUC.GetCandidate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, candidate)
}

// Create godoc
// @Summary      Submit a candidacy
// @Description  Stores the candidacy as sent. The id is chosen by the client; statut defaults to en_attente.
// @Tags         candidats
// @Accept       json
// @Produce      json
// @Param        candidate  body      domain.Candidate  true  "Candidacy"
// @Success      201        {object}  domain.Candidate
// @Failure      400        {object}  response.ErrorBody
// @Failure      500        {object}  response.ErrorBody
// @Router       /candidats [post]
func (h *CandidateHandler) Create(c *gin.Context) {
	var candidate domain.Candidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := h.candidateUC.RegisterCandidate(c.Request.Context(), &candidate); err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusCreated, candidate)
}

// Update godoc
// @Summary      Update a candidacy
// @Description  Shallow merge: keys present in the body overwrite, the others are kept.
// @Tags         candidats
// @Accept       json
// @Produce      json
// @Param        id     path      string        true  "Candidate id"
// @Param        patch  body      object        true  "Fields to change"
// @Success      200    {object}  domain.Candidate
// @Failure      400    {object}  response.ErrorBody
// @Failure      404    {object}  response.ErrorBody
// @Failure      500    {object}  response.ErrorBody
// @Router       /candidats/{id} [patch]
func (h *CandidateHandler) Update(c *gin.Context) {
	patch, ok := patchFromContext(c)
	if !ok {
		return
	}
	updated, err := h.candidateUC.UpdateCandidate(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}

// Delete godoc
// @Summary      Delete a candidacy
// @Tags         candidats
// @Param        id   path  string  true  "Candidate id"
// @Success      204
// @Failure      404  {object}  response.ErrorBody
// @Failure      500  {object}  response.ErrorBody
// @Router       /candidats/{id} [delete]
// @Security     BearerAuth
func (h *CandidateHandler) Delete(c *gin.Context) {
	if err := h.candidateUC.DeleteCandidate(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export godoc
// @Summary      Export candidacies
// @Description  Spreadsheet of the candidacies matching the dashboard filters
// @Tags         candidats
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        statut      query  string  false  "en_attente, accepte or refuse"
// @Param        specialite  query  string  false  "Specialty"
// @Param        niveau      query  string  false  "Level"
// @Success      200
// @Failure      400  {object}  response.ErrorBody
// @Router       /candidats/export [get]
// @Security     BearerAuth
func (h *CandidateHandler) Export(c *gin.Context) {
	filter := domain.CandidateFilter{
		Status:    domain.CandidateStatus(c.Query("statut")),
		Specialty: c.Query("specialite"),
		Level:     c.Query("niveau"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.Error(apperror.BadRequest("Statut invalide"))
		return
	}

	var buf bytes.Buffer
	if err := h.exportUC.ExportCandidates(c.Request.Context(), filter, &buf); err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("candidatures-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// guardPatch requires an administrator for status decisions only; the
// candidate form itself may patch other fields.
func (h *CandidateHandler) guardPatch(enforce bool) gin.HandlerFunc {
	adminOnly := middleware.RequireRole(enforce, domain.RoleAdmin)
	return func(c *gin.Context) {
		patch, ok := bindPatch(c)
		if !ok {
			c.Abort()
			return
		}
		c.Set(patchKey, patch)
		if patch.Has("statut") {
			adminOnly(c)
			return
		}
		c.Next()
	}
}
