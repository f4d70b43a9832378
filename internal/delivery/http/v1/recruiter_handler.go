package v1

import (
	"net/http"

	"jobspace-backend/internal/delivery/http/response"
	"jobspace-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type RecruiterHandler struct {
	recruiterUC domain.RecruiterUsecase
}

func NewRecruiterHandler(r *gin.RouterGroup, recruiterUC domain.RecruiterUsecase) {
	handler := &RecruiterHandler{recruiterUC: recruiterUC}

	recruiters := r.Group("/recruteurs")
	{
		recruiters.GET("", handler.List)
		recruiters.POST("", handler.Create)
	}
}

// List godoc
// @Summary      List recruiters
// @Tags         recruteurs
// @Produce      json
// @Success      200  {array}  domain.Recruiter
// @Router       /recruteurs [get]
func (h *RecruiterHandler) List(c *gin.Context) {
	list, err := h.recruiterUC.ListRecruiters(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Create godoc
// @Summary      Register a recruiter
// @Tags         recruteurs
// @Accept       json
// @Produce      json
// @Param        recruiter  body      domain.Recruiter  true  "Recruiter"
// @Success      201        {object}  domain.Recruiter
// @Failure      500        {object}  response.ErrorBody
// @Router       /recruteurs [post]
func (h *RecruiterHandler) Create(c *gin.Context) {
	var recruiter domain.Recruiter
	if err := c.ShouldBindJSON(&recruiter); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := h.recruiterUC.RegisterRecruiter(c.Request.Context(), &recruiter); err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusCreated, recruiter)
}
