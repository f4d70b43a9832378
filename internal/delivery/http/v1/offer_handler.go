package v1

import (
	"net/http"

	"jobspace-backend/internal/delivery/http/middleware"
	"jobspace-backend/internal/delivery/http/response"
	"jobspace-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	offerUC domain.OfferUsecase
}

func NewOfferHandler(r *gin.RouterGroup, offerUC domain.OfferUsecase, enforce bool) {
	handler := &OfferHandler{offerUC: offerUC}
	recruiters := middleware.RequireRole(enforce, domain.RoleRecruiter, domain.RoleAdmin)

	offers := r.Group("/offres")
	{
		offers.GET("", handler.List)
		offers.GET("/:id", handler.Get)
		offers.POST("", recruiters, handler.Create)
		offers.PATCH("/:id", recruiters, handler.Update)
		offers.DELETE("/:id", recruiters, handler.Delete)
	}
}

// List godoc
// @Summary      List job offers
// @Tags         offres
// @Produce      json
// @Success      200  {array}   domain.Offer
// @Router       /offres [get]
func (h *OfferHandler) List(c *gin.Context) {
	list, err := h.offerUC.ListOffers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Get godoc
// @Summary      Get a job offer
// @Tags         offres
// @Produce      json
// @Param        id   path      int  true  "Offer id"
// @Success      200  {object}  domain.Offer
// @Failure      400  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /offres/{id} [get]
func (h *OfferHandler) Get(c *gin.Context) {
	id, ok := offerID(c)
	if !ok {
		return
	}
	offer, err := h.offerUC.GetOffer(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, offer)
}

// Create godoc
// @Summary      Publish a job offer
// @Description  The id is assigned by the server; any id in the body is ignored.
// @Tags         offres
// @Accept       json
// @Produce      json
// @Param        offer  body      domain.Offer  true  "Offer"
// @Success      201    {object}  domain.Offer
// @Failure      400    {object}  response.ErrorBody
// @Failure      500    {object}  response.ErrorBody
// @Router       /offres [post]
// @Security     BearerAuth
func (h *OfferHandler) Create(c *gin.Context) {
	body, ok := patchFromContext(c)
	if !ok {
		return
	}
	var offer domain.Offer
	if err := decodeRecord(body.Without("id"), &offer); err != nil {
		c.Error(err)
		return
	}
	if err := h.offerUC.PublishOffer(c.Request.Context(), &offer); err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusCreated, offer)
}

// Update godoc
// @Summary      Update a job offer
// @Tags         offres
// @Accept       json
// @Produce      json
// @Param        id     path      int     true  "Offer id"
// @Param        patch  body      object  true  "Fields to change"
// @Success      200    {object}  domain.Offer
// @Failure      404    {object}  response.ErrorBody
// @Failure      500    {object}  response.ErrorBody
// @Router       /offres/{id} [patch]
// @Security     BearerAuth
func (h *OfferHandler) Update(c *gin.Context) {
	id, ok := offerID(c)
	if !ok {
		return
	}
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	updated, err := h.offerUC.UpdateOffer(c.Request.Context(), id, patch)
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}

// Delete godoc
// @Summary      Delete a job offer
// @Tags         offres
// @Param        id   path  int  true  "Offer id"
// @Success      204
// @Failure      404  {object}  response.ErrorBody
// @Failure      500  {object}  response.ErrorBody
// @Router       /offres/{id} [delete]
// @Security     BearerAuth
func (h *OfferHandler) Delete(c *gin.Context) {
	id, ok := offerID(c)
	if !ok {
		return
	}
	if err := h.offerUC.DeleteOffer(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
