package v1

import (
	"errors"
	"net/http"

	"jobspace-backend/internal/delivery/http/middleware"
	"jobspace-backend/internal/delivery/http/response"
	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/apperror"
	"jobspace-backend/pkg/logger"
	"jobspace-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC  domain.AuthUsecase
	tracker *security.LoginTracker
}

func NewAuthHandler(r *gin.RouterGroup, authUC domain.AuthUsecase, tracker *security.LoginTracker) {
	handler := &AuthHandler{authUC: authUC, tracker: tracker}

	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig()), handler.Login)
		auth.GET("/me", middleware.RequireRole(true), handler.Me)
	}
}

// Login godoc
// @Summary      Open a session
// @Description  Staff accounts come from configuration, candidates log in with the email and password of their candidacy.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      domain.LoginRequest  true  "Credentials"
// @Success      200          {object}  domain.Session
// @Failure      400          {object}  response.ErrorBody
// @Failure      401          {object}  response.ErrorBody
// @Failure      429          {object}  response.ErrorBody
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	ctx := c.Request.Context()

	blocked, err := h.tracker.IsBlocked(ctx, req.Email)
	if err != nil {
		logger.Log.WarnContext(ctx, "login tracker unavailable", "error", err)
	}
	if blocked {
		c.Error(apperror.TooManyRequests("Trop de tentatives de connexion, réessayez plus tard."))
		return
	}

	session, err := h.authUC.Login(ctx, req.Email, req.Password)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusUnauthorized {
			if _, trackErr := h.tracker.RecordFailure(ctx, req.Email); trackErr != nil {
				logger.Log.WarnContext(ctx, "login failure not tracked", "error", trackErr)
			}
		}
		c.Error(err)
		return
	}
	if err := h.tracker.Clear(ctx, req.Email); err != nil {
		logger.Log.WarnContext(ctx, "login attempts not cleared", "error", err)
	}
	response.JSON(c, http.StatusOK, session)
}

// Me godoc
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.SessionUser
// @Failure      401  {object}  response.ErrorBody
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, _ := middleware.SessionUser(c)
	response.JSON(c, http.StatusOK, user)
}
