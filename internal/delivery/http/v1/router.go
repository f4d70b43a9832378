package v1

import (
	"jobspace-backend/internal/delivery/http/middleware"
	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// jsonBodyLimit caps JSON request bodies; candidacies carry their
// documents as data URIs, so this is sized for three encoded files.
const jsonBodyLimit = 50 << 20

type RouterDeps struct {
	AuthUC      domain.AuthUsecase
	CandidateUC domain.CandidateUsecase
	OfferUC     domain.OfferUsecase
	RecruiterUC domain.RecruiterUsecase
	UploadUC    domain.UploadUsecase
	ExportUC    domain.ExportUsecase
	SystemUC    domain.SystemUsecase

	LoginTracker   *security.LoginTracker
	UploadLimiter  *security.UploadLimiter
	UploadMaxBytes int64
	// UploadDir is served as-is under /uploads when files are stored
	// locally; otherwise /uploads/:name redirects to the object store.
	UploadDir string

	CORSOrigins []string
	AuthEnforce bool
	RateLimit   middleware.RateLimitConfig
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.RateLimit.Limit == 0 {
		deps.RateLimit = middleware.DefaultRateLimitConfig()
	}
	if deps.LoginTracker == nil {
		deps.LoginTracker = security.NewLoginTracker(security.DefaultLoginTrackerConfig())
	}
	if deps.UploadLimiter == nil {
		deps.UploadLimiter = security.NewUploadLimiter(0, 0)
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.CORSOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RateLimitMiddleware(deps.RateLimit))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.AuthMiddleware(deps.AuthUC))

	root := r.Group("")

	NewSystemHandler(root, deps.SystemUC, deps.AuthEnforce)
	uploads := NewUploadHandler(root, deps.UploadUC, deps.UploadLimiter, deps.UploadMaxBytes)
	if deps.UploadDir != "" {
		r.Static("/uploads", deps.UploadDir)
	} else {
		r.GET("/uploads/:name", uploads.Redirect)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := root.Group("")
	api.Use(middleware.MaxBodySize(jsonBodyLimit))
	{
		NewAuthHandler(api, deps.AuthUC, deps.LoginTracker)
		NewCandidateHandler(api, deps.CandidateUC, deps.ExportUC, deps.AuthEnforce)
		NewOfferHandler(api, deps.OfferUC, deps.AuthEnforce)
		NewRecruiterHandler(api, deps.RecruiterUC)
	}

	return r
}
