package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct{}

func (fakeAuth) Login(context.Context, string, string) (*domain.Session, error) { return nil, nil }

func (fakeAuth) Verify(_ context.Context, token string) (*domain.SessionUser, error) {
	switch token {
	case "admin":
		return &domain.SessionUser{ID: "a", Email: "admin@jobspace.sn", Role: domain.RoleAdmin}, nil
	case "candidat":
		return &domain.SessionUser{ID: "c1", Email: "awa@example.sn", Role: domain.RoleCandidate}, nil
	}
	return nil, apperror.Unauthorized("bad token")
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/app", func(c *gin.Context) { c.Error(apperror.NotFound("Candidat non trouvé")) })
	r.GET("/raw", func(c *gin.Context) { c.Error(errors.New("pq: connection reset")) })

	w := serve(r, http.MethodGet, "/app", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Candidat non trouvé"`)
	assert.Contains(t, w.Body.String(), `"request_id":"`)

	w = serve(r, http.MethodGet, "/raw", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(domain.KeyRequestID).(string)
		c.String(http.StatusOK, id)
	})

	incoming := uuid.NewString()
	w := serve(r, http.MethodGet, "/", http.Header{"X-Request-Id": {incoming}})
	assert.Equal(t, incoming, w.Body.String())

	w = serve(r, http.MethodGet, "/", http.Header{"X-Request-Id": {"<script>"}})
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.Use(AuthMiddleware(fakeAuth{}))
	r.DELETE("/enforced", RequireRole(true, domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.DELETE("/open", RequireRole(false, domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodDelete, "/enforced", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodDelete, "/enforced", http.Header{"Authorization": {"Bearer candidat"}}).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/enforced", http.Header{"Authorization": {"Bearer admin"}}).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/open", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodDelete, "/open", http.Header{"Authorization": {"Bearer forged"}}).Code)
}

func TestRateLimitInMemory(t *testing.T) {
	r := gin.New()
	r.Use(rateLimit(RateLimitConfig{Limit: 2, Window: time.Minute, KeyPrefix: "test:"}, &memoryStore{}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", nil).Code)
	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestCORSAllowsAnyOriginByDefault(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", http.Header{"Origin": {"http://localhost:5173"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/health", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
