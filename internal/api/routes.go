package api

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ul-mds/pprl-go/internal/mask"
	"github.com/ul-mds/pprl-go/internal/match"
	"github.com/ul-mds/pprl-go/internal/pprlerr"
	"github.com/ul-mds/pprl-go/internal/transform"
	"github.com/ul-mds/pprl-go/internal/validate"
	"github.com/ul-mds/pprl-go/pkg/model"
)

// APIHandler holds the dependencies the processing routes share.
type APIHandler struct {
	wsHub *Hub
}

// SetupRouter builds the Gin engine exposing the transform, mask and
// match endpoints plus the health check and event stream.
func SetupRouter(wsHub *Hub) *gin.Engine {
	r := gin.Default()

	// Enable CORS — configurable via ALLOWED_ORIGINS env var.
	// Production: ALLOWED_ORIGINS=https://example.org,https://www.example.org
	// Development: ALLOWED_ORIGINS=http://localhost:3000 (or leave empty for *)
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{wsHub: wsHub}

	// ── Public endpoints (no auth) ─────────────────────────────
	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/stream", wsHub.Subscribe)
	}

	// ── Protected endpoints (require bearer token if API_AUTH_TOKEN set) ──
	auth := r.Group("/api/v1")
	auth.Use(AuthMiddleware())
	auth.Use(NewRateLimiter(30, 5).Middleware())
	{
		auth.POST("/transform", handler.handleTransform)
		auth.POST("/mask", handler.handleMask)
		auth.POST("/match", handler.handleMatch)
	}

	return r
}

// handleHealth reports liveness for service discovery.
func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleTransform runs the string-transform pipeline over a batch of entities.
func (h *APIHandler) handleTransform(c *gin.Context) {
	var req model.EntityTransformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	if err := validate.TransformRequest(req); err != nil {
		respondEngineError(c, err)
		return
	}

	start := time.Now()
	resp, err := transform.Transform(req)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	h.wsHub.BroadcastRequestCompleted("transform", len(resp.Entities), time.Since(start).Milliseconds())
	c.JSON(http.StatusOK, resp)
}

// handleMask runs the masking pipeline over a batch of entities.
func (h *APIHandler) handleMask(c *gin.Context) {
	var req model.EntityMaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	if err := validate.MaskRequest(req); err != nil {
		respondEngineError(c, err)
		return
	}

	start := time.Now()
	resp, err := mask.Mask(req)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	h.wsHub.BroadcastRequestCompleted("mask", len(resp.Entities), time.Since(start).Milliseconds())
	c.JSON(http.StatusOK, resp)
}

// handleMatch compares domain and range bit vectors and returns the
// pairs meeting the configured similarity threshold.
func (h *APIHandler) handleMatch(c *gin.Context) {
	var req model.VectorMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	if err := validate.MatchRequest(req); err != nil {
		respondEngineError(c, err)
		return
	}

	start := time.Now()
	resp, err := match.Match(req)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	h.wsHub.BroadcastRequestCompleted("match", len(resp.Matches), time.Since(start).Milliseconds())
	c.JSON(http.StatusOK, resp)
}

// respondEngineError maps a pprlerr.Error to its status code, falling
// back to a generic 500 for anything that isn't one.
func respondEngineError(c *gin.Context, err error) {
	if e, ok := pprlerr.As(err); ok {
		c.JSON(e.Kind.StatusCode(), gin.H{"detail": e.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
}
