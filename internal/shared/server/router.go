package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "talent-backend/internal/auth"
	"talent-backend/internal/members"
	"talent-backend/internal/resumes"
	"talent-backend/internal/shared/config"
	"talent-backend/internal/shared/metrics"
	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
	"talent-backend/internal/shared/storage/object"
)

// RouterDeps carries the handlers and collaborators the router wires up.
type RouterDeps struct {
	Config        config.Config
	ResumeHandler *resumes.Handler
	MemberHandler *members.Handler
	GoogleAuth    *googleauth.GoogleService
	Store         object.ObjectStore
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimitConfig()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.MemberHandler != nil {
		deps.MemberHandler.RegisterPublicRoutes(api)
	}
	if deps.Store != nil && deps.Config.ObjectStoreType == "local" {
		r.GET("/object/public/:bucket/*path", serveObject(deps.Store))
	}

	protected := api.Group("")
	protected.Use(middleware.Auth())
	registerMeRoutes(protected)
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(protected)
	}
	if deps.MemberHandler != nil {
		deps.MemberHandler.RegisterProtectedRoutes(protected)
	}

	return r
}

// rateLimitConfig keeps directory searches on a looser budget than
// mutation and upload traffic.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet && strings.HasPrefix(c.Request.URL.Path, "/api/v1/members") {
				return "SEARCH"
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 5, Burst: 20},
			"SEARCH":  {Rate: 20, Burst: 60},
		},
	}
}

// serveObject streams locally stored files referenced by public URLs.
func serveObject(store object.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.TrimPrefix(c.Param("path"), "/")
		if path == "" {
			respond.Error(c, http.StatusNotFound, "Object not found")
			return
		}

		reader, err := store.Open(c.Request.Context(), path)
		if err != nil {
			respond.Error(c, http.StatusNotFound, "Object not found")
			return
		}
		defer reader.Close()

		contentType := "application/octet-stream"
		if strings.HasSuffix(strings.ToLower(path), ".pdf") {
			contentType = "application/pdf"
		}
		c.Header("Content-Type", contentType)
		c.Status(http.StatusOK)
		_, _ = io.Copy(c.Writer, reader)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
