package members

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the directory service.
type Handler struct {
	Svc *Service

	// VersionCount reports how many stored resume versions a user has.
	// Optional; profile responses omit the count when nil.
	VersionCount func(ctx context.Context, userID string) (int, error)
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the read-only directory routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/members", h.search)
	rg.GET("/members/:id", h.get)
	rg.GET("/member/:type/:id", h.section)
}

// RegisterProtectedRoutes attaches the mutating routes.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/members", h.save)
	rg.POST("/profile", h.saveProfile)
	rg.DELETE("/member/:type/:id", h.deleteSectionItem)
	rg.POST("/export/json", h.export)
}

func (h *Handler) search(c *gin.Context) {
	filter := SearchFilter{
		Term:   c.Query("q"),
		Domain: c.Query("domain"),
		Skill:  c.Query("skill"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "Invalid year filter")
			return
		}
		filter.Year = &year
	}

	results, err := h.Svc.Search(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to search members")
		return
	}
	respond.OK(c, gin.H{
		"success": true,
		"members": results,
		"count":   len(results),
	})
}

func (h *Handler) get(c *gin.Context) {
	m, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to load member")
		return
	}
	respond.OK(c, gin.H{"success": true, "member": m})
}

func (h *Handler) section(c *gin.Context) {
	data, err := h.Svc.Section(c.Request.Context(), c.Param("type"), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to load section")
		return
	}
	respond.OK(c, gin.H{"success": true, "data": data})
}

func (h *Handler) save(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	m, created, err := h.Svc.SaveProfile(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err, "Failed to save member")
		return
	}
	respond.OK(c, gin.H{
		"success": true,
		"created": created,
		"member":  m,
	})
}

func (h *Handler) saveProfile(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(input.Email) == "" {
		input.Email = middleware.UserEmailFromContext(c)
	}
	if strings.TrimSpace(input.Name) == "" {
		input.Name = middleware.UserNameFromContext(c)
	}

	m, created, err := h.Svc.SaveProfile(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err, "Failed to save profile")
		return
	}

	payload := gin.H{
		"success": true,
		"created": created,
		"member":  m,
	}
	if h.VersionCount != nil {
		if count, err := h.VersionCount(c.Request.Context(), middleware.UserIDFromContext(c)); err == nil {
			payload["resume_versions"] = count
		}
	}
	respond.OK(c, payload)
}

func (h *Handler) deleteSectionItem(c *gin.Context) {
	err := h.Svc.DeleteSectionItem(c.Request.Context(), c.Param("type"), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to delete item")
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func (h *Handler) export(c *gin.Context) {
	results, err := h.Svc.Export(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to export members")
		return
	}
	respond.OK(c, gin.H{
		"success": true,
		"members": results,
		"count":   len(results),
	})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "Member not found")
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, inputMessage(err))
	case errors.Is(err, ErrUnsupportedSection):
		respond.Error(c, http.StatusBadRequest, "Unsupported section type")
	default:
		respond.Error(c, http.StatusInternalServerError, fallback)
	}
}

func inputMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
	if msg == "" || msg == err.Error() {
		return "Invalid input"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
