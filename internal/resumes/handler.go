package resumes

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/extract"
	"talent-backend/internal/parser"
	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the ingestion service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume/upload", h.upload)
	rg.GET("/resume/versions", h.listVersions)
	rg.DELETE("/resume/versions/:name", h.deleteVersion)
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	ID       string `json:"id"`
	FilePath string `json:"file_path"`
	parser.ParsedResume
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	// Headroom past the file ceiling covers multipart boundaries and part
	// headers; the service's byte count is the authoritative size gate.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusBadRequest, "File size must be under 5MB")
			return
		}
		respond.Error(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Unable to read file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Unable to read file")
		return
	}

	result, err := h.Svc.Ingest(c.Request.Context(), IngestInput{
		UserID:      userID,
		Username:    username(c),
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, validationMessage(err))
		case errors.Is(err, extract.ErrUnreadable):
			respond.Error(c, http.StatusBadRequest, "Could not read the PDF file")
		case errors.Is(err, parser.ErrParse):
			respond.Error(c, http.StatusBadRequest, "Failed to parse resume content")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to process resume")
		}
		return
	}

	respond.JSON(c, http.StatusOK, uploadResponse{
		Success:      true,
		ID:           result.ID,
		FilePath:     result.FilePath,
		ParsedResume: result.Parsed,
	})
}

func (h *Handler) listVersions(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	versions, err := h.Svc.ListVersions(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to list resume versions")
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"success":  true,
		"versions": versions,
	})
}

func (h *Handler) deleteVersion(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	name := c.Param("name")

	if err := h.Svc.DeleteVersion(c.Request.Context(), userID, name); err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, validationMessage(err))
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to delete resume version")
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"success": true})
}

// username derives the file-name stem from the caller identity.
func username(c *gin.Context) string {
	if name := middleware.UserNameFromContext(c); name != "" {
		return name
	}
	if email := middleware.UserEmailFromContext(c); email != "" {
		if at := strings.Index(email, "@"); at > 0 {
			return email[:at]
		}
	}
	return "resume"
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
	if msg == "" {
		return "Invalid upload"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
