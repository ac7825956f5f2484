package resumes

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"talent-backend/internal/extract"
	"talent-backend/internal/parser"
	"talent-backend/internal/shared/metrics"
	"talent-backend/internal/shared/storage/object"
	"talent-backend/internal/shared/telemetry"
	"talent-backend/internal/shared/util"
)

const (
	mimePDF = "application/pdf"
	// MaxUploadBytes is the resume size ceiling.
	MaxUploadBytes = 5 << 20
	// DefaultMaxVersions caps stored resume files per member.
	DefaultMaxVersions = 4
)

// Service runs the resume ingestion pipeline.
type Service struct {
	Store       object.ObjectStore
	Parser      *parser.Parser
	MaxVersions int
	// Now stamps uploaded file names. Nil means time.Now.
	Now func() time.Time
}

// IngestInput is one upload request.
type IngestInput struct {
	UserID      string
	Username    string
	ContentType string
	Data        []byte
}

// IngestResult is the successful pipeline output.
type IngestResult struct {
	ID       string
	FilePath string
	Parsed   parser.ParsedResume
}

// Version describes one stored resume file.
type Version struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
	PublicURL string    `json:"public_url"`
}

// Ingest validates the upload, extracts text and links, normalizes, runs
// structured extraction, enforces the retention cap, uploads the file, and
// returns the structured result with its public URL attached.
func (s *Service) Ingest(ctx context.Context, in IngestInput) (IngestResult, error) {
	metrics.IncIngestStarted()
	start := time.Now()

	result, err := s.ingest(ctx, in)
	metrics.ObserveIngestDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncIngestFailed()
		return IngestResult{}, err
	}
	metrics.IncIngestCompleted()
	return result, nil
}

func (s *Service) ingest(ctx context.Context, in IngestInput) (IngestResult, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return IngestResult{}, fmt.Errorf("%w: missing caller identity", ErrValidation)
	}
	if !strings.EqualFold(strings.TrimSpace(strings.Split(in.ContentType, ";")[0]), mimePDF) {
		return IngestResult{}, fmt.Errorf("%w: only PDF files are allowed", ErrValidation)
	}
	if len(in.Data) > MaxUploadBytes {
		return IngestResult{}, fmt.Errorf("%w: file size must be under 5MB", ErrValidation)
	}
	if len(in.Data) == 0 {
		return IngestResult{}, fmt.Errorf("%w: uploaded file is empty", ErrValidation)
	}

	text, err := extract.Text(in.Data)
	if err != nil {
		return IngestResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		return IngestResult{}, fmt.Errorf("%w: no text could be extracted from the PDF", ErrValidation)
	}
	links := extract.Links(in.Data)

	cleaned := s.Parser.CleanText(ctx, text)

	parsed, err := s.Parser.Analyze(ctx, cleaned, links)
	if err != nil {
		return IngestResult{}, err
	}
	if parsed.Name == "" || parsed.Email == "" {
		return IngestResult{}, fmt.Errorf("%w: could not extract name or email from resume", ErrValidation)
	}

	if err := s.enforceRetention(ctx, in.UserID); err != nil {
		return IngestResult{}, err
	}

	filePath := s.filePath(in.UserID, in.Username)
	if _, err := s.Store.Upload(ctx, filePath, mimePDF, bytes.NewReader(in.Data)); err != nil {
		return IngestResult{}, fmt.Errorf("%w: upload %s: %v", ErrStorage, filePath, err)
	}
	parsed.ResumeURL = s.Store.PublicURL(filePath)

	return IngestResult{
		ID:       uuid.NewString(),
		FilePath: filePath,
		Parsed:   parsed,
	}, nil
}

// enforceRetention deletes the oldest stored file when the member's folder
// is at or above the version cap. The list-evict-upload sequence is not
// atomic: two concurrent uploads can both skip eviction and briefly exceed
// the cap by one.
func (s *Service) enforceRetention(ctx context.Context, userID string) error {
	files, err := s.Store.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: list %s: %v", ErrStorage, userID, err)
	}
	if len(files) < s.maxVersions() {
		return nil
	}

	oldest := files[0]
	for _, f := range files[1:] {
		if f.CreatedAt.Before(oldest.CreatedAt) ||
			(f.CreatedAt.Equal(oldest.CreatedAt) && f.Name < oldest.Name) {
			oldest = f
		}
	}

	path := userID + "/" + oldest.Name
	if err := s.Store.Remove(ctx, []string{path}); err != nil {
		return fmt.Errorf("%w: evict %s: %v", ErrStorage, path, err)
	}
	telemetry.Info("resumes.retention.evicted", map[string]any{
		"user_id": userID,
		"name":    oldest.Name,
	})
	return nil
}

// ListVersions returns the caller's stored resume files, newest first.
func (s *Service) ListVersions(ctx context.Context, userID string) ([]Version, error) {
	files, err := s.Store.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrStorage, userID, err)
	}

	out := make([]Version, 0, len(files))
	for _, f := range files {
		out = append(out, Version{
			Name:      f.Name,
			SizeBytes: f.SizeBytes,
			CreatedAt: f.CreatedAt,
			PublicURL: s.Store.PublicURL(userID + "/" + f.Name),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Name > out[j].Name
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteVersion removes one stored resume file by name.
func (s *Service) DeleteVersion(ctx context.Context, userID, name string) error {
	sanitized, err := util.SanitizeFileName(name)
	if err != nil {
		return fmt.Errorf("%w: invalid file name", ErrValidation)
	}
	if err := s.Store.Remove(ctx, []string{userID + "/" + sanitized}); err != nil {
		return fmt.Errorf("%w: remove %s: %v", ErrStorage, sanitized, err)
	}
	return nil
}

func (s *Service) maxVersions() int {
	if s.MaxVersions > 0 {
		return s.MaxVersions
	}
	return DefaultMaxVersions
}

func (s *Service) filePath(userID, username string) string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	name, err := util.SanitizeFileName(username)
	if err != nil || name == "" {
		name = "resume"
	}
	name = strings.ReplaceAll(name, " ", "_")

	timestamp := now().UTC().Format(time.RFC3339)
	timestamp = strings.NewReplacer(":", "-", ".", "-").Replace(timestamp)
	return fmt.Sprintf("%s/%s_%s.pdf", userID, name, timestamp)
}
