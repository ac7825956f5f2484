package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-backend/internal/llm"
	"talent-backend/internal/shared/retry"
	"talent-backend/internal/shared/telemetry"
)

// Parser runs the AI-backed normalization and structured-extraction steps.
type Parser struct {
	LLM llm.Client
	// Now is used for year-of-study derivation. Nil means time.Now.
	Now func() time.Time
	// Retry overrides retry tuning, used by tests. Zero values use defaults.
	Retry retry.Options
}

// New constructs a Parser.
func New(client llm.Client) *Parser {
	return &Parser{LLM: client}
}

// CleanText reformats raw extracted text via the AI cleanup prompt. It is
// best-effort: on exhausted retries the original text is returned unchanged.
func (p *Parser) CleanText(ctx context.Context, text string) string {
	cleaned, err := retry.Do(ctx, func(ctx context.Context) (string, error) {
		return p.LLM.GenerateContent(ctx, buildCleanupPrompt(text))
	}, p.Retry)
	if err != nil {
		telemetry.Error("parser.clean.fallback", map[string]any{"error": err.Error()})
		return text
	}
	if strings.TrimSpace(cleaned) == "" {
		return text
	}
	return cleaned
}

// aiResume is the wire shape the extraction prompt asks for.
type aiResume struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Skills         []string        `json:"skills"`
	Domain         string          `json:"domain"`
	GraduationYear *int            `json:"graduation_year"`
	Achievements   []string        `json:"achievements"`
	Experiences    []Experience    `json:"experiences"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
	GithubURL      string          `json:"github_url"`
	LinkedinURL    string          `json:"linkedin_url"`
}

// Analyze extracts a structured resume record from normalized text plus the
// document's hyperlinks. Transport-level failures are retried; a response
// that fails to parse as JSON surfaces immediately as ErrParse.
func (p *Parser) Analyze(ctx context.Context, text string, links []string) (ParsedResume, error) {
	prompt := buildExtractionPrompt(text, links)

	opts := p.Retry
	baseRetryable := opts.Retryable
	if baseRetryable == nil {
		baseRetryable = retry.RetryableMessage
	}
	opts.Retryable = func(err error) bool {
		if errors.Is(err, ErrParse) {
			return false
		}
		return baseRetryable(err)
	}

	parsed, err := retry.Do(ctx, func(ctx context.Context) (aiResume, error) {
		raw, err := p.LLM.GenerateContent(ctx, prompt)
		if err != nil {
			return aiResume{}, err
		}
		var out aiResume
		if err := json.Unmarshal([]byte(stripCodeFences(raw)), &out); err != nil {
			return aiResume{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return out, nil
	}, opts)
	if err != nil {
		return ParsedResume{}, err
	}

	result := ParsedResume{
		Name:           strings.TrimSpace(parsed.Name),
		Email:          strings.TrimSpace(parsed.Email),
		Skills:         defaultSlice(parsed.Skills),
		Domain:         strings.TrimSpace(parsed.Domain),
		YearOfStudy:    p.yearOfStudy(parsed.GraduationYear),
		Achievements:   defaultSlice(parsed.Achievements),
		Experiences:    defaultSlice(parsed.Experiences),
		Certifications: defaultSlice(parsed.Certifications),
		Projects:       defaultSlice(parsed.Projects),
		GithubURL:      strings.TrimSpace(parsed.GithubURL),
		LinkedinURL:    strings.TrimSpace(parsed.LinkedinURL),
		ExtractedLinks: defaultSlice(links),
	}
	return result, nil
}

// yearOfStudy derives the current year of study from a graduation year.
// Accepted only when one to four years remain until graduation.
func (p *Parser) yearOfStudy(graduationYear *int) *int {
	if graduationYear == nil {
		return nil
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	remaining := *graduationYear - now().Year()
	if remaining < 1 || remaining > 4 {
		return nil
	}
	return &remaining
}

// stripCodeFences removes a markdown code-fence wrapper if the model added
// one despite being told not to.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func defaultSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
