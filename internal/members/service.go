package members

import (
	"context"
	"fmt"
	"strings"
)

// ProfileInput is the full-profile payload saved in one shot.
type ProfileInput struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Domain         string          `json:"domain"`
	YearOfStudy    *int            `json:"year_of_study"`
	GithubURL      string          `json:"github_url"`
	LinkedinURL    string          `json:"linkedin_url"`
	ResumeURL      string          `json:"resume_url"`
	Skills         []string        `json:"skills"`
	Achievements   []Achievement   `json:"achievements"`
	Experiences    []Experience    `json:"experiences"`
	Links          []Link          `json:"links"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
}

// Service holds directory business logic on top of a Repo.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// SaveProfile upserts the member row keyed by email and replaces every
// section with the payload's contents. Returns the stored member and
// whether a new row was created.
func (s *Service) SaveProfile(ctx context.Context, in ProfileInput) (Member, bool, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		return Member{}, false, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	m, created, err := s.Repo.Upsert(ctx, Member{
		Name:        in.Name,
		Email:       in.Email,
		Domain:      strings.TrimSpace(in.Domain),
		YearOfStudy: in.YearOfStudy,
		GithubURL:   strings.TrimSpace(in.GithubURL),
		LinkedinURL: strings.TrimSpace(in.LinkedinURL),
		ResumeURL:   strings.TrimSpace(in.ResumeURL),
	})
	if err != nil {
		return Member{}, false, fmt.Errorf("upsert member: %w", err)
	}

	if err := s.Repo.ReplaceSkills(ctx, m.ID, dedupSkills(in.Skills)); err != nil {
		return Member{}, false, fmt.Errorf("replace skills: %w", err)
	}
	if err := s.Repo.ReplaceAchievements(ctx, m.ID, in.Achievements); err != nil {
		return Member{}, false, fmt.Errorf("replace achievements: %w", err)
	}
	if err := s.Repo.ReplaceExperiences(ctx, m.ID, in.Experiences); err != nil {
		return Member{}, false, fmt.Errorf("replace experiences: %w", err)
	}
	if err := s.Repo.ReplaceLinks(ctx, m.ID, in.Links); err != nil {
		return Member{}, false, fmt.Errorf("replace links: %w", err)
	}
	if err := s.Repo.ReplaceCertifications(ctx, m.ID, in.Certifications); err != nil {
		return Member{}, false, fmt.Errorf("replace certifications: %w", err)
	}
	if err := s.Repo.ReplaceProjects(ctx, m.ID, in.Projects); err != nil {
		return Member{}, false, fmt.Errorf("replace projects: %w", err)
	}

	stored, err := s.Repo.GetByID(ctx, m.ID)
	if err != nil {
		return Member{}, false, fmt.Errorf("reload member: %w", err)
	}
	return stored, created, nil
}

func (s *Service) Get(ctx context.Context, id string) (Member, error) {
	if strings.TrimSpace(id) == "" {
		return Member{}, fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, id)
}

// Search lists members. Domain and year narrow the query at the store;
// term and skill are matched against the hydrated rows.
func (s *Service) Search(ctx context.Context, f SearchFilter) ([]Member, error) {
	rows, err := s.Repo.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search members: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(f.Term))
	skill := strings.ToLower(strings.TrimSpace(f.Skill))
	if term == "" && skill == "" {
		return rows, nil
	}

	out := []Member{}
	for _, m := range rows {
		if term != "" && !matchesTerm(m, term) {
			continue
		}
		if skill != "" && !hasSkill(m, skill) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Section returns one profile section by its route name.
func (s *Service) Section(ctx context.Context, section, memberID string) (any, error) {
	m, err := s.Repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	switch section {
	case "profile":
		return m, nil
	case "skills":
		return m.Skills, nil
	case "achievements":
		return m.Achievements, nil
	case "experience":
		return m.Experiences, nil
	case "links":
		return m.Links, nil
	case "certifications":
		return m.Certifications, nil
	case "projects":
		return m.Projects, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSection, section)
	}
}

// DeleteSectionItem removes a single row. Only achievements and projects
// support item deletion.
func (s *Service) DeleteSectionItem(ctx context.Context, section, id string) error {
	switch section {
	case "achievements":
		return s.Repo.DeleteAchievement(ctx, id)
	case "projects":
		return s.Repo.DeleteProject(ctx, id)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedSection, section)
	}
}

// Export returns every member with hydrated sections for a bulk dump.
func (s *Service) Export(ctx context.Context) ([]Member, error) {
	return s.Search(ctx, SearchFilter{})
}

func matchesTerm(m Member, term string) bool {
	if strings.Contains(strings.ToLower(m.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Email), term) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Domain), term) {
		return true
	}
	for _, skill := range m.Skills {
		if strings.Contains(strings.ToLower(skill), term) {
			return true
		}
	}
	return false
}

func hasSkill(m Member, skill string) bool {
	for _, s := range m.Skills {
		if strings.ToLower(s) == skill {
			return true
		}
	}
	return false
}

func dedupSkills(in []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, raw := range in {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
