package members

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-process Repo used when no database is configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	members map[string]*Member
	byEmail map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		members: make(map[string]*Member),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepo) Upsert(_ context.Context, m Member) (Member, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := strings.ToLower(m.Email)
	if id, ok := r.byEmail[key]; ok {
		existing := r.members[id]
		existing.Name = m.Name
		existing.Domain = m.Domain
		existing.YearOfStudy = m.YearOfStudy
		existing.GithubURL = m.GithubURL
		existing.LinkedinURL = m.LinkedinURL
		existing.ResumeURL = m.ResumeURL
		existing.UpdatedAt = now
		return cloneMember(existing), false, nil
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	stored := m
	r.members[m.ID] = &stored
	r.byEmail[key] = m.ID
	return cloneMember(&stored), true, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	return cloneMember(m), nil
}

func (r *MemoryRepo) Search(_ context.Context, f SearchFilter) ([]Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Member{}
	for _, m := range r.members {
		if f.Domain != "" && !strings.EqualFold(m.Domain, f.Domain) {
			continue
		}
		if f.Year != nil && (m.YearOfStudy == nil || *m.YearOfStudy != *f.Year) {
			continue
		}
		out = append(out, cloneMember(m))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRepo) ReplaceSkills(_ context.Context, memberID string, skills []string) error {
	return r.mutate(memberID, func(m *Member) {
		m.Skills = append([]string{}, skills...)
	})
}

func (r *MemoryRepo) ReplaceAchievements(_ context.Context, memberID string, items []Achievement) error {
	return r.mutate(memberID, func(m *Member) {
		m.Achievements = fillRowIDs(items, memberID, func(a *Achievement) (*string, *string) { return &a.ID, &a.MemberID })
	})
}

func (r *MemoryRepo) ReplaceExperiences(_ context.Context, memberID string, items []Experience) error {
	return r.mutate(memberID, func(m *Member) {
		m.Experiences = fillRowIDs(items, memberID, func(e *Experience) (*string, *string) { return &e.ID, &e.MemberID })
	})
}

func (r *MemoryRepo) ReplaceLinks(_ context.Context, memberID string, items []Link) error {
	return r.mutate(memberID, func(m *Member) {
		m.Links = fillRowIDs(items, memberID, func(l *Link) (*string, *string) { return &l.ID, &l.MemberID })
	})
}

func (r *MemoryRepo) ReplaceCertifications(_ context.Context, memberID string, items []Certification) error {
	return r.mutate(memberID, func(m *Member) {
		m.Certifications = fillRowIDs(items, memberID, func(c *Certification) (*string, *string) { return &c.ID, &c.MemberID })
	})
}

func (r *MemoryRepo) ReplaceProjects(_ context.Context, memberID string, items []Project) error {
	return r.mutate(memberID, func(m *Member) {
		m.Projects = fillRowIDs(items, memberID, func(p *Project) (*string, *string) { return &p.ID, &p.MemberID })
	})
}

func (r *MemoryRepo) DeleteAchievement(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members {
		for i, a := range m.Achievements {
			if a.ID == id {
				m.Achievements = append(m.Achievements[:i], m.Achievements[i+1:]...)
				return nil
			}
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) DeleteProject(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members {
		for i, p := range m.Projects {
			if p.ID == id {
				m.Projects = append(m.Projects[:i], m.Projects[i+1:]...)
				return nil
			}
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) mutate(memberID string, fn func(*Member)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[memberID]
	if !ok {
		return ErrNotFound
	}
	fn(m)
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func fillRowIDs[T any](items []T, memberID string, fields func(*T) (id, member *string)) []T {
	out := append([]T{}, items...)
	for i := range out {
		id, member := fields(&out[i])
		if *id == "" {
			*id = uuid.NewString()
		}
		*member = memberID
	}
	return out
}

func cloneMember(m *Member) Member {
	out := *m
	out.Skills = append([]string{}, m.Skills...)
	out.Achievements = append([]Achievement{}, m.Achievements...)
	out.Experiences = append([]Experience{}, m.Experiences...)
	out.Links = append([]Link{}, m.Links...)
	out.Certifications = append([]Certification{}, m.Certifications...)
	out.Projects = append([]Project{}, m.Projects...)
	return out
}

var _ Repo = (*MemoryRepo)(nil)
