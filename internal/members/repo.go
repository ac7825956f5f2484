package members

import "context"

// Repo is the storage contract for the member directory.
// Upsert is keyed by email; Replace* operations swap a member's whole
// section in one shot, mirroring how profile saves arrive from the client.
type Repo interface {
	Upsert(ctx context.Context, m Member) (Member, bool, error)
	GetByID(ctx context.Context, id string) (Member, error)
	Search(ctx context.Context, f SearchFilter) ([]Member, error)

	ReplaceSkills(ctx context.Context, memberID string, skills []string) error
	ReplaceAchievements(ctx context.Context, memberID string, items []Achievement) error
	ReplaceExperiences(ctx context.Context, memberID string, items []Experience) error
	ReplaceLinks(ctx context.Context, memberID string, items []Link) error
	ReplaceCertifications(ctx context.Context, memberID string, items []Certification) error
	ReplaceProjects(ctx context.Context, memberID string, items []Project) error

	DeleteAchievement(ctx context.Context, id string) error
	DeleteProject(ctx context.Context, id string) error
}
