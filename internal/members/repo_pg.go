package members

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo on Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, m Member) (Member, bool, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	const query = `
INSERT INTO members (id, name, email, domain, year_of_study, github_url, linkedin_url, resume_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
ON CONFLICT (email) DO UPDATE SET
  name = EXCLUDED.name,
  domain = EXCLUDED.domain,
  year_of_study = EXCLUDED.year_of_study,
  github_url = EXCLUDED.github_url,
  linkedin_url = EXCLUDED.linkedin_url,
  resume_url = EXCLUDED.resume_url,
  updated_at = now()
RETURNING id, created_at, updated_at, (created_at = updated_at) AS created`
	var created bool
	err := r.DB.QueryRowContext(ctx, query,
		m.ID,
		m.Name,
		m.Email,
		nullableString(m.Domain),
		m.YearOfStudy,
		nullableString(m.GithubURL),
		nullableString(m.LinkedinURL),
		nullableString(m.ResumeURL),
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt, &created)
	if err != nil {
		return Member{}, false, err
	}
	return m, created, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Member, error) {
	const query = `
SELECT id, name, email, domain, year_of_study, github_url, linkedin_url, resume_url, created_at, updated_at
FROM members
WHERE id = $1
LIMIT 1`
	m, err := r.scanMember(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	if err := r.loadSections(ctx, &m); err != nil {
		return Member{}, err
	}
	return m, nil
}

func (r *PGRepo) Search(ctx context.Context, f SearchFilter) ([]Member, error) {
	query := `
SELECT id, name, email, domain, year_of_study, github_url, linkedin_url, resume_url, created_at, updated_at
FROM members
WHERE 1=1`
	args := []any{}
	if f.Domain != "" {
		args = append(args, f.Domain)
		query += ` AND domain = $` + strconv.Itoa(len(args))
	}
	if f.Year != nil {
		args = append(args, *f.Year)
		query += ` AND year_of_study = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		m, err := r.scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := r.loadSections(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanMember(row rowScanner) (Member, error) {
	var m Member
	var domain sql.NullString
	var year sql.NullInt64
	var githubURL sql.NullString
	var linkedinURL sql.NullString
	var resumeURL sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&domain,
		&year,
		&githubURL,
		&linkedinURL,
		&resumeURL,
		&m.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return Member{}, err
	}
	if domain.Valid {
		m.Domain = domain.String
	}
	if year.Valid {
		y := int(year.Int64)
		m.YearOfStudy = &y
	}
	if githubURL.Valid {
		m.GithubURL = githubURL.String
	}
	if linkedinURL.Valid {
		m.LinkedinURL = linkedinURL.String
	}
	if resumeURL.Valid {
		m.ResumeURL = resumeURL.String
	}
	if updatedAt.Valid {
		m.UpdatedAt = updatedAt.Time
	} else {
		m.UpdatedAt = time.Now().UTC()
	}
	return m, nil
}

func (r *PGRepo) loadSections(ctx context.Context, m *Member) error {
	var err error
	if m.Skills, err = r.memberSkills(ctx, m.ID); err != nil {
		return err
	}
	if m.Achievements, err = r.memberAchievements(ctx, m.ID); err != nil {
		return err
	}
	if m.Experiences, err = r.memberExperiences(ctx, m.ID); err != nil {
		return err
	}
	if m.Links, err = r.memberLinks(ctx, m.ID); err != nil {
		return err
	}
	if m.Certifications, err = r.memberCertifications(ctx, m.ID); err != nil {
		return err
	}
	if m.Projects, err = r.memberProjects(ctx, m.ID); err != nil {
		return err
	}
	return nil
}

func (r *PGRepo) memberSkills(ctx context.Context, memberID string) ([]string, error) {
	const query = `
SELECT s.name
FROM member_skills ms
JOIN skills s ON s.id = ms.skill_id
WHERE ms.member_id = $1
ORDER BY s.name`
	rows, err := r.DB.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r *PGRepo) memberAchievements(ctx context.Context, memberID string) ([]Achievement, error) {
	const query = `
SELECT id, member_id, description
FROM achievements
WHERE member_id = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Achievement{}
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.MemberID, &a.Description); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) memberExperiences(ctx context.Context, memberID string) ([]Experience, error) {
	const query = `
SELECT id, member_id, company, role, description, start_date, end_date, is_current
FROM experiences
WHERE member_id = $1
ORDER BY start_date DESC`
	rows, err := r.DB.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Experience{}
	for rows.Next() {
		var e Experience
		var endDate sql.NullString
		if err := rows.Scan(&e.ID, &e.MemberID, &e.Company, &e.Role, &e.Description, &e.StartDate, &endDate, &e.IsCurrent); err != nil {
			return nil, err
		}
		if endDate.Valid {
			e.EndDate = &endDate.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PGRepo) memberLinks(ctx context.Context, memberID string) ([]Link, error) {
	const query = `
SELECT id, member_id, label, url
FROM links
WHERE member_id = $1
ORDER BY label`
	rows, err := r.DB.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Link{}
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.ID, &l.MemberID, &l.Label, &l.URL); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PGRepo) memberCertifications(ctx context.Context, memberID string) ([]Certification, error) {
	const query = `
SELECT id, member_id, name, issuing_organization
FROM certifications
WHERE member_id = $1
ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Certification{}
	for rows.Next() {
		var c Certification
		var org sql.NullString
		if err := rows.Scan(&c.ID, &c.MemberID, &c.Name, &org); err != nil {
			return nil, err
		}
		if org.Valid {
			c.IssuingOrganization = org.String
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) memberProjects(ctx context.Context, memberID string) ([]Project, error) {
	const query = `
SELECT id, member_id, name, description, link
FROM projects
WHERE member_id = $1
ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Project{}
	for rows.Next() {
		var p Project
		var link sql.NullString
		if err := rows.Scan(&p.ID, &p.MemberID, &p.Name, &p.Description, &link); err != nil {
			return nil, err
		}
		if link.Valid {
			p.Link = link.String
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) ReplaceSkills(ctx context.Context, memberID string, skills []string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM member_skills WHERE member_id = $1`, memberID); err != nil {
		return err
	}
	for _, name := range skills {
		skillID, err := r.skillID(ctx, name)
		if err != nil {
			return err
		}
		if _, err := r.DB.ExecContext(ctx,
			`INSERT INTO member_skills (member_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			memberID, skillID,
		); err != nil {
			return err
		}
	}
	return nil
}

// skillID fetches a skill by case-insensitive name, creating it if missing.
func (r *PGRepo) skillID(ctx context.Context, name string) (string, error) {
	var id string
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM skills WHERE lower(name) = lower($1) LIMIT 1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id = uuid.NewString()
	if _, err := r.DB.ExecContext(ctx, `INSERT INTO skills (id, name) VALUES ($1, $2)`, id, name); err != nil {
		return "", err
	}
	return id, nil
}

func (r *PGRepo) ReplaceAchievements(ctx context.Context, memberID string, items []Achievement) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM achievements WHERE member_id = $1`, memberID); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := r.DB.ExecContext(ctx,
			`INSERT INTO achievements (id, member_id, description) VALUES ($1, $2, $3)`,
			orNewID(item.ID), memberID, item.Description,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepo) ReplaceExperiences(ctx context.Context, memberID string, items []Experience) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM experiences WHERE member_id = $1`, memberID); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := r.DB.ExecContext(ctx,
			`INSERT INTO experiences (id, member_id, company, role, description, start_date, end_date, is_current)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			orNewID(item.ID), memberID, item.Company, item.Role, item.Description, item.StartDate, item.EndDate, item.IsCurrent,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepo) ReplaceLinks(ctx context.Context, memberID string, items []Link) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM links WHERE member_id = $1`, memberID); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := r.DB.ExecContext(ctx,
			`INSERT INTO links (id, member_id, label, url) VALUES ($1, $2, $3, $4)`,
			orNewID(item.ID), memberID, item.Label, item.URL,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepo) ReplaceCertifications(ctx context.Context, memberID string, items []Certification) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM certifications WHERE member_id = $1`, memberID); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := r.DB.ExecContext(ctx,
			`INSERT INTO certifications (id, member_id, name, issuing_organization) VALUES ($1, $2, $3, $4)`,
			orNewID(item.ID), memberID, item.Name, nullableString(item.IssuingOrganization),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepo) ReplaceProjects(ctx context.Context, memberID string, items []Project) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM projects WHERE member_id = $1`, memberID); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := r.DB.ExecContext(ctx,
			`INSERT INTO projects (id, member_id, name, description, link) VALUES ($1, $2, $3, $4, $5)`,
			orNewID(item.ID), memberID, item.Name, item.Description, nullableString(item.Link),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepo) DeleteAchievement(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM achievements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) DeleteProject(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
