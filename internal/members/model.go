package members

import "time"

// Member is a directory profile with its hydrated sections.
type Member struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Domain      string    `json:"domain,omitempty"`
	YearOfStudy *int      `json:"year_of_study,omitempty"`
	GithubURL   string    `json:"github_url,omitempty"`
	LinkedinURL string    `json:"linkedin_url,omitempty"`
	ResumeURL   string    `json:"resume_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Skills         []string        `json:"skills"`
	Achievements   []Achievement   `json:"achievements"`
	Experiences    []Experience    `json:"experiences"`
	Links          []Link          `json:"links"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
}

// Achievement is one achievement row.
type Achievement struct {
	ID          string `json:"id"`
	MemberID    string `json:"member_id"`
	Description string `json:"description"`
}

// Experience is one experience row.
type Experience struct {
	ID          string  `json:"id"`
	MemberID    string  `json:"member_id"`
	Company     string  `json:"company"`
	Role        string  `json:"role"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	IsCurrent   bool    `json:"is_current"`
}

// Link is one labeled URL row.
type Link struct {
	ID       string `json:"id"`
	MemberID string `json:"member_id"`
	Label    string `json:"label"`
	URL      string `json:"url"`
}

// Certification is one certification row.
type Certification struct {
	ID                  string `json:"id"`
	MemberID            string `json:"member_id"`
	Name                string `json:"name"`
	IssuingOrganization string `json:"issuing_organization,omitempty"`
}

// Project is one project row.
type Project struct {
	ID          string `json:"id"`
	MemberID    string `json:"member_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
}

// SearchFilter narrows member listings.
type SearchFilter struct {
	Term   string
	Domain string
	Skill  string
	Year   *int
}
