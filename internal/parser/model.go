package parser

// ParsedResume is the structured output of resume analysis.
type ParsedResume struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Skills         []string        `json:"skills"`
	Domain         string          `json:"domain,omitempty"`
	YearOfStudy    *int            `json:"year_of_study,omitempty"`
	Achievements   []string        `json:"achievements"`
	Experiences    []Experience    `json:"experiences"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
	GithubURL      string          `json:"github_url,omitempty"`
	LinkedinURL    string          `json:"linkedin_url,omitempty"`
	ExtractedLinks []string        `json:"extracted_links"`
	ResumeURL      string          `json:"resume_url,omitempty"`
}

// Experience is one role entry on a resume.
type Experience struct {
	Company     string  `json:"company"`
	Role        string  `json:"role"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	IsCurrent   bool    `json:"is_current"`
}

// Certification is one certification entry.
type Certification struct {
	Name                string `json:"name"`
	IssuingOrganization string `json:"issuing_organization,omitempty"`
}

// Project is one project entry.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
}
