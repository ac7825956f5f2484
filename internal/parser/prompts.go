package parser

import (
	"fmt"
	"strings"
)

const cleanupPromptTemplate = `You are a text formatting assistant. Clean up the following resume text that was extracted from a PDF.

Rules:
- Merge bullet points that were split across multiple lines into single lines.
- Insert a space wherever a lowercase letter is immediately followed by an uppercase letter (words were glued together during extraction).
- Preserve technical terms, acronyms, and hyphenated words exactly as written.
- Separate sections with exactly one blank line.
- Do not add, remove, or reword any content.

Return only the cleaned text, nothing else.

Resume text:
{{TEXT}}`

const extractionPromptTemplate = `You are a resume parsing engine. Extract structured data from the resume text below.

Return a raw JSON object with exactly these keys and no others:
{
  "name": string,
  "email": string,
  "skills": string[],
  "domain": string,
  "graduation_year": number or null,
  "achievements": string[],
  "experiences": [{"company": string, "role": string, "description": string, "start_date": string, "end_date": string or null, "is_current": boolean}],
  "certifications": [{"name": string, "issuing_organization": string}],
  "projects": [{"name": string, "description": string, "link": string}],
  "github_url": string,
  "linkedin_url": string
}

Rules:
- Respond with raw JSON only. No markdown, no code fences, no commentary.
- Use "" for unknown strings and [] for empty lists.
- For github_url and linkedin_url, pick the matching URL from the link list below. Do not invent URLs that are not in the list.

Links found in the document:
{{LINKS}}

Resume text:
{{TEXT}}`

func buildCleanupPrompt(text string) string {
	return strings.NewReplacer("{{TEXT}}", text).Replace(cleanupPromptTemplate)
}

func buildExtractionPrompt(text string, links []string) string {
	linkList := "(none)"
	if len(links) > 0 {
		var b strings.Builder
		for _, link := range links {
			fmt.Fprintf(&b, "- %s\n", link)
		}
		linkList = strings.TrimRight(b.String(), "\n")
	}
	return strings.NewReplacer(
		"{{LINKS}}", linkList,
		"{{TEXT}}", text,
	).Replace(extractionPromptTemplate)
}
