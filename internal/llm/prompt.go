package llm

import (
	"encoding/json"
	"fmt"
)

const (
	extractSystemPrompt = "You are a professional resume analysis assistant that accurately extracts key information from resumes."
	filterSystemPrompt  = "You are a professional HR assistant that understands hiring requirements and converts them into screening criteria."
	scoringSystemPrompt = "You are a professional HR analyst that accurately evaluates how well candidates match a position."
)

func buildExtractPrompt(resumeText string) string {
	return fmt.Sprintf(`Extract structured information from the resume text below and return it as JSON with these fields:

1. name: full name
2. email: email address
3. phone: phone number
4. education: education background as a single string, e.g. "Masters - Peking University - Computer Science"
5. experience_years: years of work experience (number)
6. current_position: current job title
7. current_company: current employer
8. skills: list of skills (array of strings)
9. work_experience: short work-history summary

The education field must be a plain string, never a nested object.

Resume text:
%s

Return strictly JSON with no surrounding commentary:
`, resumeText)
}

func buildFilterPrompt(naturalQuery string) string {
	return fmt.Sprintf(`The user's screening request in natural language: %q

Convert the request into structured filter criteria and return JSON:

{
    "keywords": ["keyword1", "keyword2"],
    "education": "education requirement",
    "min_experience": minimum years (number),
    "max_experience": maximum years (number),
    "skills": ["skill1", "skill2"],
    "position_keywords": ["title keyword1", "title keyword2"],
    "company_keywords": ["company keyword1", "company keyword2"]
}

Use null or an empty array for criteria that do not apply.
`, naturalQuery)
}

func buildScoringPrompt(requirements string, candidates []CandidateSummary) (string, error) {
	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}
	return fmt.Sprintf(`Position requirements: %s

Candidate data:
%s

Score every candidate from 0 to 100 and explain the match. Return JSON:

{
    "matches": [
        {
            "candidate_id": "the candidate's id",
            "score": 0,
            "reasons": ["matching reason 1", "matching reason 2"],
            "concerns": ["potential concern 1", "potential concern 2"]
        }
    ]
}
`, requirements, string(data)), nil
}
