package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// SkillVocabulary is the fixed keyword list the rule extractor matches
// against. Output preserves this order, not the order of appearance in the
// resume text.
var SkillVocabulary = []string{
	"Python", "Java", "JavaScript", "TypeScript", "Go", "React", "Vue",
	"Angular", "Node.js", "Django", "Flask", "FastAPI", "Spring", "MySQL",
	"PostgreSQL", "MongoDB", "Redis", "Docker", "Kubernetes", "AWS", "Azure",
	"Git", "Linux", "HTML", "CSS", "SQL",
}

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// CN mobile (11 digits, leading 1[3-9], optional +86 prefix) or a
	// landline in area-number form.
	phoneRe = regexp.MustCompile(`(?:\+?86[-\s]?)?1[3-9]\d{9}|\d{3,4}-\d{7,8}`)

	// Bilingual years-of-experience: "5年...经验" or "5 years experience".
	experienceRe = regexp.MustCompile(`(?i)(\d+)\s*年.*?经验|(\d+)\s*years?\s*(?:of\s*)?experience`)
)

// BasicInfo runs the deterministic pattern-based extraction over raw resume
// text. It never fails: fields with no match are simply omitted. This stage
// is advisory and low-precision; it is the baseline the pipeline keeps when
// the oracle is unavailable, and the fallback extractor's data source.
func BasicInfo(text string) Fields {
	info := Fields{}

	if email := emailRe.FindString(text); email != "" {
		info[FieldEmail] = email
	}

	if phone := phoneRe.FindString(text); phone != "" {
		info[FieldPhone] = phone
	}

	var skills []string
	lower := strings.ToLower(text)
	for _, skill := range SkillVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			skills = append(skills, skill)
		}
	}
	if len(skills) > 0 {
		info[FieldSkills] = skills
	}

	if m := experienceRe.FindStringSubmatch(text); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		if years, err := strconv.Atoi(digits); err == nil && years >= 0 {
			info[FieldExperienceYears] = years
		}
	}

	return info
}
