package extract

// Recognized field names. Fields is the common currency between the rule
// extractor, the oracle client, and the merge step: a flat name -> value
// mapping where a present key always carries a non-empty, normalized value.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldEducation       = "education"
	FieldExperienceYears = "experience_years"
	FieldCurrentPosition = "current_position"
	FieldCurrentCompany  = "current_company"
	FieldSkills          = "skills"
	FieldWorkExperience  = "work_experience"
)

// Fields maps field names to extracted values. Absent keys mean "leave the
// existing value alone"; keys are never set to null or empty values.
type Fields map[string]any

// String returns the named field as a string, or "" when absent or not a
// string.
func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// Int returns the named field as an int, or 0 when absent.
func (f Fields) Int(key string) int {
	switch v := f[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Strings returns the named field as a string slice, or nil when absent.
func (f Fields) Strings(key string) []string {
	switch v := f[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
