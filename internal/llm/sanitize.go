package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
)

// SanitizeResumeJSON normalizes a decoded extraction reply before schema
// validation:
//   - drops null and empty-string values (absent beats empty downstream)
//   - coerces experience_years given as a digit string or float to an integer
//   - removes unknown keys (schema is additionalProperties=false friendly)
//   - trims string values
func SanitizeResumeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 4)

	if v, ok := m["experience_years"]; ok {
		switch t := v.(type) {
		case float64:
			m["experience_years"] = int(t)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				m["experience_years"] = n
			} else {
				delete(m, "experience_years")
				dropped = append(dropped, "experience_years(type)")
			}
		case nil:
			delete(m, "experience_years")
			dropped = append(dropped, "experience_years(null)")
		}
	}

	allowed := map[string]struct{}{
		"name": {}, "email": {}, "phone": {}, "education": {},
		"experience_years": {}, "current_position": {}, "current_company": {},
		"skills": {}, "work_experience": {},
	}
	for k, v := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}
		switch t := v.(type) {
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("oracle.extract.sanitized", "dropped", dropped)
	}
	return out, dropped, nil
}
