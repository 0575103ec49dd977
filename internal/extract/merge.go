package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// Merge combines rule-based and oracle-based extraction results into one
// field set. Oracle fields win field-by-field when both are present; a rule
// field survives only when the oracle omitted it. The merged set is
// normalized so every present value has the field's declared shape, which
// also makes Merge idempotent: Merge(m, m) == m.
func Merge(rule, oracle Fields) Fields {
	merged := make(Fields, len(rule)+len(oracle))
	for k, v := range rule {
		merged[k] = v
	}
	for k, v := range oracle {
		merged[k] = v
	}

	out := make(Fields, len(merged))
	for k, v := range merged {
		if nv, ok := normalizeField(k, v); ok {
			out[k] = nv
		}
	}
	return out
}

func normalizeField(key string, v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	switch key {
	case FieldEducation:
		return normalizeEducation(v)
	case FieldExperienceYears:
		return normalizeYears(v)
	case FieldSkills:
		return normalizeSkills(v)
	default:
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if s == "" {
			return nil, false
		}
		return s, true
	}
}

// normalizeEducation flattens a compound degree/school/major structure into
// "degree - school - major", keeping only present components. A structure
// with no recognized components is stringified verbatim rather than dropped.
func normalizeEducation(v any) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if s == "" {
			return nil, false
		}
		return s, true
	}
	var parts []string
	for _, component := range []string{"degree", "school", "major"} {
		if s, ok := m[component].(string); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%v", m), true
	}
	return strings.Join(parts, " - "), true
}

func normalizeYears(v any) (any, bool) {
	var years int
	switch t := v.(type) {
	case int:
		years = t
	case int64:
		years = int(t)
	case float64:
		years = int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, false
		}
		years = n
	default:
		return nil, false
	}
	if years < 0 {
		return nil, false
	}
	return years, true
}

// normalizeSkills coerces the value to a de-duplicated string slice,
// preserving first-seen order.
func normalizeSkills(v any) (any, bool) {
	var raw []string
	switch t := v.(type) {
	case []string:
		raw = t
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			raw = []string{s}
		}
	default:
		return nil, false
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
