package llm

// BuildResumeJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map for the resume extraction reply. Education deliberately admits
// both a plain string and a degree/school/major object: models return either,
// and the merge step flattens the object form.
func BuildResumeJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"email": map[string]any{"type": "string"},
			"phone": map[string]any{"type": "string"},
			"education": map[string]any{
				"anyOf": []any{
					map[string]any{"type": "string"},
					map[string]any{
						"type": "object",
						"properties": map[string]any{
							"degree": map[string]any{"type": "string"},
							"school": map[string]any{"type": "string"},
							"major":  map[string]any{"type": "string"},
						},
					},
				},
			},
			"experience_years": map[string]any{"type": "integer", "minimum": 0},
			"current_position": map[string]any{"type": "string"},
			"current_company":  map[string]any{"type": "string"},
			"skills": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"work_experience": map[string]any{"type": "string"},
		},
	}
}
