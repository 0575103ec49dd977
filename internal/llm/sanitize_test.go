package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeResumeJSON(t *testing.T) {
	raw := []byte(`{
		"name": "  Jane Doe  ",
		"email": null,
		"phone": "",
		"experience_years": "5",
		"skills": ["Go", "Python"],
		"confidence": 0.93
	}`)

	out, dropped, err := SanitizeResumeJSON(raw, nil)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))

	assert.Equal(t, "Jane Doe", m["name"])
	assert.NotContains(t, m, "email")
	assert.NotContains(t, m, "phone")
	assert.NotContains(t, m, "confidence")
	assert.Equal(t, float64(5), m["experience_years"])
	assert.ElementsMatch(t, dropped, []string{"email(null)", "phone(empty)", "confidence(unknown)"})
}

func TestSanitizeResumeJSONYearsCoercion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{"float", `{"experience_years": 5.0}`, float64(5)},
		{"digit string", `{"experience_years": "7"}`, float64(7)},
		{"garbage string dropped", `{"experience_years": "five"}`, nil},
		{"null dropped", `{"experience_years": null}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := SanitizeResumeJSON([]byte(tt.raw), nil)
			require.NoError(t, err)
			var m map[string]any
			require.NoError(t, json.Unmarshal(out, &m))
			if tt.want == nil {
				assert.NotContains(t, m, "experience_years")
				return
			}
			assert.Equal(t, tt.want, m["experience_years"])
		})
	}
}

func TestSanitizeResumeJSONInvalidInput(t *testing.T) {
	_, _, err := SanitizeResumeJSON([]byte(`["not", "an", "object"]`), nil)
	assert.Error(t, err)
}
