package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrcopilot/resume-tracker/internal/common"
)

func TestExtractJSONSpan(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"labeled fence",
			"Here you go:\n```json\n{\"name\": \"Jane\"}\n```\nHope that helps!",
			`{"name": "Jane"}`,
		},
		{
			"bare fence",
			"```\n{\"name\": \"Jane\"}\n```",
			`{"name": "Jane"}`,
		},
		{
			"prose wrapped object",
			`Sure! The result is {"name": "Jane", "skills": ["Go"]} as requested.`,
			`{"name": "Jane", "skills": ["Go"]}`,
		},
		{
			"unterminated labeled fence",
			"```json\n{\"name\": \"Jane\"}",
			`{"name": "Jane"}`,
		},
		{
			"bare object",
			`{"name": "Jane"}`,
			`{"name": "Jane"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONSpan(tt.content)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONSpanNoPayload(t *testing.T) {
	for _, content := range []string{"", "no json here", "} reversed {"} {
		_, err := ExtractJSONSpan(content)
		assert.ErrorIs(t, err, common.ErrOracleMalformedReply, "content %q", content)
	}
}
