package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicInfoEmail(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "contact me at jane.doe@example.com for details", "jane.doe@example.com"},
		{"plus tag", "mail: dev+hr@corp.io", "dev+hr@corp.io"},
		{"first wins", "a@x.com then b@y.com", "a@x.com"},
		{"none", "no contact details here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BasicInfo(tt.text)
			if tt.want == "" {
				assert.NotContains(t, got, FieldEmail)
				return
			}
			assert.Equal(t, tt.want, got[FieldEmail])
		})
	}
}

func TestBasicInfoPhone(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"cn mobile", "电话: 13812345678", "13812345678"},
		{"cn mobile with country code", "+86 13912345678", "+86 13912345678"},
		{"landline", "tel 010-12345678", "010-12345678"},
		{"too short", "call 12345", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BasicInfo(tt.text)
			if tt.want == "" {
				assert.NotContains(t, got, FieldPhone)
				return
			}
			assert.Equal(t, tt.want, got[FieldPhone])
		})
	}
}

func TestBasicInfoSkillsVocabularyOrder(t *testing.T) {
	// Mentions skills in reverse vocabulary order; output must follow the
	// vocabulary, not the text.
	text := "Worked with Docker, then PostgreSQL, and lots of Python."
	got := BasicInfo(text)
	assert.Equal(t, []string{"Python", "PostgreSQL", "Docker"}, got[FieldSkills])
}

func TestBasicInfoSkillsCaseInsensitive(t *testing.T) {
	got := BasicInfo("expert in python and KUBERNETES")
	assert.Equal(t, []string{"Python", "Kubernetes"}, got[FieldSkills])
}

func TestBasicInfoExperienceYears(t *testing.T) {
	tests := []struct {
		name string
		text string
		want any
	}{
		{"english", "8 years of experience in backend systems", 8},
		{"english no of", "3 years experience", 3},
		{"chinese", "具有5年开发经验", 5},
		{"absent", "experienced engineer", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BasicInfo(tt.text)
			if tt.want == nil {
				assert.NotContains(t, got, FieldExperienceYears)
				return
			}
			assert.Equal(t, tt.want, got[FieldExperienceYears])
		})
	}
}

func TestBasicInfoEmptyText(t *testing.T) {
	got := BasicInfo("")
	assert.Empty(t, got)
}
