package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeOraclePrecedence(t *testing.T) {
	rule := Fields{FieldName: "Rule Name", FieldSkills: []string{"Python"}}
	oracle := Fields{FieldName: "Oracle Name"}

	got := Merge(rule, oracle)

	assert.Equal(t, "Oracle Name", got[FieldName])
	assert.Equal(t, []string{"Python"}, got[FieldSkills])
}

func TestMergeRuleFieldSurvivesWhenOracleOmits(t *testing.T) {
	rule := Fields{FieldEmail: "a@x.com", FieldPhone: "13812345678"}
	oracle := Fields{FieldEmail: "b@y.com"}

	got := Merge(rule, oracle)

	assert.Equal(t, "b@y.com", got[FieldEmail])
	assert.Equal(t, "13812345678", got[FieldPhone])
}

func TestMergeEducationStructure(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
	}{
		{
			"full structure",
			map[string]any{"degree": "Masters", "school": "X University", "major": "CS"},
			"Masters - X University - CS",
		},
		{
			"partial structure",
			map[string]any{"school": "X University"},
			"X University",
		},
		{
			"plain string passes through",
			"Bachelors - Y College",
			"Bachelors - Y College",
		},
		{
			"unrecognized structure stringified",
			map[string]any{"institution": "Z"},
			"map[institution:Z]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(nil, Fields{FieldEducation: tt.value})
			assert.Equal(t, tt.want, got[FieldEducation])
		})
	}
}

func TestMergeExperienceYears(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"int", 5, 5},
		{"json float", float64(7), 7},
		{"digit string", "3", 3},
		{"negative dropped", -1, nil},
		{"garbage string dropped", "several", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(nil, Fields{FieldExperienceYears: tt.value})
			if tt.want == nil {
				assert.NotContains(t, got, FieldExperienceYears)
				return
			}
			assert.Equal(t, tt.want, got[FieldExperienceYears])
		})
	}
}

func TestMergeSkillsNormalization(t *testing.T) {
	got := Merge(nil, Fields{FieldSkills: []any{"Go", "Python", "Go", " ", "Python"}})
	assert.Equal(t, []string{"Go", "Python"}, got[FieldSkills])

	got = Merge(nil, Fields{FieldSkills: "Go"})
	assert.Equal(t, []string{"Go"}, got[FieldSkills])
}

func TestMergeDropsNilAndEmpty(t *testing.T) {
	got := Merge(Fields{FieldName: "  ", FieldEmail: nil}, Fields{FieldPhone: ""})
	assert.Empty(t, got)
}

func TestMergeIdempotent(t *testing.T) {
	m := Merge(
		Fields{FieldEmail: "a@x.com", FieldSkills: []string{"Go", "Go"}},
		Fields{
			FieldName:            "Jane",
			FieldEducation:       map[string]any{"degree": "PhD", "school": "U"},
			FieldExperienceYears: "4",
		},
	)
	again := Merge(m, m)
	assert.Equal(t, m, again)
}
