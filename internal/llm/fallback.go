package llm

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hrcopilot/resume-tracker/internal/extract"
)

// FallbackExtract is the local, rule-based stand-in for the detailed oracle
// contract. It runs when no usable API credential is configured so the
// pipeline still delivers baseline value. Same shape, lower fidelity.
func FallbackExtract(resumeText string) extract.Fields {
	fields := extract.BasicInfo(resumeText)

	if name := guessName(resumeText); name != "" {
		fields[extract.FieldName] = name
	}
	if _, ok := fields[extract.FieldName]; !ok {
		fields[extract.FieldName] = fmt.Sprintf("candidate-%s", time.Now().Format("20060102150405"))
	}
	return fields
}

// guessName scans for a labeled name line first, then falls back to a short
// leading line free of contact punctuation, which in practice is the header
// line carrying the candidate's name.
func guessName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, label := range []string{"name:", "name：", "姓名:", "姓名："} {
			if strings.HasPrefix(lower, label) {
				return strings.TrimSpace(line[len(label):])
			}
		}
		if utf8.RuneCountInString(line) <= 24 &&
			len(strings.Fields(line)) <= 4 &&
			!strings.ContainsAny(line, "@:/.0123456789") {
			return line
		}
	}
	return ""
}
