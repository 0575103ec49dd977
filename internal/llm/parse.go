package llm

import (
	"strings"

	"github.com/hrcopilot/resume-tracker/internal/common"
)

// ExtractJSONSpan recovers the JSON payload from an oracle reply. Models
// wrap their output three observed ways: a fenced block labeled json, an
// unlabeled fenced block, or prose containing a single top-level object.
// Tried in that order; the widest brace span is the last resort.
func ExtractJSONSpan(content string) (string, error) {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```json"); idx != -1 {
		rest := content[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest), nil
	}

	if idx := strings.Index(content, "```"); idx != -1 {
		rest := content[idx+3:]
		if end := strings.Index(rest, "```"); end != -1 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest), nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		return content[start : end+1], nil
	}

	return "", common.NewAppError("MALFORMED_REPLY", "no JSON payload in oracle reply", common.ErrOracleMalformedReply)
}
