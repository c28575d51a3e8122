package status

import (
	"fmt"
	"strings"
)

// FormatResult formats a single file result with an emoji
func FormatResult(r FileResult) string {
	switch r.Outcome {
	case OutcomeChanged:
		if r.Written {
			return fmt.Sprintf("📝 Rewrote %s (%d edits)", r.Path, r.Edits)
		}
		return fmt.Sprintf("🔎 Would rewrite %s (%d edits)", r.Path, r.Edits)
	case OutcomeUnchanged:
		return fmt.Sprintf("👍 Unchanged %s", r.Path)
	case OutcomeSkippedDenylisted:
		return fmt.Sprintf("🚫 Denylisted %s", r.Path)
	case OutcomeSkippedAlreadyMigrated:
		return fmt.Sprintf("⏭️  Already migrated %s", r.Path)
	default:
		return fmt.Sprintf("❓ %s", r.Path)
	}
}

// FormatSummary formats outcome counts in display order, zero counts omitted
func FormatSummary(s Summary) string {
	if s.Total() == 0 {
		return "no files matched"
	}
	parts := make([]string, 0, len(Outcomes))
	for _, o := range Outcomes {
		if n := s[o]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	return strings.Join(parts, ", ")
}
