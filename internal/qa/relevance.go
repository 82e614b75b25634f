package qa

import (
	"strings"

	"github.com/member-platform/member-qa/internal/model"
)

// FilterRelevant narrows records to those mentioning any candidate name.
// Matching is a case-insensitive substring test over the user_name and
// message fields, not a token match, so short names can over-match; that
// imprecision is accepted. With no candidates every well-formed record is
// relevant. Records that are not objects are skipped.
func FilterRelevant(names []string, records []model.Record) []model.Message {
	var relevant []model.Message

	if len(names) == 0 {
		for _, r := range records {
			if msg, ok := model.AsMessage(r); ok {
				relevant = append(relevant, msg)
			}
		}
		return relevant
	}

	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}

	for _, r := range records {
		msg, ok := model.AsMessage(r)
		if !ok {
			continue
		}
		user := strings.ToLower(msg.UserName())
		body := strings.ToLower(msg.Body())
		for _, n := range lowered {
			if strings.Contains(user, n) || strings.Contains(body, n) {
				relevant = append(relevant, msg)
				break
			}
		}
	}
	return relevant
}
