package qa

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/member-platform/member-qa/internal/model"
)

// datePatterns are tried in order; the first family that matches anything
// supplies the date fragment, quoted literally as written in the message
// rather than normalized to a calendar date.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
	regexp.MustCompile(`(?i)(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}`),
	regexp.MustCompile(`(?i)monday|tuesday|wednesday|thursday|friday|saturday|sunday`),
	regexp.MustCompile(`(?i)(?:this|next)\s+(?:week|friday|monday|tuesday|wednesday|thursday|saturday|sunday)`),
}

// answerTrip handles trip/London questions. The first relevant message
// mentioning London decides the answer: a matched date fragment if any
// pattern hits, else the first 10 characters of the timestamp field, else a
// generic trip-mentioned sentence.
func answerTrip(subject string, msgs []model.Message) string {
	for _, msg := range msgs {
		body := msg.Body()
		if !strings.Contains(strings.ToLower(body), "london") {
			continue
		}

		for _, re := range datePatterns {
			if fragment := re.FindString(body); fragment != "" {
				return fmt.Sprintf("%s is planning a trip to London on %s.", subject, fragment)
			}
		}

		if ts := msg.Timestamp(); ts != "" {
			// Intended to be a YYYY-MM-DD prefix, not validated as such.
			if len(ts) > 10 {
				ts = ts[:10]
			}
			return fmt.Sprintf("%s has a trip to London mentioned. Message timestamp: %s.", subject, ts)
		}

		return fmt.Sprintf("%s has a trip to London mentioned in their messages.", subject)
	}
	return fmt.Sprintf("I couldn't find information about %s's trip to London in the data.", subject)
}
