package qa

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/member-platform/member-qa/internal/model"
)

// carCountRe captures a number written directly before "car", as in
// "I have 2 cars".
var carCountRe = regexp.MustCompile(`\b(\d+)\s*car`)

// answerCars counts car mentions across the relevant messages. Explicit
// numbers take the maximum seen, bare mentions add one each, and the final
// count is the larger of the two. Max, not sum: "2 cars" plus a lone "car"
// mention reports 2 regardless of message order.
func answerCars(subject string, msgs []model.Message) string {
	highest := 0
	mentions := 0
	for _, msg := range msgs {
		bodyLower := strings.ToLower(msg.Body())
		if !strings.Contains(bodyLower, "car") {
			continue
		}
		if m := carCountRe.FindStringSubmatch(bodyLower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
				highest = n
			}
		} else {
			mentions++
		}
	}

	count := max(highest, mentions)
	if count > 0 {
		return fmt.Sprintf("%s has %d car(s) mentioned in the data.", subject, count)
	}
	return fmt.Sprintf("I couldn't find information about %s's cars in the data.", subject)
}
