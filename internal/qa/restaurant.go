package qa

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/member-platform/member-qa/internal/model"
)

const maxRestaurantCandidates = 5

var (
	// beforeRestaurantRe captures a capitalized phrase directly preceding
	// the literal word "restaurant".
	beforeRestaurantRe = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+restaurant`)
	quotedRe           = regexp.MustCompile(`"([^"]+)"`)
	capitalizedRunRe   = regexp.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`)
)

// answerRestaurants collects restaurant name candidates from messages that
// mention a restaurant, using three overlapping heuristics: the capitalized
// phrase before "restaurant", quoted substrings that mention a restaurant,
// and every capitalized phrase of up to three words anywhere in the body.
// The last heuristic is a catch-all that sweeps in plenty of phrases that
// are not restaurants at all; it is kept as-is because narrowing it would
// change observable answers. Candidates are de-duplicated and capped at
// five.
func answerRestaurants(subject string, msgs []model.Message) string {
	seen := make(map[string]struct{})
	var candidates []string
	add := func(name string) {
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		candidates = append(candidates, name)
	}

	for _, msg := range msgs {
		body := msg.Body()
		if !strings.Contains(strings.ToLower(body), "restaurant") {
			continue
		}

		for _, m := range beforeRestaurantRe.FindAllStringSubmatch(body, -1) {
			add(m[1])
		}
		for _, m := range quotedRe.FindAllStringSubmatch(body, -1) {
			if strings.Contains(strings.ToLower(m[1]), "restaurant") {
				add(m[1])
			}
		}
		for _, m := range capitalizedRunRe.FindAllString(body, -1) {
			if len(strings.Fields(m)) <= 3 {
				add(m)
			}
		}
	}

	if len(candidates) == 0 {
		return fmt.Sprintf("I couldn't find specific restaurant information for %s in the data.", subject)
	}
	if len(candidates) > maxRestaurantCandidates {
		candidates = candidates[:maxRestaurantCandidates]
	}
	return fmt.Sprintf("%s's favorite restaurants include: %s.", subject, strings.Join(candidates, ", "))
}
