package qa

import "regexp"

// nameRe matches a run of one or two capitalized words, the shape a first
// name or "First Last" takes in a question.
var nameRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`)

// stopWords are interrogatives and common sentence-leading words that the
// name pattern also matches. Only exact matches are dropped.
var stopWords = map[string]struct{}{
	"When": {}, "What": {}, "How": {}, "Where": {}, "Who": {}, "Why": {},
	"The": {}, "Is": {}, "Are": {}, "Does": {}, "Have": {}, "Has": {},
	"Her": {}, "His": {}, "Their": {}, "Planning": {}, "Many": {},
	"Favorite": {},
}

// ExtractSubjects returns the candidate proper names found in the question,
// in order of first appearance.
func ExtractSubjects(question string) []string {
	var names []string
	for _, match := range nameRe.FindAllString(question, -1) {
		if _, stop := stopWords[match]; stop {
			continue
		}
		names = append(names, match)
	}
	return names
}
