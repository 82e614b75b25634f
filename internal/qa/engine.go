package qa

import (
	"fmt"
	"strings"

	"github.com/member-platform/member-qa/internal/model"
)

// defaultSubject is the display name used when no candidate name is found.
const defaultSubject = "the member"

// topic pairs a trigger predicate with its extractor. Dispatch walks the
// list in order and the first triggering topic wins; topics never combine.
type topic struct {
	trigger func(questionLower string) bool
	extract func(subject string, msgs []model.Message) string
}

// Engine answers free-text questions about member messages using regex
// pattern matching over a fixed set of topics.
type Engine struct {
	topics []topic
}

// NewEngine creates an engine with the known topics in priority order.
func NewEngine() *Engine {
	return &Engine{
		topics: []topic{
			{trigger: containsAny("trip", "london"), extract: answerTrip},
			{trigger: containsAny("car", "cars"), extract: answerCars},
			{trigger: containsAny("restaurant", "favorite"), extract: answerRestaurants},
		},
	}
}

// Answer classifies the question into one of the known topics and extracts
// an answer sentence from the relevant messages. It always returns a
// sentence, never an error: an extraction miss yields a "couldn't find"
// answer.
func (e *Engine) Answer(question string, records []model.Record) string {
	names := ExtractSubjects(question)
	relevant := FilterRelevant(names, records)

	subject := defaultSubject
	if len(names) > 0 {
		subject = names[0]
	}

	questionLower := strings.ToLower(question)
	for _, t := range e.topics {
		if t.trigger(questionLower) {
			return t.extract(subject, relevant)
		}
	}

	if len(relevant) > 0 {
		return fmt.Sprintf("I found %d message(s) related to %s, but couldn't extract a specific answer.", len(relevant), subject)
	}
	return "I don't have enough information to answer that question."
}

func containsAny(keywords ...string) func(string) bool {
	return func(questionLower string) bool {
		for _, kw := range keywords {
			if strings.Contains(questionLower, kw) {
				return true
			}
		}
		return false
	}
}
