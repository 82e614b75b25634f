package model

// Record is one raw item from the member message feed. The feed has no
// enforced schema and occasionally carries items that are not objects at
// all, so a record is typed as a bare decoded JSON value.
type Record = any

// Message is a record that turned out to be a JSON object. Conventionally
// present fields are user_name, message and timestamp, but none of them is
// guaranteed to exist or to be a string.
type Message map[string]any

// AsMessage returns the record viewed as a Message when it is an object.
func AsMessage(r Record) (Message, bool) {
	m, ok := r.(map[string]any)
	return Message(m), ok
}

func (m Message) stringField(key string) string {
	s, _ := m[key].(string)
	return s
}

// UserName returns the user_name field, or "" when absent or not a string.
func (m Message) UserName() string { return m.stringField("user_name") }

// Body returns the free-text message field, or "" when absent or not a string.
func (m Message) Body() string { return m.stringField("message") }

// Timestamp returns the raw timestamp field, or "" when absent or not a
// string. The value is whatever the feed sent, usually ISO-8601-like.
func (m Message) Timestamp() string { return m.stringField("timestamp") }
