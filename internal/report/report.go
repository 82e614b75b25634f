package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/member-platform/member-qa/internal/model"
)

// presenceThreshold is the fraction of records a field must appear in to
// avoid being flagged as inconsistent.
const presenceThreshold = 0.5

// Findings is the analysis artifact for one message dataset. It marshals
// to the shape written to the report file.
type Findings struct {
	TotalMessages   int        `json:"total_messages"`
	Anomalies       []string   `json:"anomalies"`
	Statistics      Statistics `json:"statistics"`
	Inconsistencies []string   `json:"inconsistencies"`
}

// Statistics holds the per-field counts and frequencies.
type Statistics struct {
	TotalFields         int                 `json:"total_fields"`
	FieldFrequency      map[string]int      `json:"field_frequency"`
	FieldTypeVariations map[string][]string `json:"field_type_variations"`
	UniqueMembersFound  int                 `json:"unique_members_found"`
	DateEntries         int                 `json:"date_entries"`
	EmptyFieldCounts    map[string]int      `json:"empty_field_counts,omitempty"`
}

// Analyze profiles the message set for schema anomalies: field presence,
// type drift, emptiness and exact duplicates. Purely descriptive, no
// remediation.
func Analyze(records []model.Record) Findings {
	findings := Findings{
		TotalMessages:   len(records),
		Anomalies:       []string{},
		Inconsistencies: []string{},
	}
	if len(records) == 0 {
		return findings
	}

	fieldCounts := make(map[string]int)
	fieldTypes := make(map[string]map[string]struct{})
	memberNames := make(map[string]struct{})
	dateEntries := 0

	for i, r := range records {
		msg, ok := model.AsMessage(r)
		if !ok {
			findings.Anomalies = append(findings.Anomalies,
				fmt.Sprintf("Message %d is not an object: %s", i, jsonTypeName(r)))
			continue
		}

		for key, value := range msg {
			fieldCounts[key]++
			if fieldTypes[key] == nil {
				fieldTypes[key] = make(map[string]struct{})
			}
			fieldTypes[key][jsonTypeName(value)] = struct{}{}
		}

		if v, ok := msg["name"]; ok {
			memberNames[fmt.Sprint(v)] = struct{}{}
		}
		if v, ok := msg["member"]; ok {
			memberNames[fmt.Sprint(v)] = struct{}{}
		}

		for key, value := range msg {
			keyLower := strings.ToLower(key)
			if (strings.Contains(keyLower, "date") || strings.Contains(keyLower, "time")) && truthy(value) {
				dateEntries++
			}
		}
	}

	findings.Statistics = Statistics{
		TotalFields:         len(fieldCounts),
		FieldFrequency:      fieldCounts,
		FieldTypeVariations: sortedTypeSets(fieldTypes),
		UniqueMembersFound:  len(memberNames),
		DateEntries:         dateEntries,
	}

	// Fields with inconsistent types across records.
	for _, field := range sortedKeys(fieldTypes) {
		types := findings.Statistics.FieldTypeVariations[field]
		if len(types) > 1 {
			findings.Inconsistencies = append(findings.Inconsistencies,
				fmt.Sprintf("Field '%s' has inconsistent types: %s", field, strings.Join(types, ", ")))
		}
	}

	// Fields present in fewer than half the records.
	for _, field := range sortedKeys(fieldCounts) {
		rate := float64(fieldCounts[field]) / float64(len(records))
		if rate < presenceThreshold {
			findings.Inconsistencies = append(findings.Inconsistencies,
				fmt.Sprintf("Field '%s' only appears in %.1f%% of messages", field, rate*100))
		}
	}

	// Empty, null or empty-list values per field.
	emptyCounts := make(map[string]int)
	for _, r := range records {
		msg, ok := model.AsMessage(r)
		if !ok {
			continue
		}
		for key, value := range msg {
			if isEmpty(value) {
				emptyCounts[key]++
			}
		}
	}
	if len(emptyCounts) > 0 {
		findings.Statistics.EmptyFieldCounts = emptyCounts
		findings.Inconsistencies = append(findings.Inconsistencies,
			fmt.Sprintf("Found %d fields with empty/null values", len(emptyCounts)))
	}

	// Exact duplicates by canonical serialization. encoding/json writes map
	// keys in sorted order, so key order in the source does not matter.
	distinct := make(map[string]struct{})
	serialized := 0
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			continue
		}
		serialized++
		distinct[string(b)] = struct{}{}
	}
	if dups := serialized - len(distinct); dups > 0 {
		findings.Anomalies = append(findings.Anomalies,
			fmt.Sprintf("Found %d duplicate messages", dups))
	}

	return findings
}

// WriteJSON persists the findings to path as indented JSON.
func WriteJSON(findings Findings, path string) error {
	b, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal findings")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return eris.Wrap(err, "report: write findings")
	}
	return nil
}

// LoadJSON reads findings back from a report file.
func LoadJSON(path string) (Findings, error) {
	var findings Findings
	b, err := os.ReadFile(path)
	if err != nil {
		return findings, eris.Wrap(err, "report: read findings")
	}
	if err := json.Unmarshal(b, &findings); err != nil {
		return findings, eris.Wrap(err, "report: unmarshal findings")
	}
	return findings, nil
}

// jsonTypeName reports the JSON-level type of a decoded value.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// isEmpty reports whether a value counts as empty: null, "" or [].
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// truthy mirrors the loose emptiness check used when counting date-like
// entries: nil, "", false, 0 and [] do not count.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedTypeSets(sets map[string]map[string]struct{}) map[string][]string {
	out := make(map[string][]string, len(sets))
	for field, types := range sets {
		out[field] = sortedKeys(types)
	}
	return out
}
