package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/member-platform/member-qa/internal/model"
)

func TestAnalyze_Empty(t *testing.T) {
	findings := Analyze(nil)
	assert.Equal(t, 0, findings.TotalMessages)
	assert.Empty(t, findings.Anomalies)
	assert.Empty(t, findings.Inconsistencies)
}

func TestAnalyze_FieldFrequencyAndTypes(t *testing.T) {
	records := []model.Record{
		map[string]any{"user_name": "Layla", "message": "hi"},
		map[string]any{"user_name": "Omar", "message": "hello"},
		map[string]any{"user_name": float64(7), "message": "typo"},
	}

	findings := Analyze(records)
	stats := findings.Statistics
	assert.Equal(t, 2, stats.TotalFields)
	assert.Equal(t, 3, stats.FieldFrequency["user_name"])
	assert.ElementsMatch(t, []string{"number", "string"}, stats.FieldTypeVariations["user_name"])
	assert.Contains(t, findings.Inconsistencies, "Field 'user_name' has inconsistent types: number, string")
}

func TestAnalyze_PresenceRateThreshold(t *testing.T) {
	// "rare" appears in 2 of 5 records (40%): flagged. "common" appears in
	// 3 of 5 (60%): not flagged.
	records := []model.Record{
		map[string]any{"common": "a", "rare": "x"},
		map[string]any{"common": "b", "rare": "y"},
		map[string]any{"common": "c"},
		map[string]any{"base": 1.0},
		map[string]any{"base": 2.0},
	}

	findings := Analyze(records)
	assert.Contains(t, findings.Inconsistencies, "Field 'rare' only appears in 40.0% of messages")
	for _, inc := range findings.Inconsistencies {
		assert.NotContains(t, inc, "'common'")
	}
}

func TestAnalyze_PresenceRateExactlyHalfNotFlagged(t *testing.T) {
	records := []model.Record{
		map[string]any{"half": "x"},
		map[string]any{"other": "y"},
	}

	findings := Analyze(records)
	for _, inc := range findings.Inconsistencies {
		assert.NotContains(t, inc, "'half' only appears")
	}
}

func TestAnalyze_EmptyValues(t *testing.T) {
	records := []model.Record{
		map[string]any{"message": "", "tags": []any{}, "note": nil},
		map[string]any{"message": "hi"},
	}

	findings := Analyze(records)
	counts := findings.Statistics.EmptyFieldCounts
	assert.Equal(t, 1, counts["message"])
	assert.Equal(t, 1, counts["tags"])
	assert.Equal(t, 1, counts["note"])
	assert.Contains(t, findings.Inconsistencies, "Found 3 fields with empty/null values")
}

func TestAnalyze_DuplicatesKeyOrderIndependent(t *testing.T) {
	// Structurally identical records count as one duplicate pair no matter
	// how the keys were ordered at the source or where they sit in the list.
	records := []model.Record{
		map[string]any{"user_name": "Layla", "message": "hi"},
		map[string]any{"user_name": "Omar", "message": "hey"},
		map[string]any{"message": "hi", "user_name": "Layla"},
	}

	findings := Analyze(records)
	assert.Contains(t, findings.Anomalies, "Found 1 duplicate messages")
}

func TestAnalyze_MalformedRecordAnomaly(t *testing.T) {
	records := []model.Record{
		map[string]any{"user_name": "Layla"},
		"not an object",
	}

	findings := Analyze(records)
	assert.Contains(t, findings.Anomalies, "Message 1 is not an object: string")
	// The malformed record contributes nothing to field statistics.
	assert.Equal(t, 1, findings.Statistics.FieldFrequency["user_name"])
}

func TestAnalyze_MemberNamesAndDateEntries(t *testing.T) {
	records := []model.Record{
		map[string]any{"name": "Layla", "timestamp": "2024-05-01T09:30:00Z"},
		map[string]any{"member": "Omar", "created_date": ""},
		map[string]any{"name": "Layla"},
	}

	findings := Analyze(records)
	assert.Equal(t, 2, findings.Statistics.UniqueMembersFound)
	// Empty date-like values do not count.
	assert.Equal(t, 1, findings.Statistics.DateEntries)
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	records := []model.Record{
		map[string]any{"user_name": "Layla", "message": "hi", "extra": nil},
		map[string]any{"user_name": "Layla", "message": "hi", "extra": nil},
		map[string]any{"user_name": float64(1)},
		"malformed",
	}
	findings := Analyze(records)

	path := filepath.Join(t.TempDir(), "data_analysis.json")
	require.NoError(t, WriteJSON(findings, path))

	reloaded, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, findings, reloaded)
}

func TestRender(t *testing.T) {
	records := []model.Record{
		map[string]any{"user_name": "Layla", "message": "hi"},
		map[string]any{"user_name": "Layla", "message": "hi"},
	}
	out := Render(Analyze(records))

	assert.Contains(t, out, "DATA ANALYSIS FINDINGS")
	assert.Contains(t, out, "Total Messages: 2")
	assert.Contains(t, out, "Field frequency (top 10):")
	assert.Contains(t, out, "user_name: 2")
	assert.Contains(t, out, "Found 1 duplicate messages")
}

func TestRender_CleanDataset(t *testing.T) {
	out := Render(Analyze([]model.Record{
		map[string]any{"user_name": "Layla", "message": "hi"},
	}))
	assert.Contains(t, out, "no major anomalies detected")
	assert.Contains(t, out, "no major inconsistencies detected")
}
