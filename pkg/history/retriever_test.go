package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieve(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)

	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	records := []Record{
		sampleRecord("dana", 50, start, "discovery_surface_only", "close_no_ask"),
		sampleRecord("dana", 60, start.Add(time.Hour), "discovery_surface_only"),
		sampleRecord("morgan", 90, start.Add(2*time.Hour)),
	}
	for i := range records {
		_, err = store.Save(&records[i])
		require.NoError(t, err)
	}

	hc, err := NewRetriever(store).Retrieve("dana", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, hc.Sessions)
	assert.Equal(t, 55, hc.AverageScore)
	assert.Equal(t, []string{"discovery_surface_only"}, hc.RecurringCaps, "caps seen once are not recurring")
	assert.Equal(t, []string{"discovery_urgency"}, hc.WeakClusters)
	assert.Equal(t, []string{"Ask about budget"}, hc.RecentRecommendations)

	all, err := NewRetriever(store).Retrieve("", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Sessions)
	assert.Equal(t, 75, all.AverageScore, "the two newest: 90 and 60")
}

func TestFormatForPrompt(t *testing.T) {
	assert.Empty(t, FormatForPrompt(Context{}))

	text := FormatForPrompt(Context{
		Sessions:              4,
		AverageScore:          58,
		RecurringCaps:         []string{"close_no_ask"},
		WeakClusters:          []string{"closing_commitment"},
		RecentRecommendations: []string{"Ask for the sale directly"},
	})
	assert.Contains(t, text, "REP HISTORY (last 4 sessions, average 58):")
	assert.Contains(t, text, "Recurring score caps: close_no_ask")
	assert.Contains(t, text, "Weakest skill areas: closing_commitment")
	assert.Contains(t, text, "  - Ask for the sale directly")
}

func TestByFrequency(t *testing.T) {
	keys := byFrequency(map[string]int{"b": 2, "a": 2, "c": 3, "d": 1}, 2)
	assert.Equal(t, []string{"c", "a", "b"}, keys)
}
