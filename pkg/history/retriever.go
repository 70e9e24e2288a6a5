package history

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DefaultWindow is how many recent sessions feed the coaching context.
const DefaultWindow = 10

// maxRecommendations bounds the recommendations carried into a prompt.
const maxRecommendations = 5

// Retriever builds coaching context from the rep's recent sessions.
type Retriever struct {
	store *Store
}

// NewRetriever creates a retriever over a store.
func NewRetriever(store *Store) (retriever *Retriever) {
	retriever = &Retriever{store: store}
	return retriever
}

// Retrieve summarizes the last window sessions. A non-empty prospectID
// restricts the summary to sessions with that prospect.
func (r *Retriever) Retrieve(prospectID string, window int) (hc Context, err error) {
	if window <= 0 {
		window = DefaultWindow
	}

	var recent []IndexedRecord
	recent, err = r.store.Recent(0)
	if err != nil {
		err = errors.Wrap(err, "failed to load history index")
		return hc, err
	}

	selected := make([]IndexedRecord, 0, window)
	for _, rec := range recent {
		if prospectID != "" && rec.ProspectID != prospectID {
			continue
		}
		selected = append(selected, rec)
		if len(selected) == window {
			break
		}
	}

	hc = buildContext(selected)
	return hc, err
}

// buildContext expects records newest first.
func buildContext(records []IndexedRecord) (hc Context) {
	hc = Context{
		Sessions:              len(records),
		RecurringCaps:         []string{},
		WeakClusters:          []string{},
		RecentRecommendations: []string{},
	}
	if len(records) == 0 {
		return hc
	}

	total := 0
	caps := map[string]int{}
	weak := map[string]int{}
	seen := map[string]bool{}

	for _, rec := range records {
		total += rec.OverallScore
		for _, c := range rec.CapsApplied {
			caps[c]++
		}
		if rec.WeakestCluster != "" {
			weak[string(rec.WeakestCluster)]++
		}
		for _, rc := range rec.Recommendations {
			if len(hc.RecentRecommendations) < maxRecommendations && !seen[rc] {
				seen[rc] = true
				hc.RecentRecommendations = append(hc.RecentRecommendations, rc)
			}
		}
	}

	hc.AverageScore = (total + len(records)/2) / len(records)
	hc.RecurringCaps = byFrequency(caps, 2)
	hc.WeakClusters = byFrequency(weak, 1)
	return hc
}

// byFrequency returns keys seen at least minCount times, most frequent first.
func byFrequency(counts map[string]int, minCount int) (keys []string) {
	keys = make([]string, 0, len(counts))
	for k, n := range counts {
		if n >= minCount {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// FormatForPrompt renders the context for the grading prompt. It is empty
// when there is no history.
func FormatForPrompt(hc Context) (formatted string) {
	if hc.Sessions == 0 {
		return formatted
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "REP HISTORY (last %d sessions, average %d):\n", hc.Sessions, hc.AverageScore)

	if len(hc.RecurringCaps) > 0 {
		fmt.Fprintf(&sb, "- Recurring score caps: %s\n", strings.Join(hc.RecurringCaps, ", "))
	}
	if len(hc.WeakClusters) > 0 {
		fmt.Fprintf(&sb, "- Weakest skill areas: %s\n", strings.Join(hc.WeakClusters, ", "))
	}
	if len(hc.RecentRecommendations) > 0 {
		sb.WriteString("- Recently coached on:\n")
		for _, rc := range hc.RecentRecommendations {
			fmt.Fprintf(&sb, "  - %s\n", rc)
		}
	}
	sb.WriteString("Say in the summary whether the rep improved on these. Do not let history change the scores.\n")

	formatted = sb.String()
	return formatted
}
