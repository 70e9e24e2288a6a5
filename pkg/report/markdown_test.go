package report

import (
	"strings"
	"testing"
	"time"

	"github.com/closepro/closepro/pkg/clusters"
	"github.com/closepro/closepro/pkg/difficulty"
	"github.com/closepro/closepro/pkg/history"
	"github.com/closepro/closepro/pkg/llm"
	"github.com/closepro/closepro/pkg/rubric"
	"github.com/closepro/closepro/pkg/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradedRecord() (rec *history.Record) {
	cs := clusters.ComputeClusterScores(map[string]float64{
		"discovery_diagnosis": 4,
		"gap_urgency":         6,
		"closing_commitment":  8,
	})
	diff := difficulty.NewExtendedProfile(2, 3, 3, 3, 3).Result()

	rec = &history.Record{
		ID:           "7f1c9d2e-4b0a-4a7e-9d55-2d6f3f0f9a10",
		Kind:         llm.SourceRoleplay,
		ProspectName: "Dana Ruiz",
		CreatedAt:    time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
		Stats:        transcript.Stats{Turns: 12, RepWords: 600, ProspectWords: 400, RepTalkRatio: 0.6},
		Analysis: llm.AnalysisResult{
			OverallScore: 68,
			OverallBand:  "Inconsistent",
			PhaseScores: map[rubric.Phase]llm.PhaseScore{
				rubric.PhaseDiscovery: {
					Score:       50,
					Weight:      0.30,
					Band:        "Weak",
					CapsApplied: []rubric.Cap{{ID: "discovery_surface_only", Ceiling: 50}},
					Notes:       "Never asked what the problem costs.",
				},
				rubric.PhaseIntro: {Score: 60, Weight: 0.10, Band: "Fair"},
			},
			Strengths: []string{"Clear agenda up front"},
			Recommendations: []llm.Recommendation{
				{Category: "closing_commitment", Priority: "high", Action: "Ask for the sale", Example: "Shall we get you started today?"},
			},
			Objections: []llm.ObjectionClassification{
				{Kind: "price", Quote: "It's a lot | for now", Outcome: "unresolved", Feedback: "Jumped to a discount"},
			},
			Summary:       "Good rapport, weak discovery.",
			Clusters:      &cs,
			Difficulty:    &diff,
			RubricVersion: "closepro-1.0.0",
			Model:         "test-model",
			Warnings:      []string{"only 2 of 5 phases graded; overall score taken from model"},
		},
	}
	return rec
}

func TestMarkdownSections(t *testing.T) {
	md := Markdown(gradedRecord())

	assert.True(t, strings.HasPrefix(md, "# Roleplay Review: Dana Ruiz\n"))
	assert.Contains(t, md, "2026-05-01 09:30 | rubric closepro-1.0.0 | test-model")
	assert.Contains(t, md, "**Overall score:** 68/100 (Inconsistent)")
	assert.Contains(t, md, "**Prospect difficulty:** 14/50, Expert")
	assert.Contains(t, md, "**Rep talk share:** 60% over 12 turns")
	assert.Contains(t, md, "| Discovery | 30% | 50 | Weak | discovery_surface_only (max 50) |")
	assert.Contains(t, md, "| Intro | 10% | 60 | Fair | none |")
	assert.Contains(t, md, "**Discovery.** Never asked what the problem costs.")
	assert.Contains(t, md, "| Discovery & Urgency | 5/10 |")
	assert.Contains(t, md, "1. **[HIGH]** _")
	assert.Contains(t, md, "   > Shall we get you started today?")
	assert.Contains(t, md, `It's a lot \| for now`)
	assert.Contains(t, md, "- Warning: only 2 of 5 phases graded")

	intro := strings.Index(md, "| Intro |")
	discovery := strings.Index(md, "| Discovery |")
	assert.Less(t, intro, discovery, "phases follow call order")
}

func TestMarkdownMinimal(t *testing.T) {
	md := Markdown(&history.Record{Kind: llm.SourceCall, Analysis: llm.AnalysisResult{OverallScore: 40}})

	assert.True(t, strings.HasPrefix(md, "# Call Review\n"))
	assert.Contains(t, md, "**Overall score:** 40/100\n")
	assert.NotContains(t, md, "## Phase Scores")
	assert.NotContains(t, md, "## Grading Notes")
	assert.NotContains(t, md, "Prospect difficulty")
}

func TestRenderTerminalPlain(t *testing.T) {
	out, err := RenderTerminal(Markdown(gradedRecord()), 80, true)
	require.NoError(t, err)
	assert.Contains(t, out, "Roleplay Review: Dana Ruiz")
	assert.Contains(t, out, "Ask for the sale")
}
