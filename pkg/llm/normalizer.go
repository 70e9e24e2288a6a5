package llm

import (
	"fmt"
	"math"
	"sort"

	"github.com/closepro/closepro/pkg/clusters"
	"github.com/closepro/closepro/pkg/difficulty"
	"github.com/closepro/closepro/pkg/rubric"
)

const (
	maxPhaseScore    = 100
	maxCategoryScore = 10
)

// Normalizer turns a model reply into an AnalysisResult that obeys the
// rubric. Every correction it makes is recorded in Fixes.
type Normalizer struct {
	kb *rubric.KnowledgeBase
}

// NewNormalizer creates a normalizer for a rubric. A nil rubric uses the
// embedded default.
func NewNormalizer(kb *rubric.KnowledgeBase) (normalizer *Normalizer) {
	if kb == nil {
		kb = rubric.Default()
	}
	normalizer = &Normalizer{kb: kb}
	return normalizer
}

// Normalize applies the rubric to a raw reply. profile may be nil.
func (n *Normalizer) Normalize(raw RawAnalysis, profile *difficulty.Profile) (result AnalysisResult) {
	result = AnalysisResult{
		PhaseScores:     map[rubric.Phase]PhaseScore{},
		CategoryScores:  map[string]float64{},
		Strengths:       raw.Strengths,
		Recommendations: raw.Recommendations,
		Objections:      raw.Objections,
		Summary:         raw.Summary,
		RubricVersion:   n.kb.Identity(),
		Fixes:           []string{},
		Warnings:        []string{},
	}

	n.normalizePhases(raw, &result)
	n.normalizeOverall(raw, &result)
	n.normalizeCategories(raw, &result)

	if profile != nil {
		d := profile.Result()
		result.Difficulty = &d
	}

	return result
}

func (n *Normalizer) normalizePhases(raw RawAnalysis, result *AnalysisResult) {
	unknown := make([]string, 0)
	for id := range raw.PhaseScores {
		if _, ok := rubric.PhaseWeights[rubric.Phase(id)]; !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		result.Warnings = append(result.Warnings, fmt.Sprintf("ignored unknown phase %q", id))
	}

	for _, phase := range rubric.CallOrder {
		rp, ok := raw.PhaseScores[string(phase)]
		if !ok {
			continue
		}

		rawScore := int(math.Round(rp.Score))
		score := clampInt(rawScore, 0, maxPhaseScore)
		if score != rawScore {
			result.Fixes = append(result.Fixes, fmt.Sprintf("%s score %d clamped to %d", phase, rawScore, score))
		}

		capped, applied := n.kb.ApplyCaps(phase, score, rp.CapsTriggered)
		if capped < score {
			result.Fixes = append(result.Fixes, fmt.Sprintf("%s score %d capped to %d", phase, score, capped))
		}
		result.Warnings = append(result.Warnings, unknownCaps(phase, rp.CapsTriggered, applied)...)

		triggered := rp.CapsTriggered
		if triggered == nil {
			triggered = []string{}
		}

		result.PhaseScores[phase] = PhaseScore{
			Score:         capped,
			RawScore:      rawScore,
			Weight:        rubric.PhaseWeights[phase],
			Band:          n.kb.PhaseBand(capped).Label,
			CapsTriggered: triggered,
			CapsApplied:   applied,
			Notes:         rp.Notes,
		}
	}
}

func (n *Normalizer) normalizeOverall(raw RawAnalysis, result *AnalysisResult) {
	reported := clampInt(int(math.Round(raw.OverallScore)), 0, maxPhaseScore)

	if len(result.PhaseScores) == len(rubric.PhaseWeights) {
		scores := make(map[rubric.Phase]float64, len(result.PhaseScores))
		for phase, ps := range result.PhaseScores {
			scores[phase] = float64(ps.Score)
		}
		computed := rubric.OverallScore(scores)
		if computed != reported {
			result.Fixes = append(result.Fixes, fmt.Sprintf("overall score %d recomputed from phase weights as %d", reported, computed))
		}
		result.OverallScore = computed
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("only %d of %d phases graded; overall score taken from model", len(result.PhaseScores), len(rubric.PhaseWeights)))
		result.OverallScore = reported
	}

	result.OverallBand = n.kb.OverallBand(result.OverallScore).Label
}

func (n *Normalizer) normalizeCategories(raw RawAnalysis, result *AnalysisResult) {
	keys := make([]string, 0, len(raw.CategoryScores))
	for k := range raw.CategoryScores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := raw.CategoryScores[k]
		clamped := math.Max(0, math.Min(maxCategoryScore, v))
		if clamped != v {
			result.Fixes = append(result.Fixes, fmt.Sprintf("category %s score %g clamped to %g", k, v, clamped))
		}
		result.CategoryScores[k] = clamped
	}

	cs := clusters.ComputeClusterScores(result.CategoryScores)
	for _, id := range cs.Unrecognized {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unrecognized category %q excluded from clusters", id))
	}
	result.Clusters = &cs
}

func unknownCaps(phase rubric.Phase, triggered []string, applied []rubric.Cap) (warnings []string) {
	known := make(map[string]bool, len(applied))
	for _, c := range applied {
		known[c.ID] = true
	}
	for _, id := range triggered {
		if !known[id] {
			warnings = append(warnings, fmt.Sprintf("cap %q is not defined for phase %s", id, phase))
		}
	}
	return warnings
}

func clampInt(v, lo, hi int) (clamped int) {
	clamped = min(max(v, lo), hi)
	return clamped
}
