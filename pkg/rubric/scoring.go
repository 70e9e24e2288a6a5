package rubric

import "math"

// PhaseWeights are the contributions of each phase to the overall score.
//
//nolint:gochecknoglobals // Scoring configuration constants
var PhaseWeights = map[Phase]float64{
	PhaseDiscovery:  0.30,
	PhaseObjections: 0.25,
	PhasePitch:      0.20,
	PhaseClose:      0.15,
	PhaseIntro:      0.10,
}

// weightOrder lists phases by descending weight.
//
//nolint:gochecknoglobals // Scoring configuration constants
var weightOrder = []Phase{PhaseDiscovery, PhaseObjections, PhasePitch, PhaseClose, PhaseIntro}

// CallOrder lists phases in the order they happen on a call.
//
//nolint:gochecknoglobals // Scoring configuration constants
var CallOrder = []Phase{PhaseIntro, PhaseDiscovery, PhasePitch, PhaseClose, PhaseObjections}

// OverallScore applies the phase weights to the given phase scores. Missing
// phases count as zero. The result is rounded to the nearest integer.
func OverallScore(phaseScores map[Phase]float64) (overall int) {
	total := 0.0
	for _, phase := range weightOrder {
		total += phaseScores[phase] * PhaseWeights[phase]
	}
	overall = int(math.Round(total))
	return overall
}

// OverallBand labels an overall 0-100 score.
func (kb *KnowledgeBase) OverallBand(score int) (band ScoreBand) {
	band = pickBand(kb.OverallBands, score)
	return band
}

// PhaseBand labels a single phase's 0-100 score.
func (kb *KnowledgeBase) PhaseBand(score int) (band ScoreBand) {
	band = pickBand(kb.PhaseBands, score)
	return band
}

// ApplyCaps lowers score to the tightest triggered cap defined for phase.
// Cap ids that do not belong to the phase are ignored.
func (kb *KnowledgeBase) ApplyCaps(phase Phase, score int, triggered []string) (capped int, applied []Cap) {
	capped = score
	applied = []Cap{}

	rules, ok := kb.Phase(phase)
	if !ok {
		return capped, applied
	}

	hit := make(map[string]bool, len(triggered))
	for _, id := range triggered {
		hit[id] = true
	}

	for _, c := range rules.Caps {
		if !hit[c.ID] {
			continue
		}
		applied = append(applied, c)
		if c.Ceiling < capped {
			capped = c.Ceiling
		}
	}

	return capped, applied
}

// pickBand finds the band containing score; bands are ordered highest first.
// Scores above the top band take the top band, below the bottom take the bottom.
func pickBand(bands []ScoreBand, score int) (band ScoreBand) {
	if len(bands) == 0 {
		return band
	}
	if score > bands[0].Max {
		band = bands[0]
		return band
	}
	for _, b := range bands {
		if score >= b.Min && score <= b.Max {
			band = b
			return band
		}
	}
	band = bands[len(bands)-1]
	return band
}
