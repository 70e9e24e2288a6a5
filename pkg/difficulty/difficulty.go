// Package difficulty scores a sales prospect's profile into a difficulty
// index and tier.
package difficulty

import (
	"strings"

	"github.com/pkg/errors"
)

// AuthorityLevel is how a prospect perceives their status relative to the seller.
type AuthorityLevel string

const (
	AuthorityAdvisor AuthorityLevel = "advisor"
	AuthorityPeer    AuthorityLevel = "peer"
	AuthorityAdvisee AuthorityLevel = "advisee"
)

// Tier is a difficulty classification derived from an index.
type Tier string

const (
	TierEasy           Tier = "easy"
	TierRealistic      Tier = "realistic"
	TierHard           Tier = "hard"
	TierElite          Tier = "elite"
	TierNearImpossible Tier = "near_impossible"
)

// Rank orders tiers from easiest (0) to hardest (4). Unknown tiers rank -1.
func (t Tier) Rank() (rank int) {
	switch t {
	case TierEasy:
		rank = 0
	case TierRealistic:
		rank = 1
	case TierHard:
		rank = 2
	case TierElite:
		rank = 3
	case TierNearImpossible:
		rank = 4
	default:
		rank = -1
	}
	return rank
}

// ModelVersion distinguishes the 40-point and 50-point difficulty models.
type ModelVersion int

const (
	// ModelLegacy40 sums five dimensions, without execution resistance.
	ModelLegacy40 ModelVersion = 40
	// ModelExtended50 adds execution resistance as a sixth dimension.
	ModelExtended50 ModelVersion = 50
)

// Profile holds the dimensions describing a prospect.
type Profile struct {
	Model                    ModelVersion   `json:"model" validate:"oneof=40 50"`
	PositionProblemAlignment int            `json:"position_problem_alignment" validate:"min=0,max=10"`
	PainAmbitionIntensity    int            `json:"pain_ambition_intensity" validate:"min=0,max=10"`
	PerceivedNeedForHelp     int            `json:"perceived_need_for_help" validate:"min=1,max=10"`
	AuthorityLevel           AuthorityLevel `json:"authority_level" validate:"oneof=advisor peer advisee"`
	FunnelContext            int            `json:"funnel_context" validate:"min=0,max=10"`
	ExecutionResistance      int            `json:"execution_resistance,omitempty" validate:"min=0,max=10"`
}

// Result is the scored form of a profile.
type Result struct {
	Index int          `json:"index"`
	Tier  Tier         `json:"tier"`
	Model ModelVersion `json:"model"`
}

// NewLegacyProfile builds a 40-point profile with authority derived from need.
func NewLegacyProfile(ppa, pai, need, funnel int) (p Profile) {
	p = Profile{
		Model:                    ModelLegacy40,
		PositionProblemAlignment: ppa,
		PainAmbitionIntensity:    pai,
		PerceivedNeedForHelp:     need,
		AuthorityLevel:           AuthorityFromScore(need),
		FunnelContext:            funnel,
	}
	return p
}

// NewExtendedProfile builds a 50-point profile with authority derived from need.
func NewExtendedProfile(ppa, pai, need, funnel, resistance int) (p Profile) {
	p = NewLegacyProfile(ppa, pai, need, funnel)
	p.Model = ModelExtended50
	p.ExecutionResistance = resistance
	return p
}

// NewProfileFromSliders is the intake-form path: every value comes from a
// slider and authority is always derived. A nil resistance selects the
// 40-point model.
func NewProfileFromSliders(ppa, pai, need, funnel int, resistance *int) (p Profile) {
	if resistance == nil {
		p = NewLegacyProfile(ppa, pai, need, funnel)
		return p
	}
	p = NewExtendedProfile(ppa, pai, need, funnel, *resistance)
	return p
}

// NewProfileWithAuthority is the dropdown path: the chosen authority level
// wins and the need score is clamped into that level's range.
func NewProfileWithAuthority(ppa, pai, need int, level AuthorityLevel, funnel int, resistance *int) (p Profile) {
	p = NewProfileFromSliders(ppa, pai, need, funnel, resistance)
	p.AuthorityLevel, p.PerceivedNeedForHelp = ResolveAuthority(level, need)
	return p
}

// Index sums the profile's numeric dimensions. Values are summed as given.
func (p Profile) Index() (index int) {
	index = p.PositionProblemAlignment + p.PainAmbitionIntensity + p.PerceivedNeedForHelp + p.FunnelContext
	if p.Model == ModelExtended50 {
		index += p.ExecutionResistance
	}
	return index
}

// Result scores the profile. Tier is always recomputed from the index.
func (p Profile) Result() (result Result) {
	model := p.Model
	if model != ModelExtended50 {
		model = ModelLegacy40
	}

	index := p.Index()
	result = Result{
		Index: index,
		Tier:  TierFor(model, index),
		Model: model,
	}
	return result
}

// CalculateDifficultyIndex sums the dimensions and classifies the total. The
// authority level is informational and does not contribute. A nil
// executionResistance selects the 40-point model.
func CalculateDifficultyIndex(ppa, pai, need int, authority AuthorityLevel, funnel int, executionResistance *int) (result Result) {
	p := Profile{
		Model:                    ModelLegacy40,
		PositionProblemAlignment: ppa,
		PainAmbitionIntensity:    pai,
		PerceivedNeedForHelp:     need,
		AuthorityLevel:           authority,
		FunnelContext:            funnel,
	}
	if executionResistance != nil {
		p.Model = ModelExtended50
		p.ExecutionResistance = *executionResistance
	}

	result = p.Result()
	return result
}

// TierFor classifies index under the given model's bands.
func TierFor(model ModelVersion, index int) (tier Tier) {
	if model == ModelExtended50 {
		tier = GetDifficultyBandV2(index).Tier
		return tier
	}
	tier = GetDifficultyBand(index).Tier
	return tier
}

// GetDifficultyBand returns the 40-point band claiming index.
func GetDifficultyBand(index int) (band Band) {
	band = bandFor(LegacyBands, index)
	return band
}

// GetDifficultyBandV2 returns the 50-point band claiming index.
func GetDifficultyBandV2(index int) (band Band) {
	band = bandFor(ExtendedBands, index)
	return band
}

// AuthorityFromScore derives the authority level from a perceived-need score.
func AuthorityFromScore(score int) (level AuthorityLevel) {
	switch {
	case score <= 3:
		level = AuthorityAdvisor
	case score <= 7:
		level = AuthorityPeer
	default:
		level = AuthorityAdvisee
	}
	return level
}

// ResolveAuthority settles a conflict between a chosen authority level and a
// need score. The level wins; the score is clamped into the level's range.
// An unknown level falls back to deriving from the score.
func ResolveAuthority(level AuthorityLevel, needScore int) (resolved AuthorityLevel, score int) {
	bounds, ok := NeedScoreRanges[level]
	if !ok {
		resolved = AuthorityFromScore(needScore)
		score = needScore
		return resolved, score
	}

	resolved = level
	score = min(max(needScore, bounds[0]), bounds[1])
	return resolved, score
}

// ParseAuthority parses an authority level, case-insensitively.
func ParseAuthority(s string) (level AuthorityLevel, err error) {
	level = AuthorityLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := NeedScoreRanges[level]; !ok {
		err = errors.Errorf("unknown authority level %q (want advisor, peer or advisee)", s)
		level = ""
		return level, err
	}
	return level, err
}

// ParseTier parses a tier name. "expert" is accepted as an alias of elite.
func ParseTier(s string) (tier Tier, err error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if normalized == "expert" {
		tier = TierElite
		return tier, err
	}

	tier = Tier(normalized)
	if tier.Rank() < 0 {
		err = errors.Errorf("unknown difficulty tier %q", s)
		tier = ""
		return tier, err
	}
	return tier, err
}
