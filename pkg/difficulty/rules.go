package difficulty

// Band is a closed integer range of difficulty indices mapped to a tier.
type Band struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
}

// Contains reports whether index falls inside the band.
func (b Band) Contains(index int) (ok bool) {
	ok = index >= b.Min && index <= b.Max
	return ok
}

// ExtendedBands are the tier bands for the 50-point model, easiest first.
//
//nolint:gochecknoglobals // Scoring configuration constants
var ExtendedBands = []Band{
	{Min: 42, Max: 50, Tier: TierEasy, Label: "Easy"},
	{Min: 36, Max: 41, Tier: TierRealistic, Label: "Realistic"},
	{Min: 30, Max: 35, Tier: TierHard, Label: "Hard"},
	{Min: 25, Max: 29, Tier: TierElite, Label: "Elite"},
	{Min: 0, Max: 24, Tier: TierNearImpossible, Label: "Near Impossible"},
}

// LegacyBands are the tier bands for the 40-point model. Each lower bound is
// the 50-point lower bound scaled by 0.8 and rounded up.
//
//nolint:gochecknoglobals // Scoring configuration constants
var LegacyBands = []Band{
	{Min: 34, Max: 40, Tier: TierEasy, Label: "Easy"},
	{Min: 29, Max: 33, Tier: TierRealistic, Label: "Realistic"},
	{Min: 24, Max: 28, Tier: TierHard, Label: "Hard"},
	{Min: 20, Max: 23, Tier: TierElite, Label: "Elite"},
	{Min: 0, Max: 19, Tier: TierNearImpossible, Label: "Near Impossible"},
}

// NeedScoreRanges maps each authority level to the perceived-need scores that
// imply it.
//
//nolint:gochecknoglobals // Scoring configuration constants
var NeedScoreRanges = map[AuthorityLevel][2]int{
	AuthorityAdvisor: {1, 3},
	AuthorityPeer:    {4, 7},
	AuthorityAdvisee: {8, 10},
}

// bandFor walks bands (ordered easiest first) and returns the one claiming
// index. Indices above the top band belong to the top band and anything below
// the bottom band belongs to the bottom band.
func bandFor(bands []Band, index int) (band Band) {
	if index > bands[0].Max {
		band = bands[0]
		return band
	}

	for _, b := range bands {
		if b.Contains(index) {
			band = b
			return band
		}
	}

	band = bands[len(bands)-1]
	return band
}
