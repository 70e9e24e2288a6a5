package behavior

// Stage is a step of the fixed roleplay flow.
type Stage string

const (
	StageIntro           Stage = "intro"
	StageDiscovery       Stage = "discovery"
	StageGoalSetting     Stage = "goal_setting"
	StageQualification   Stage = "qualification"
	StagePitch           Stage = "pitch"
	StageTrialClose      Stage = "trial_close"
	StagePriceObjections Stage = "price_objections"
	StageClosePayment    Stage = "close_payment"
)

//nolint:gochecknoglobals // Flow configuration constants
var stageOrder = []Stage{
	StageIntro,
	StageDiscovery,
	StageGoalSetting,
	StageQualification,
	StagePitch,
	StageTrialClose,
	StagePriceObjections,
	StageClosePayment,
}

// Stages returns the eight stages in order.
func Stages() (stages []Stage) {
	stages = make([]Stage, len(stageOrder))
	copy(stages, stageOrder)
	return stages
}

// Position is the zero-based place of s in the flow, or -1 if unknown.
func (s Stage) Position() (pos int) {
	for i, st := range stageOrder {
		if st == s {
			pos = i
			return pos
		}
	}
	pos = -1
	return pos
}

// Next is the stage after s. The final stage and unknown stages have none.
func (s Stage) Next() (next Stage, ok bool) {
	pos := s.Position()
	if pos < 0 || pos == len(stageOrder)-1 {
		return next, ok
	}
	next = stageOrder[pos+1]
	ok = true
	return next, ok
}

// AtOrAfter reports whether s comes no earlier than other in the flow.
func (s Stage) AtOrAfter(other Stage) (ok bool) {
	pos := s.Position()
	ok = pos >= 0 && pos >= other.Position()
	return ok
}
