package prospects

import "github.com/closepro/closepro/pkg/difficulty"

// Library is a file of named prospects used for roleplay and grading context.
type Library struct {
	Prospects []Prospect `json:"prospects" validate:"required,min=1,dive"`
}

// Prospect is one simulated or real buyer.
type Prospect struct {
	ID                 string   `json:"id" validate:"required,max=64"`
	Name               string   `json:"name" validate:"required"`
	Background         string   `json:"background"`
	Offer              string   `json:"offer"`
	Sliders            Sliders  `json:"sliders"`
	Authority          string   `json:"authority,omitempty" validate:"omitempty,oneof=advisor peer advisee"`
	PreviousObjections []string `json:"previous_objections,omitempty"`
}

// Sliders are the raw intake values. A missing execution_resistance selects
// the 40-point model.
type Sliders struct {
	PositionProblemAlignment int  `json:"position_problem_alignment"`
	PainAmbitionIntensity    int  `json:"pain_ambition_intensity"`
	PerceivedNeedForHelp     int  `json:"perceived_need_for_help"`
	FunnelContext            int  `json:"funnel_context"`
	ExecutionResistance      *int `json:"execution_resistance,omitempty"`
}

// Profile converts the prospect into a difficulty profile. An explicit
// authority wins over the one implied by perceived need.
func (p Prospect) Profile() (profile difficulty.Profile) {
	s := p.Sliders
	if p.Authority == "" {
		profile = difficulty.NewProfileFromSliders(s.PositionProblemAlignment, s.PainAmbitionIntensity, s.PerceivedNeedForHelp, s.FunnelContext, s.ExecutionResistance)
		return profile
	}

	profile = difficulty.NewProfileWithAuthority(s.PositionProblemAlignment, s.PainAmbitionIntensity, s.PerceivedNeedForHelp,
		difficulty.AuthorityLevel(p.Authority), s.FunnelContext, s.ExecutionResistance)
	return profile
}
