package rubric

import (
	"strings"

	"github.com/pkg/errors"
)

// Category identifies one of the ten graded dimensions of seller performance.
type Category string

const (
	CategoryAuthorityLeadership       Category = "authority_leadership"
	CategoryStructureFramework        Category = "structure_framework"
	CategoryDiscoveryDiagnosis        Category = "discovery_diagnosis"
	CategoryGapUrgency                Category = "gap_urgency"
	CategoryValueOfferPositioning     Category = "value_offer_positioning"
	CategoryCommunicationStorytelling Category = "communication_storytelling"
	CategoryObjectionHandling         Category = "objection_handling"
	CategoryClosingCommitment         Category = "closing_commitment"
	CategoryEmotionalIntelligence     Category = "emotional_intelligence"
	CategoryTonalityDelivery          Category = "tonality_delivery"
)

type categoryInfo struct {
	label       string
	description string
}

//nolint:gochecknoglobals // Scoring configuration constants
var categoryOrder = []Category{
	CategoryAuthorityLeadership,
	CategoryStructureFramework,
	CategoryDiscoveryDiagnosis,
	CategoryGapUrgency,
	CategoryValueOfferPositioning,
	CategoryCommunicationStorytelling,
	CategoryObjectionHandling,
	CategoryClosingCommitment,
	CategoryEmotionalIntelligence,
	CategoryTonalityDelivery,
}

//nolint:gochecknoglobals // Scoring configuration constants
var categoryInfos = map[Category]categoryInfo{
	CategoryAuthorityLeadership: {
		label:       "Authority & Leadership",
		description: "Leads the call as the expert, holds the frame under challenge, never seeks approval.",
	},
	CategoryStructureFramework: {
		label:       "Structure & Framework",
		description: "Moves through the call phases in order with clear transitions and a stated agenda.",
	},
	CategoryDiscoveryDiagnosis: {
		label:       "Discovery & Diagnosis",
		description: "Uncovers root cause, emotional cost, prior attempts and qualification facts.",
	},
	CategoryGapUrgency: {
		label:       "Gap & Urgency",
		description: "Makes the gap between current and desired state explicit and creates a reason to act now.",
	},
	CategoryValueOfferPositioning: {
		label:       "Value & Offer Positioning",
		description: "Positions the offer as the bridge across the prospect's gap and anchors value before price.",
	},
	CategoryCommunicationStorytelling: {
		label:       "Communication & Storytelling",
		description: "Uses plain language, relevant stories and proof in the prospect's own vocabulary.",
	},
	CategoryObjectionHandling: {
		label:       "Objection Handling",
		description: "Isolates and clarifies objections and resolves them against the prospect's goals.",
	},
	CategoryClosingCommitment: {
		label:       "Closing & Commitment",
		description: "Trial closes, asks directly for the decision and secures a concrete next step.",
	},
	CategoryEmotionalIntelligence: {
		label:       "Emotional Intelligence",
		description: "Reads the prospect's state, builds trust and stays composed under pressure.",
	},
	CategoryTonalityDelivery: {
		label:       "Tonality & Delivery",
		description: "Adapts pace, tone and energy to the prospect and the moment.",
	},
}

// AllCategories returns the ten categories in rubric order.
func AllCategories() (categories []Category) {
	categories = make([]Category, len(categoryOrder))
	copy(categories, categoryOrder)
	return categories
}

// Valid reports whether c is one of the ten categories.
func (c Category) Valid() (ok bool) {
	_, ok = categoryInfos[c]
	return ok
}

// Label is the human-readable name of the category.
func (c Category) Label() (label string) {
	label = categoryInfos[c].label
	return label
}

// Description is the grading guidance for the category.
func (c Category) Description() (description string) {
	description = categoryInfos[c].description
	return description
}

// ParseCategory parses a canonical category id.
func ParseCategory(s string) (c Category, err error) {
	c = Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		err = errors.Errorf("unknown scoring category %q", s)
		c = ""
		return c, err
	}
	return c, err
}
