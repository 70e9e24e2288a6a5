package llm

import (
	"github.com/closepro/closepro/pkg/clusters"
	"github.com/closepro/closepro/pkg/difficulty"
	"github.com/closepro/closepro/pkg/rubric"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation with the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SourceKind says where a transcript came from.
type SourceKind string

const (
	SourceCall     SourceKind = "call"
	SourceRoleplay SourceKind = "roleplay"
)

// GradeRequest is everything the grader needs for one transcript.
type GradeRequest struct {
	Kind         SourceKind
	Transcript   string
	ProspectName string
	Offer        string
	Prospect     *difficulty.Profile
	// History is preformatted coaching context from earlier sessions.
	History string
}

// PhaseScore is the grade for one call phase.
type PhaseScore struct {
	Score         int          `json:"score"`
	RawScore      int          `json:"raw_score,omitempty"`
	Weight        float64      `json:"weight,omitempty"`
	Band          string       `json:"band,omitempty"`
	CapsTriggered []string     `json:"caps_triggered"`
	CapsApplied   []rubric.Cap `json:"caps_applied,omitempty"`
	Notes         string       `json:"notes"`
}

// Recommendation is one piece of coaching feedback.
type Recommendation struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	Action   string `json:"action"`
	Example  string `json:"example,omitempty"`
}

// ObjectionClassification describes one objection found in the transcript.
type ObjectionClassification struct {
	Kind     string `json:"kind"`
	Quote    string `json:"quote"`
	Outcome  string `json:"outcome"`
	Feedback string `json:"feedback"`
}

// RawPhaseScore is one phase as the model reports it.
type RawPhaseScore struct {
	Score         float64  `json:"score"`
	CapsTriggered []string `json:"caps_triggered"`
	Notes         string   `json:"notes"`
}

// RawAnalysis is the grading model's reply before normalization.
type RawAnalysis struct {
	OverallScore    float64                   `json:"overall_score"`
	PhaseScores     map[string]RawPhaseScore  `json:"phase_scores"`
	CategoryScores  map[string]float64        `json:"category_scores"`
	Strengths       []string                  `json:"strengths"`
	Recommendations []Recommendation          `json:"recommendations"`
	Objections      []ObjectionClassification `json:"objections"`
	Summary         string                    `json:"summary"`
}

// AnalysisResult is the normalized grade of a call or roleplay.
type AnalysisResult struct {
	OverallScore    int                         `json:"overall_score"`
	PhaseScores     map[rubric.Phase]PhaseScore `json:"phase_scores"`
	CategoryScores  map[string]float64          `json:"category_scores"`
	Strengths       []string                    `json:"strengths"`
	Recommendations []Recommendation            `json:"recommendations"`
	Objections      []ObjectionClassification   `json:"objections"`
	Summary         string                      `json:"summary"`

	OverallBand   string             `json:"overall_band,omitempty"`
	Clusters      *clusters.Result   `json:"clusters,omitempty"`
	Difficulty    *difficulty.Result `json:"difficulty,omitempty"`
	RubricVersion string             `json:"rubric_version,omitempty"`
	Model         string             `json:"model,omitempty"`
	Fixes         []string           `json:"fixes,omitempty"`
	Warnings      []string           `json:"warnings,omitempty"`
}
