package llm

import (
	"fmt"
	"strings"

	"github.com/closepro/closepro/pkg/behavior"
	"github.com/closepro/closepro/pkg/difficulty"
	"github.com/closepro/closepro/pkg/rubric"
)

// buildGradingSystemPrompt puts the rubric in the system prompt so every
// grade can be traced to the rubric identity.
func buildGradingSystemPrompt(kb *rubric.KnowledgeBase) (prompt string) {
	prompt = fmt.Sprintf(`You are a senior sales coach grading a recorded sales conversation against a fixed rubric. Grade only what is in the transcript. Quote the transcript when you justify a low score. Never invent dialogue.

RUBRIC %s
%s`, kb.Identity(), kb.PromptText())

	return prompt
}

// buildGradingPrompt creates the user message for one transcript.
//
//nolint:funlen // Prompt template with the full response contract
func buildGradingPrompt(req GradeRequest) (prompt string) {
	var sb strings.Builder

	switch req.Kind {
	case SourceRoleplay:
		sb.WriteString("This is a PRACTICE ROLEPLAY with an AI-simulated prospect. Grade the rep exactly as you would a live call.\n\n")
	default:
		sb.WriteString("This is a RECORDED CALL with a real prospect.\n\n")
	}

	if req.ProspectName != "" {
		fmt.Fprintf(&sb, "PROSPECT: %s\n", req.ProspectName)
	}
	if req.Offer != "" {
		fmt.Fprintf(&sb, "OFFER: %s\n", req.Offer)
	}
	if req.Prospect != nil {
		sb.WriteString(describeDifficulty(*req.Prospect))
	}
	if req.History != "" {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(req.History))
		sb.WriteString("\n")
	}

	categories := make([]string, 0, len(rubric.AllCategories()))
	for _, c := range rubric.AllCategories() {
		categories = append(categories, string(c))
	}

	phases := make([]string, 0, len(rubric.CallOrder))
	for _, p := range rubric.CallOrder {
		phases = append(phases, string(p))
	}

	fmt.Fprintf(&sb, `
TRANSCRIPT:
%s

Grade the call:
1. Score each phase 0-100 using the phase criteria. A phase that never happened scores 0.
2. List the id of every score cap whose condition is met in that phase's caps_triggered. Report the score BEFORE the cap; it is applied afterwards.
3. Compute overall_score with the weighting formula.
4. Score every category 0-10 using exactly these ids: %s
5. Classify each objection the prospect raised and whether the rep resolved it.
6. Give at most five recommendations, most important first, each tied to a category id.

Return ONLY valid JSON in this exact format (no markdown, no commentary):
{
  "overall_score": 72,
  "phase_scores": {
    "%s": {"score": 80, "caps_triggered": [], "notes": "what happened and why"}
  },
  "category_scores": {"discovery_diagnosis": 7},
  "strengths": ["specific strength with a short quote"],
  "recommendations": [
    {"category": "closing_commitment", "priority": "high", "action": "what to do differently", "example": "a line the rep could have said"}
  ],
  "objections": [
    {"kind": "price", "quote": "prospect's words", "outcome": "resolved", "feedback": "how it was handled"}
  ],
  "summary": "two or three sentences"
}

phase_scores must contain one entry per phase: %s.`,
		strings.TrimSpace(req.Transcript),
		strings.Join(categories, ", "),
		rubric.PhaseDiscovery,
		strings.Join(phases, ", "))

	prompt = sb.String()
	return prompt
}

func describeDifficulty(p difficulty.Profile) (text string) {
	r := p.Result()

	var sb strings.Builder
	fmt.Fprintf(&sb, "PROSPECT DIFFICULTY: index %d of %d (%s)\n", r.Index, maxIndex(r.Model), r.Tier)
	fmt.Fprintf(&sb, "  position/problem alignment %d, pain/ambition %d, perceived need for help %d (%s), funnel context %d",
		p.PositionProblemAlignment, p.PainAmbitionIntensity, p.PerceivedNeedForHelp, p.AuthorityLevel, p.FunnelContext)
	if r.Model == difficulty.ModelExtended50 {
		fmt.Fprintf(&sb, ", execution resistance %d", p.ExecutionResistance)
	}
	sb.WriteString("\nA harder prospect makes a lower outcome more forgivable; judge the rep's process, not just the result.\n")

	text = sb.String()
	return text
}

func maxIndex(model difficulty.ModelVersion) (top int) {
	top = 40
	if model == difficulty.ModelExtended50 {
		top = 50
	}
	return top
}

// buildRoleplaySystemPrompt creates the simulated prospect's instructions.
func buildRoleplaySystemPrompt(rules *behavior.RuleSet, setup RoleplaySetup) (prompt string) {
	var sb strings.Builder

	sb.WriteString(rules.PromptText(setup.Archetype))

	sb.WriteString("\nWHO YOU ARE:\n")
	fmt.Fprintf(&sb, "Name: %s\n", setup.Name)
	if setup.Background != "" {
		fmt.Fprintf(&sb, "Background: %s\n", setup.Background)
	}
	if setup.Offer != "" {
		fmt.Fprintf(&sb, "The seller is offering: %s\n", setup.Offer)
	}

	p := setup.Profile
	fmt.Fprintf(&sb, `
HOW HARD YOU ARE TO SELL (0 is hardest, 10 is easiest):
- How well your position matches the problem the offer solves: %d
- How intense your pain or ambition is: %d
- How much you feel you need help: %d
- How warm you are from the way you found the seller: %d
`, p.PositionProblemAlignment, p.PainAmbitionIntensity, p.PerceivedNeedForHelp, p.FunnelContext)
	if p.Model == difficulty.ModelExtended50 {
		fmt.Fprintf(&sb, "- How able you are to act (money, time, authority) if convinced: %d\n", p.ExecutionResistance)
	}
	fmt.Fprintf(&sb, "Overall you are a %s prospect.\n", p.Result().Tier)

	if len(setup.PreviousObjections) > 0 {
		sb.WriteString("\nYou have ALREADY said the following; never repeat them word for word:\n")
		for _, o := range setup.PreviousObjections {
			fmt.Fprintf(&sb, "- %q\n", o)
		}
	}

	sb.WriteString("\nReply only with what you say out loud, as plain text, one turn at a time. No stage directions.\n")

	prompt = sb.String()
	return prompt
}
