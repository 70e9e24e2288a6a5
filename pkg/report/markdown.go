// Package report renders graded calls as a markdown coaching report for the
// terminal or as a PDF.
package report

import (
	"fmt"
	"strings"

	"github.com/closepro/closepro/pkg/display"
	"github.com/closepro/closepro/pkg/history"
	"github.com/closepro/closepro/pkg/llm"
	"github.com/closepro/closepro/pkg/rubric"
)

// Markdown builds the coaching report for one record.
//
//nolint:funlen // One section per part of the analysis
func Markdown(rec *history.Record) (md string) {
	a := rec.Analysis
	var sb strings.Builder

	title := "Call Review"
	if rec.Kind == llm.SourceRoleplay {
		title = "Roleplay Review"
	}
	if rec.ProspectName != "" {
		title += ": " + rec.ProspectName
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	meta := make([]string, 0, 4)
	if !rec.CreatedAt.IsZero() {
		meta = append(meta, rec.CreatedAt.Format("2006-01-02 15:04"))
	}
	if a.RubricVersion != "" {
		meta = append(meta, "rubric "+a.RubricVersion)
	}
	if a.Model != "" {
		meta = append(meta, a.Model)
	}
	if rec.ID != "" {
		meta = append(meta, "id "+rec.ID)
	}
	if len(meta) > 0 {
		fmt.Fprintf(&sb, "_%s_\n\n", strings.Join(meta, " | "))
	}

	fmt.Fprintf(&sb, "**Overall score:** %d/100", a.OverallScore)
	if a.OverallBand != "" {
		fmt.Fprintf(&sb, " (%s)", a.OverallBand)
	}
	sb.WriteString("\n\n")

	if a.Difficulty != nil {
		fmt.Fprintf(&sb, "**Prospect difficulty:** %d/%d, %s\n\n",
			a.Difficulty.Index, int(a.Difficulty.Model), display.TierLabel(a.Difficulty.Tier))
	}
	if rec.Stats.RepWords+rec.Stats.ProspectWords > 0 {
		fmt.Fprintf(&sb, "**Rep talk share:** %.0f%% over %d turns\n\n", rec.Stats.RepTalkRatio*100, rec.Stats.Turns)
	}

	if a.Summary != "" {
		fmt.Fprintf(&sb, "## Summary\n\n%s\n\n", strings.TrimSpace(a.Summary))
	}

	writePhases(&sb, a)
	writeClusters(&sb, a)

	if len(a.Strengths) > 0 {
		sb.WriteString("## Strengths\n\n")
		for _, s := range a.Strengths {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
		sb.WriteString("\n")
	}

	writeRecommendations(&sb, a.Recommendations)
	writeObjections(&sb, a.Objections)

	if len(a.Fixes) > 0 || len(a.Warnings) > 0 {
		sb.WriteString("## Grading Notes\n\n")
		for _, f := range a.Fixes {
			fmt.Fprintf(&sb, "- Adjusted: %s\n", f)
		}
		for _, w := range a.Warnings {
			fmt.Fprintf(&sb, "- Warning: %s\n", w)
		}
		sb.WriteString("\n")
	}

	md = sb.String()
	return md
}

func writePhases(sb *strings.Builder, a llm.AnalysisResult) {
	if len(a.PhaseScores) == 0 {
		return
	}

	sb.WriteString("## Phase Scores\n\n")
	sb.WriteString("| Phase | Weight | Score | Band | Caps |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, phase := range rubric.CallOrder {
		ps, ok := a.PhaseScores[phase]
		if !ok {
			continue
		}

		caps := make([]string, 0, len(ps.CapsApplied))
		for _, c := range ps.CapsApplied {
			caps = append(caps, fmt.Sprintf("%s (max %d)", c.ID, c.Ceiling))
		}
		capText := "none"
		if len(caps) > 0 {
			capText = strings.Join(caps, ", ")
		}

		fmt.Fprintf(sb, "| %s | %.0f%% | %d | %s | %s |\n",
			display.Title(string(phase)), ps.Weight*100, ps.Score, ps.Band, capText)
	}
	sb.WriteString("\n")

	for _, phase := range rubric.CallOrder {
		ps, ok := a.PhaseScores[phase]
		if !ok || ps.Notes == "" {
			continue
		}
		fmt.Fprintf(sb, "**%s.** %s\n\n", display.Title(string(phase)), strings.TrimSpace(ps.Notes))
	}
}

func writeClusters(sb *strings.Builder, a llm.AnalysisResult) {
	if a.Clusters == nil || len(a.Clusters.Clusters) == 0 {
		return
	}

	sb.WriteString("## Skill Clusters\n\n")
	sb.WriteString("| Cluster | Score | Categories |\n")
	sb.WriteString("|---|---|---|\n")
	for _, c := range a.Clusters.Clusters {
		members := make([]string, 0, len(c.Breakdown))
		for _, m := range c.Breakdown {
			members = append(members, fmt.Sprintf("%s %g", categoryLabel(string(m.CategoryID)), m.Score))
		}
		memberText := "not scored"
		if len(members) > 0 {
			memberText = strings.Join(members, ", ")
		}
		fmt.Fprintf(sb, "| %s | %d/10 | %s |\n", c.Label, c.Score, memberText)
	}
	sb.WriteString("\n")
}

func writeRecommendations(sb *strings.Builder, recs []llm.Recommendation) {
	if len(recs) == 0 {
		return
	}

	sb.WriteString("## Recommendations\n\n")
	for i, r := range recs {
		fmt.Fprintf(sb, "%d. ", i+1)
		if r.Priority != "" {
			fmt.Fprintf(sb, "**[%s]** ", strings.ToUpper(r.Priority))
		}
		if r.Category != "" {
			fmt.Fprintf(sb, "_%s_: ", categoryLabel(r.Category))
		}
		sb.WriteString(strings.TrimSpace(r.Action))
		sb.WriteString("\n")
		if r.Example != "" {
			fmt.Fprintf(sb, "   > %s\n", strings.TrimSpace(r.Example))
		}
	}
	sb.WriteString("\n")
}

func writeObjections(sb *strings.Builder, objections []llm.ObjectionClassification) {
	if len(objections) == 0 {
		return
	}

	sb.WriteString("## Objections\n\n")
	sb.WriteString("| Objection | Quote | Outcome | Feedback |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, o := range objections {
		fmt.Fprintf(sb, "| %s | %s | %s | %s |\n",
			display.Title(o.Kind), cell(o.Quote), display.Title(o.Outcome), cell(o.Feedback))
	}
	sb.WriteString("\n")
}

func categoryLabel(id string) (label string) {
	label = rubric.Category(id).Label()
	if label == "" {
		label = display.Title(id)
	}
	return label
}

// cell keeps free text from breaking a markdown table row.
func cell(s string) (text string) {
	text = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	text = strings.ReplaceAll(text, "|", "\\|")
	return text
}
