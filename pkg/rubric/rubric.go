// Package rubric holds the call-grading knowledge base: the nine pillars, the
// five weighted phases with their bands and caps, and the scoring categories.
//
// The content is sent verbatim to the grading model. It is embedded, decoded
// once, and never mutated, so every prompt can be traced to Identity().
package rubric

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed rubric.yaml
var rubricYAML []byte

// Phase is one of the five sequential call segments.
type Phase string

const (
	PhaseIntro      Phase = "intro"
	PhaseDiscovery  Phase = "discovery"
	PhasePitch      Phase = "pitch"
	PhaseClose      Phase = "close"
	PhaseObjections Phase = "objections"
)

// Pillar is one of the nine qualitative evaluation criteria.
type Pillar struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Criteria string `yaml:"criteria"`
}

// Cap is a ceiling on a phase score triggered by a failure condition.
type Cap struct {
	ID        string `yaml:"id" json:"id"`
	Condition string `yaml:"condition" json:"condition"`
	Ceiling   int    `yaml:"ceiling" json:"ceiling"`
}

// PhaseRubric describes how one phase is graded.
type PhaseRubric struct {
	ID       Phase    `yaml:"id"`
	Name     string   `yaml:"name"`
	Weight   float64  `yaml:"weight"`
	Criteria []string `yaml:"criteria"`
	Caps     []Cap    `yaml:"caps"`
}

// ScoreBand labels a closed range of 0-100 scores.
type ScoreBand struct {
	Min   int    `yaml:"min" json:"min"`
	Max   int    `yaml:"max" json:"max"`
	Label string `yaml:"label" json:"label"`
}

// KnowledgeBase is the decoded rubric.
type KnowledgeBase struct {
	Version      string        `yaml:"version"`
	Name         string        `yaml:"name"`
	Pillars      []Pillar      `yaml:"pillars"`
	Phases       []PhaseRubric `yaml:"phases"`
	PhaseBands   []ScoreBand   `yaml:"phase_bands"`
	OverallBands []ScoreBand   `yaml:"overall_bands"`
	GradingNotes []string      `yaml:"grading_notes"`

	digest string
	text   string
}

//nolint:gochecknoglobals // Decoded once from embedded content
var (
	defaultOnce sync.Once
	defaultKB   *KnowledgeBase
)

// Default returns the embedded knowledge base. It panics if the embedded
// document does not decode, which would be a build defect.
func Default() (kb *KnowledgeBase) {
	defaultOnce.Do(func() {
		var err error
		defaultKB, err = Parse(rubricYAML)
		if err != nil {
			panic(err)
		}
	})
	kb = defaultKB
	return kb
}

// Parse decodes a rubric document and checks its phase table.
func Parse(data []byte) (kb *KnowledgeBase, err error) {
	kb = &KnowledgeBase{}
	err = yaml.Unmarshal(data, kb)
	if err != nil {
		err = errors.Wrap(err, "failed to parse rubric")
		return nil, err
	}

	if kb.Version == "" {
		err = errors.New("rubric version is required")
		return nil, err
	}

	for _, p := range kb.Phases {
		want, ok := PhaseWeights[p.ID]
		if !ok {
			err = errors.Errorf("rubric phase %q is not a known phase", p.ID)
			return nil, err
		}
		if p.Weight != want {
			err = errors.Errorf("rubric phase %q weight %.2f does not match %.2f", p.ID, p.Weight, want)
			return nil, err
		}
	}

	if len(kb.Phases) != len(PhaseWeights) {
		err = errors.Errorf("rubric defines %d phases, want %d", len(kb.Phases), len(PhaseWeights))
		return nil, err
	}

	sum := sha256.Sum256(data)
	kb.digest = hex.EncodeToString(sum[:])
	kb.text = kb.render()

	return kb, err
}

// Digest is the SHA-256 of the source document.
func (kb *KnowledgeBase) Digest() (digest string) {
	digest = kb.digest
	return digest
}

// Identity is "<version>+<short digest>", stable for identical content.
func (kb *KnowledgeBase) Identity() (id string) {
	id = kb.Version + "+" + kb.digest[:12]
	return id
}

// Phase returns the rubric for a phase.
func (kb *KnowledgeBase) Phase(id Phase) (phase PhaseRubric, ok bool) {
	for _, p := range kb.Phases {
		if p.ID == id {
			phase = p
			ok = true
			return phase, ok
		}
	}
	return phase, ok
}

// PromptText is the rubric rendered for inclusion in a grading prompt.
func (kb *KnowledgeBase) PromptText() (text string) {
	text = kb.text
	return text
}

func (kb *KnowledgeBase) render() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s (version %s)\n\n", strings.ToUpper(kb.Name), kb.Version)

	sb.WriteString("THE NINE PILLARS:\n")
	for i, p := range kb.Pillars {
		fmt.Fprintf(&sb, "%d. %s: %s\n", i+1, p.Name, p.Criteria)
	}

	sb.WriteString("\nPHASE RUBRIC:\n")
	for _, p := range kb.Phases {
		fmt.Fprintf(&sb, "\n%s (%s, weight %d%%)\n", strings.ToUpper(p.Name), p.ID, int(p.Weight*100+0.5))
		for _, c := range p.Criteria {
			fmt.Fprintf(&sb, "  - %s\n", c)
		}
		if len(p.Caps) > 0 {
			sb.WriteString("  Score caps:\n")
			for _, c := range p.Caps {
				fmt.Fprintf(&sb, "  * [%s] %s -> cap %d\n", c.ID, c.Condition, c.Ceiling)
			}
		}
	}

	sb.WriteString("\nPHASE SCORE BANDS:\n")
	writeBands(&sb, kb.PhaseBands)

	sb.WriteString("\nOVERALL SCORE = ")
	parts := make([]string, 0, len(weightOrder))
	for _, id := range weightOrder {
		parts = append(parts, fmt.Sprintf("%s x %.2f", titlePhase(id), PhaseWeights[id]))
	}
	sb.WriteString(strings.Join(parts, " + "))
	sb.WriteString("\n\nOVERALL BANDS:\n")
	writeBands(&sb, kb.OverallBands)

	sb.WriteString("\nSCORING CATEGORIES (score each 0-10):\n")
	for _, c := range AllCategories() {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", c, c.Label(), c.Description())
	}

	if len(kb.GradingNotes) > 0 {
		sb.WriteString("\nGRADING NOTES:\n")
		for _, n := range kb.GradingNotes {
			fmt.Fprintf(&sb, "- %s\n", n)
		}
	}

	text = sb.String()
	return text
}

func writeBands(sb *strings.Builder, bands []ScoreBand) {
	for _, b := range bands {
		fmt.Fprintf(sb, "  %d-%d: %s\n", b.Min, b.Max, b.Label)
	}
}

func titlePhase(p Phase) (title string) {
	title = strings.ToUpper(string(p[:1])) + string(p[1:])
	return title
}
