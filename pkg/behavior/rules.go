// Package behavior holds the rules an LLM-simulated prospect follows during a
// roleplay: authority archetypes, the eight-stage call flow, objection
// sequencing, the de-escalation table and the hard constraints.
//
// The prose is embedded and sent to the model verbatim. The parts that a
// program can check (archetype weights, stage order, trust effects,
// objection sequencing) are also exposed as structured data.
package behavior

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

//go:embed behavior.yaml
var behaviorYAML []byte

// ArchetypeRules is the prose description of one archetype.
type ArchetypeRules struct {
	ID          Archetype `yaml:"id"`
	Name        string    `yaml:"name"`
	Summary     string    `yaml:"summary"`
	Behavior    string    `yaml:"behavior"`
	SoftensWhen string    `yaml:"softens_when"`
}

// StageRules describes expected prospect behavior in one stage.
type StageRules struct {
	ID       Stage  `yaml:"id"`
	Name     string `yaml:"name"`
	Expected string `yaml:"expected"`
	Advisee  string `yaml:"advisee"`
	Peer     string `yaml:"peer"`
	Advisor  string `yaml:"advisor"`
}

// For returns the stage guidance specific to an archetype.
func (s StageRules) For(a Archetype) (guidance string) {
	switch a {
	case ArchetypeAdvisee:
		guidance = s.Advisee
	case ArchetypePeer:
		guidance = s.Peer
	case ArchetypeAdvisor:
		guidance = s.Advisor
	}
	return guidance
}

// RuleSet is the decoded behavior document.
type RuleSet struct {
	Version         string           `yaml:"version"`
	Name            string           `yaml:"name"`
	Identity        string           `yaml:"identity"`
	Archetypes      []ArchetypeRules `yaml:"archetypes"`
	Stages          []StageRules     `yaml:"stages"`
	ObjectionRules  []string         `yaml:"objection_rules"`
	HardConstraints []string         `yaml:"hard_constraints"`

	digest string
}

//nolint:gochecknoglobals // Decoded once from embedded content
var (
	defaultOnce  sync.Once
	defaultRules *RuleSet
)

// Default returns the embedded rule set. It panics if the embedded document
// does not decode, which would be a build defect.
func Default() (rules *RuleSet) {
	defaultOnce.Do(func() {
		var err error
		defaultRules, err = Parse(behaviorYAML)
		if err != nil {
			panic(err)
		}
	})
	rules = defaultRules
	return rules
}

// Parse decodes a behavior document and checks it against the archetype and
// stage enumerations.
func Parse(data []byte) (rules *RuleSet, err error) {
	rules = &RuleSet{}
	err = yaml.Unmarshal(data, rules)
	if err != nil {
		err = errors.Wrap(err, "failed to parse behavior rules")
		return nil, err
	}

	if rules.Version == "" {
		err = errors.New("behavior rules version is required")
		return nil, err
	}

	for _, a := range rules.Archetypes {
		if !a.ID.Valid() {
			err = errors.Errorf("behavior rules define unknown archetype %q", a.ID)
			return nil, err
		}
	}
	if len(rules.Archetypes) != len(archetypeWeights) {
		err = errors.Errorf("behavior rules define %d archetypes, want %d", len(rules.Archetypes), len(archetypeWeights))
		return nil, err
	}

	if len(rules.Stages) != len(stageOrder) {
		err = errors.Errorf("behavior rules define %d stages, want %d", len(rules.Stages), len(stageOrder))
		return nil, err
	}
	for i, s := range rules.Stages {
		if s.ID != stageOrder[i] {
			err = errors.Errorf("behavior stage %d is %q, want %q", i, s.ID, stageOrder[i])
			return nil, err
		}
	}

	sum := sha256.Sum256(data)
	rules.digest = hex.EncodeToString(sum[:])

	return rules, err
}

// Digest is the SHA-256 of the source document.
func (r *RuleSet) Digest() (digest string) {
	digest = r.digest
	return digest
}

// ID is "<version>+<short digest>", stable for identical content.
func (r *RuleSet) ID() (id string) {
	id = r.Version + "+" + r.digest[:12]
	return id
}

// Archetype returns the prose rules for a.
func (r *RuleSet) Archetype(a Archetype) (rules ArchetypeRules, ok bool) {
	for _, ar := range r.Archetypes {
		if ar.ID == a {
			rules = ar
			ok = true
			return rules, ok
		}
	}
	return rules, ok
}

// PromptText renders the rules for a prospect playing archetype a.
func (r *RuleSet) PromptText(a Archetype) (text string) {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(r.Identity))
	sb.WriteString("\n\n")

	if ar, ok := r.Archetype(a); ok {
		fmt.Fprintf(&sb, "YOUR AUTHORITY STANCE: %s. %s\n%s\nYou soften when: %s\n\n",
			strings.ToUpper(ar.Name), ar.Summary, strings.TrimSpace(ar.Behavior), ar.SoftensWhen)
	}

	sb.WriteString("CALL STAGES (the seller should move through these in order):\n")
	for i, s := range r.Stages {
		fmt.Fprintf(&sb, "%d. %s: %s", i+1, s.Name, s.Expected)
		if g := s.For(a); g != "" {
			fmt.Fprintf(&sb, " As this prospect: %s", g)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nTRUST:\n")
	for _, trig := range Triggers() {
		effect, _ := Lookup(a, trig)
		fmt.Fprintf(&sb, "- If the seller %s: %s\n", describeTrigger(trig), describeEffect(effect))
	}

	sb.WriteString("\nOBJECTIONS:\n")
	for _, rule := range r.ObjectionRules {
		fmt.Fprintf(&sb, "- %s\n", rule)
	}

	sb.WriteString("\nHARD CONSTRAINTS (never violate):\n")
	for _, c := range r.HardConstraints {
		fmt.Fprintf(&sb, "- %s\n", c)
	}

	text = sb.String()
	return text
}

func describeTrigger(t Trigger) (s string) {
	switch t {
	case TriggerStaysCalm:
		s = "stays calm under pressure"
	case TriggerUsesProspectWords:
		s = "uses your own earlier words back to you"
	case TriggerOffersPaymentWorkaround:
		s = "offers a payment plan or similar workaround"
	case TriggerGetsFrustrated:
		s = "gets frustrated or defensive"
	case TriggerRushesClose:
		s = "rushes to close before you are ready"
	case TriggerStaysConsistent:
		s = "stays consistent with what they said earlier"
	case TriggerFlipsCharacter:
		s = "contradicts themselves or changes persona"
	default:
		s = string(t)
	}
	return s
}

func describeEffect(e Effect) (s string) {
	switch e.Kind {
	case EffectIncrease:
		s = fmt.Sprintf("trust goes up (+%d)", e.Delta)
	case EffectDecrease:
		s = fmt.Sprintf("trust goes down (%d)", e.Delta)
	case EffectImmediateLoss:
		s = "you lose trust immediately and do not buy"
	default:
		s = "no change"
	}
	return s
}
