package behavior

import (
	"math/rand/v2"

	"github.com/closepro/closepro/pkg/difficulty"
)

// Archetype is the authority stance a simulated prospect takes.
type Archetype string

const (
	ArchetypeAdvisee Archetype = "advisee"
	ArchetypePeer    Archetype = "peer"
	ArchetypeAdvisor Archetype = "advisor"
)

// ArchetypeWeight is one row of the selection table.
type ArchetypeWeight struct {
	Archetype Archetype
	Weight    int
}

//nolint:gochecknoglobals // Selection configuration constants
var archetypeWeights = []ArchetypeWeight{
	{Archetype: ArchetypeAdvisee, Weight: 40},
	{Archetype: ArchetypePeer, Weight: 40},
	{Archetype: ArchetypeAdvisor, Weight: 20},
}

// Weights returns the selection weights. They sum to 100.
func Weights() (weights []ArchetypeWeight) {
	weights = make([]ArchetypeWeight, len(archetypeWeights))
	copy(weights, archetypeWeights)
	return weights
}

// DrawArchetype picks an archetype at random using the selection weights.
func DrawArchetype(r *rand.Rand) (archetype Archetype) {
	total := 0
	for _, w := range archetypeWeights {
		total += w.Weight
	}

	n := r.IntN(total)
	for _, w := range archetypeWeights {
		if n < w.Weight {
			archetype = w.Archetype
			return archetype
		}
		n -= w.Weight
	}

	archetype = archetypeWeights[len(archetypeWeights)-1].Archetype
	return archetype
}

// FromAuthority maps a profile's authority level onto the matching archetype.
func FromAuthority(level difficulty.AuthorityLevel) (archetype Archetype, ok bool) {
	switch level {
	case difficulty.AuthorityAdvisee:
		archetype, ok = ArchetypeAdvisee, true
	case difficulty.AuthorityPeer:
		archetype, ok = ArchetypePeer, true
	case difficulty.AuthorityAdvisor:
		archetype, ok = ArchetypeAdvisor, true
	}
	return archetype, ok
}

// Valid reports whether a is a known archetype.
func (a Archetype) Valid() (ok bool) {
	for _, w := range archetypeWeights {
		if w.Archetype == a {
			ok = true
			return ok
		}
	}
	return ok
}

// startingTrust is where the trust meter begins for each archetype.
func (a Archetype) startingTrust() (trust int) {
	switch a {
	case ArchetypeAdvisee:
		trust = 6
	case ArchetypePeer:
		trust = 4
	default:
		trust = 2
	}
	return trust
}
