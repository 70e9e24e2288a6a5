package behavior

// Trigger is an observed seller behavior that moves the prospect's trust.
type Trigger string

const (
	TriggerStaysCalm               Trigger = "stays_calm"
	TriggerUsesProspectWords       Trigger = "uses_prospect_words"
	TriggerOffersPaymentWorkaround Trigger = "offers_payment_workaround"
	TriggerGetsFrustrated          Trigger = "gets_frustrated"
	TriggerRushesClose             Trigger = "rushes_close"
	TriggerStaysConsistent         Trigger = "stays_consistent"
	TriggerFlipsCharacter          Trigger = "flips_character"
)

// EffectKind is the direction of a trust change.
type EffectKind string

const (
	EffectIncrease      EffectKind = "increase"
	EffectDecrease      EffectKind = "decrease"
	EffectImmediateLoss EffectKind = "immediate_loss"
)

// Effect is the trust change caused by a trigger. Delta is signed and is
// zero for immediate loss.
type Effect struct {
	Kind  EffectKind `json:"kind"`
	Delta int        `json:"delta"`
}

func up(n int) (e Effect) {
	e = Effect{Kind: EffectIncrease, Delta: n}
	return e
}

func down(n int) (e Effect) {
	e = Effect{Kind: EffectDecrease, Delta: -n}
	return e
}

//nolint:gochecknoglobals // De-escalation configuration constants
var lost = Effect{Kind: EffectImmediateLoss}

// deescalation maps archetype and trigger to the trust effect.
//
//nolint:gochecknoglobals // De-escalation configuration constants
var deescalation = map[Archetype]map[Trigger]Effect{
	ArchetypeAdvisee: {
		TriggerStaysCalm:               up(1),
		TriggerUsesProspectWords:       up(2),
		TriggerOffersPaymentWorkaround: up(2),
		TriggerGetsFrustrated:          down(2),
		TriggerRushesClose:             down(1),
		TriggerStaysConsistent:         up(1),
		TriggerFlipsCharacter:          lost,
	},
	ArchetypePeer: {
		TriggerStaysCalm:               up(1),
		TriggerUsesProspectWords:       up(2),
		TriggerOffersPaymentWorkaround: up(1),
		TriggerGetsFrustrated:          down(2),
		TriggerRushesClose:             down(2),
		TriggerStaysConsistent:         up(1),
		TriggerFlipsCharacter:          lost,
	},
	ArchetypeAdvisor: {
		TriggerStaysCalm:               up(2),
		TriggerUsesProspectWords:       up(1),
		TriggerOffersPaymentWorkaround: up(1),
		TriggerGetsFrustrated:          down(3),
		TriggerRushesClose:             down(2),
		TriggerStaysConsistent:         up(1),
		TriggerFlipsCharacter:          lost,
	},
}

// Triggers lists every trigger in table order.
func Triggers() (triggers []Trigger) {
	triggers = []Trigger{
		TriggerStaysCalm,
		TriggerUsesProspectWords,
		TriggerOffersPaymentWorkaround,
		TriggerGetsFrustrated,
		TriggerRushesClose,
		TriggerStaysConsistent,
		TriggerFlipsCharacter,
	}
	return triggers
}

// Lookup returns the effect of trigger on a prospect of the given archetype.
func Lookup(archetype Archetype, trigger Trigger) (effect Effect, ok bool) {
	row, ok := deescalation[archetype]
	if !ok {
		return effect, ok
	}
	effect, ok = row[trigger]
	return effect, ok
}

// MaxTrust is the ceiling of the trust meter.
const MaxTrust = 10

// TrustMeter tracks a simulated prospect's trust in the seller over a session.
type TrustMeter struct {
	archetype Archetype
	trust     int
	lost      bool
}

// NewTrustMeter starts a meter at the archetype's baseline trust.
func NewTrustMeter(archetype Archetype) (meter *TrustMeter) {
	meter = &TrustMeter{
		archetype: archetype,
		trust:     archetype.startingTrust(),
	}
	return meter
}

// Trust is the current level, 0 to MaxTrust.
func (m *TrustMeter) Trust() (trust int) {
	trust = m.trust
	return trust
}

// Lost reports whether trust was lost outright. A lost meter stays at zero.
func (m *TrustMeter) Lost() (lost bool) {
	lost = m.lost
	return lost
}

// Apply records a seller behavior and returns the effect it had. Unknown
// triggers leave the meter unchanged and report false.
func (m *TrustMeter) Apply(trigger Trigger) (effect Effect, ok bool) {
	effect, ok = Lookup(m.archetype, trigger)
	if !ok || m.lost {
		return effect, ok
	}

	if effect.Kind == EffectImmediateLoss {
		m.trust = 0
		m.lost = true
		return effect, ok
	}

	m.trust = min(max(m.trust+effect.Delta, 0), MaxTrust)
	return effect, ok
}
