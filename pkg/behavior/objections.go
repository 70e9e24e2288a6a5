package behavior

import (
	"strings"

	"github.com/pkg/errors"
)

// ObjectionKind classifies an objection.
type ObjectionKind string

const (
	ObjectionPrice      ObjectionKind = "price"
	ObjectionTiming     ObjectionKind = "timing"
	ObjectionTrust      ObjectionKind = "trust"
	ObjectionAuthority  ObjectionKind = "authority"
	ObjectionNeed       ObjectionKind = "need"
	ObjectionCompetitor ObjectionKind = "competitor"
	ObjectionDIY        ObjectionKind = "do_it_yourself"
)

// ObjectionOutcome is how an objection ended.
type ObjectionOutcome string

const (
	OutcomeOpen       ObjectionOutcome = "open"
	OutcomeResolved   ObjectionOutcome = "resolved"
	OutcomeUnresolved ObjectionOutcome = "unresolved"
)

var (
	// ErrObjectionOpen is returned when an objection is raised while another is unresolved.
	ErrObjectionOpen = errors.New("an objection is already open")
	// ErrNoOpenObjection is returned when closing an objection that was never raised.
	ErrNoOpenObjection = errors.New("no objection is open")
	// ErrPriceBeforePitch is returned when a price objection is raised before the pitch.
	ErrPriceBeforePitch = errors.New("price objection raised before the pitch")
	// ErrRepeatedObjection is returned when an objection reuses earlier wording verbatim.
	ErrRepeatedObjection = errors.New("objection wording repeats an earlier objection")
)

// Objection is one raised objection and its outcome.
type Objection struct {
	Kind    ObjectionKind    `json:"kind"`
	Text    string           `json:"text"`
	Stage   Stage            `json:"stage"`
	Outcome ObjectionOutcome `json:"outcome"`
}

// ObjectionTracker enforces the sequencing rules for a single session:
// one objection at a time, price only from the pitch onward, and no
// verbatim reuse of wording from this or earlier sessions.
type ObjectionTracker struct {
	stage   Stage
	open    *Objection
	history []Objection
	used    map[string]bool
}

// NewObjectionTracker starts at the intro stage. previous holds objection
// wording from earlier sessions with the same seller.
func NewObjectionTracker(previous []string) (tracker *ObjectionTracker) {
	tracker = &ObjectionTracker{
		stage: StageIntro,
		used:  make(map[string]bool, len(previous)),
	}
	for _, text := range previous {
		tracker.used[normalizeWording(text)] = true
	}
	return tracker
}

// Stage is the stage the session is currently in.
func (t *ObjectionTracker) Stage() (stage Stage) {
	stage = t.stage
	return stage
}

// Advance moves the session to stage.
func (t *ObjectionTracker) Advance(stage Stage) (err error) {
	if stage.Position() < 0 {
		err = errors.Errorf("unknown stage %q", stage)
		return err
	}
	t.stage = stage
	return err
}

// Open returns the unresolved objection, if any.
func (t *ObjectionTracker) Open() (objection Objection, ok bool) {
	if t.open == nil {
		return objection, ok
	}
	objection = *t.open
	ok = true
	return objection, ok
}

// Raise opens a new objection.
func (t *ObjectionTracker) Raise(kind ObjectionKind, text string) (err error) {
	if t.open != nil {
		err = errors.Wrapf(ErrObjectionOpen, "%s objection still open", t.open.Kind)
		return err
	}

	if kind == ObjectionPrice && !t.stage.AtOrAfter(StagePitch) {
		err = errors.Wrapf(ErrPriceBeforePitch, "current stage %s", t.stage)
		return err
	}

	key := normalizeWording(text)
	if key != "" && t.used[key] {
		err = errors.Wrapf(ErrRepeatedObjection, "%q", text)
		return err
	}

	t.open = &Objection{Kind: kind, Text: text, Stage: t.stage, Outcome: OutcomeOpen}
	if key != "" {
		t.used[key] = true
	}
	return err
}

// Resolve closes the open objection as resolved or explicitly unresolved.
func (t *ObjectionTracker) Resolve(resolved bool) (closed Objection, err error) {
	if t.open == nil {
		err = ErrNoOpenObjection
		return closed, err
	}

	closed = *t.open
	closed.Outcome = OutcomeUnresolved
	if resolved {
		closed.Outcome = OutcomeResolved
	}

	t.history = append(t.history, closed)
	t.open = nil
	return closed, err
}

// History returns the closed objections in the order they were raised.
func (t *ObjectionTracker) History() (history []Objection) {
	history = make([]Objection, len(t.history))
	copy(history, t.history)
	return history
}

func normalizeWording(text string) (key string) {
	key = strings.Join(strings.Fields(strings.ToLower(text)), " ")
	return key
}
