package llm

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/closepro/closepro/pkg/behavior"
	"github.com/closepro/closepro/pkg/difficulty"
	"github.com/pkg/errors"
)

// openingCue asks the prospect to speak first when the call connects.
const openingCue = "(The call connects. You speak first.)"

// RoleplaySetup describes the prospect the model plays.
type RoleplaySetup struct {
	Name               string
	Background         string
	Offer              string
	Profile            difficulty.Profile
	Archetype          behavior.Archetype
	PreviousObjections []string
}

// ChooseArchetype derives the archetype from the profile's authority level.
// Without a usable profile the archetype is drawn with the documented weights.
func ChooseArchetype(profile *difficulty.Profile, r *rand.Rand) (archetype behavior.Archetype, drawn bool) {
	if profile != nil {
		if a, ok := behavior.FromAuthority(profile.AuthorityLevel); ok {
			archetype = a
			return archetype, drawn
		}
	}

	archetype = behavior.DrawArchetype(r)
	drawn = true
	return archetype, drawn
}

// Roleplay is one simulated prospect conversation.
type Roleplay struct {
	client Completer
	setup  RoleplaySetup
	system string
	logger *slog.Logger
}

// NewRoleplay builds the prospect's system prompt. A nil rule set uses the
// embedded default.
func NewRoleplay(client Completer, rules *behavior.RuleSet, setup RoleplaySetup, logger *slog.Logger) (rp *Roleplay, err error) {
	if client == nil {
		err = errors.New("a model client is required")
		return rp, err
	}
	if setup.Name == "" {
		err = errors.New("roleplay prospect needs a name")
		return rp, err
	}
	if !setup.Archetype.Valid() {
		err = errors.Errorf("unknown archetype %q", setup.Archetype)
		return rp, err
	}
	err = setup.Profile.Validate()
	if err != nil {
		err = errors.Wrap(err, "invalid roleplay prospect")
		return rp, err
	}

	if rules == nil {
		rules = behavior.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rp = &Roleplay{
		client: client,
		setup:  setup,
		system: buildRoleplaySystemPrompt(rules, setup),
		logger: logger.With("prospect", setup.Name, "archetype", string(setup.Archetype), "behavior", rules.ID()),
	}
	return rp, err
}

// SystemPrompt is the full instruction text sent with every turn.
func (r *Roleplay) SystemPrompt() (prompt string) {
	prompt = r.system
	return prompt
}

// Open asks the prospect for the first line of the call.
func (r *Roleplay) Open(ctx context.Context) (reply string, err error) {
	reply, err = r.Turn(ctx, nil)
	return reply, err
}

// Turn sends the conversation so far and returns the prospect's next line.
// history alternates rep (user) and prospect (assistant) turns. An empty
// history asks the prospect to open the call.
func (r *Roleplay) Turn(ctx context.Context, history []Message) (reply string, err error) {
	messages := history
	if len(messages) == 0 {
		messages = []Message{{Role: RoleUser, Content: openingCue}}
	} else if messages[0].Role == RoleAssistant {
		// The API requires the first message to come from the user.
		messages = append([]Message{{Role: RoleUser, Content: openingCue}}, messages...)
	}

	if messages[len(messages)-1].Role != RoleUser {
		err = errors.New("the rep must speak before the prospect replies")
		return reply, err
	}

	r.logger.Debug("roleplay turn", "turns", len(history))

	reply, err = r.client.Complete(ctx, r.system, messages)
	if err != nil {
		err = errors.Wrap(err, "failed to get prospect reply")
		return reply, err
	}

	reply = strings.TrimSpace(reply)
	return reply, err
}

// Transcript renders a roleplay history in the "Rep:" / "Prospect:" form the
// transcript parser reads.
func Transcript(history []Message) (text string) {
	var sb strings.Builder
	for _, m := range history {
		speaker := "Rep"
		if m.Role == RoleAssistant {
			speaker = "Prospect"
		}
		fmt.Fprintf(&sb, "%s: %s\n", speaker, strings.TrimSpace(m.Content))
	}
	text = sb.String()
	return text
}
