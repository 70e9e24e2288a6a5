package transcript

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Role is which side of the call a speaker is on.
type Role string

const (
	RoleRep      Role = "rep"
	RoleProspect Role = "prospect"
	RoleUnknown  Role = "unknown"
)

// Turn is one uninterrupted stretch of speech.
type Turn struct {
	Speaker   string `json:"speaker"`
	Role      Role   `json:"role"`
	Timestamp string `json:"timestamp,omitempty"`
	Text      string `json:"text"`
}

// Transcript is a parsed call.
type Transcript struct {
	Turns []Turn `json:"turns"`
	// Preamble holds text that appeared before the first speaker label.
	Preamble string `json:"preamble,omitempty"`
}

// Stats summarizes who talked.
type Stats struct {
	Turns         int     `json:"turns"`
	RepWords      int     `json:"rep_words"`
	ProspectWords int     `json:"prospect_words"`
	RepTalkRatio  float64 `json:"rep_talk_ratio"`
}

//nolint:gochecknoglobals // Speaker label lookup tables
var (
	repLabels = map[string]bool{
		"rep": true, "sales rep": true, "closer": true, "seller": true,
		"salesperson": true, "agent": true, "me": true, "coach": true, "setter": true,
	}
	prospectLabels = map[string]bool{
		"prospect": true, "lead": true, "client": true, "customer": true,
		"buyer": true, "caller": true,
	}

	// [00:01:23] Speaker: text, 00:01:23 Speaker: text, or Speaker: text
	turnPattern = regexp.MustCompile(`^(?:\[?(\d{1,2}:\d{2}(?::\d{2})?(?:\.\d+)?)\]?\s+)?([A-Za-z][\w .'\-]{0,39}?)\s*:\s+(.*)$`)
	// WebVTT voice span: <v Speaker>text
	voicePattern = regexp.MustCompile(`^<v(?:\.[\w.]+)?\s+([^>]+)>(.*?)(?:</v>)?$`)
	cueTiming    = regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?[.,]\d{3}\s+-->\s+`)
	cueNumber    = regexp.MustCompile(`^\d+$`)
)

// Parse splits raw text into turns. Lines without a speaker label continue
// the previous turn. Consecutive lines from the same speaker are merged.
// repNames adds extra labels (e.g. the rep's own name) that count as the rep.
func Parse(raw string, repNames ...string) (t Transcript) {
	reps := make(map[string]bool, len(repNames))
	for _, n := range repNames {
		reps[strings.ToLower(strings.TrimSpace(n))] = true
	}

	var preamble []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if skipLine(line) {
			continue
		}

		speaker, ts, text, ok := splitLabel(line, reps)
		if !ok {
			if len(t.Turns) == 0 {
				preamble = append(preamble, line)
				continue
			}
			last := &t.Turns[len(t.Turns)-1]
			last.Text = strings.TrimSpace(last.Text + " " + line)
			continue
		}

		role := classify(speaker, reps)
		if n := len(t.Turns); n > 0 && t.Turns[n-1].Speaker == speaker {
			t.Turns[n-1].Text = strings.TrimSpace(t.Turns[n-1].Text + " " + text)
			continue
		}

		t.Turns = append(t.Turns, Turn{Speaker: speaker, Role: role, Timestamp: ts, Text: text})
	}

	t.Preamble = strings.Join(preamble, "\n")
	return t
}

func skipLine(line string) (skip bool) {
	skip = line == "" || line == "WEBVTT" || cueTiming.MatchString(line) || cueNumber.MatchString(line)
	return skip
}

// splitLabel finds a speaker label at the start of line. A label without a
// timestamp must be a known role label, a rep name, or read like a name, so
// "The reason is simple: ..." stays part of the previous turn.
func splitLabel(line string, reps map[string]bool) (speaker, timestamp, text string, ok bool) {
	if m := voicePattern.FindStringSubmatch(line); m != nil {
		speaker = strings.TrimSpace(m[1])
		text = strings.TrimSpace(m[2])
		ok = true
		return speaker, timestamp, text, ok
	}

	m := turnPattern.FindStringSubmatch(line)
	if m == nil {
		return speaker, timestamp, text, ok
	}

	if m[1] == "" && classify(strings.TrimSpace(m[2]), reps) == RoleUnknown && !looksLikeName(m[2]) {
		return speaker, timestamp, text, ok
	}

	timestamp = m[1]
	speaker = strings.TrimSpace(m[2])
	text = strings.TrimSpace(m[3])
	ok = true
	return speaker, timestamp, text, ok
}

// looksLikeName accepts up to four words that each start with an upper-case
// letter or a digit, such as "Dana Ruiz" or "Speaker 2".
func looksLikeName(label string) (ok bool) {
	words := strings.Fields(label)
	if len(words) == 0 || len(words) > 4 {
		return ok
	}
	for _, w := range words {
		r := []rune(w)[0]
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return ok
		}
	}
	ok = true
	return ok
}

func classify(speaker string, reps map[string]bool) (role Role) {
	key := strings.ToLower(speaker)
	switch {
	case reps[key] || repLabels[key]:
		role = RoleRep
	case prospectLabels[key]:
		role = RoleProspect
	default:
		role = RoleUnknown
	}
	return role
}

// AssignTwoParty labels the two speakers of a call when only one side is
// known: an unknown speaker opposite a known rep is the prospect and vice
// versa. Calls with more than two speakers are left unchanged.
func (t *Transcript) AssignTwoParty() {
	roles := map[string]Role{}
	for _, turn := range t.Turns {
		roles[turn.Speaker] = turn.Role
	}
	if len(roles) != 2 {
		return
	}

	var known, other Role
	for _, r := range roles {
		if r != RoleUnknown {
			known = r
		}
	}
	switch known {
	case RoleRep:
		other = RoleProspect
	case RoleProspect:
		other = RoleRep
	default:
		return
	}

	for i := range t.Turns {
		if t.Turns[i].Role == RoleUnknown {
			t.Turns[i].Role = other
		}
	}
}

// Stats counts words per side.
func (t Transcript) Stats() (s Stats) {
	s.Turns = len(t.Turns)
	for _, turn := range t.Turns {
		words := len(strings.Fields(turn.Text))
		switch turn.Role {
		case RoleRep:
			s.RepWords += words
		case RoleProspect:
			s.ProspectWords += words
		}
	}
	if total := s.RepWords + s.ProspectWords; total > 0 {
		s.RepTalkRatio = float64(s.RepWords) / float64(total)
	}
	return s
}

// String renders the transcript as "Speaker: text" lines for the grader,
// after the preamble when there is one.
func (t Transcript) String() string {
	var sb strings.Builder
	if t.Preamble != "" {
		sb.WriteString(t.Preamble)
		sb.WriteString("\n\n")
	}
	for _, turn := range t.Turns {
		if turn.Timestamp != "" {
			fmt.Fprintf(&sb, "[%s] ", turn.Timestamp)
		}
		fmt.Fprintf(&sb, "%s: %s\n", turn.Speaker, turn.Text)
	}
	return sb.String()
}
