package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabels(t *testing.T) {
	raw := `Call with Dana, recorded 2026-03-02
[00:00:05] Rep: Thanks for jumping on.
[00:00:09] Prospect: Sure, I have about twenty minutes.
Let's keep it quick.
[00:00:15] Rep: Absolutely.
Rep: First, what made you book?
00:00:30 Prospect: Honestly it's 5:30 and I'm tired of losing deals.`

	tr := Parse(raw)

	assert.Equal(t, "Call with Dana, recorded 2026-03-02", tr.Preamble)
	require.Len(t, tr.Turns, 4)

	assert.Equal(t, Turn{Speaker: "Rep", Role: RoleRep, Timestamp: "00:00:05", Text: "Thanks for jumping on."}, tr.Turns[0])
	assert.Equal(t, "Sure, I have about twenty minutes. Let's keep it quick.", tr.Turns[1].Text)
	assert.Equal(t, "Absolutely. First, what made you book?", tr.Turns[2].Text, "same speaker lines merge")
	assert.Equal(t, RoleProspect, tr.Turns[3].Role)
	assert.Equal(t, "Honestly it's 5:30 and I'm tired of losing deals.", tr.Turns[3].Text)
}

func TestParseKeepsSentencesWithColons(t *testing.T) {
	raw := `Rep: What is costing you the most right now?
Prospect: Honestly the main thing is simple: revenue is flat.
The reason is simple: we never fixed our follow-up.
Rep: Got it.`

	tr := Parse(raw)
	require.Len(t, tr.Turns, 3)
	assert.Equal(t, "Prospect", tr.Turns[1].Speaker)
	assert.Equal(t, "Honestly the main thing is simple: revenue is flat. The reason is simple: we never fixed our follow-up.", tr.Turns[1].Text)

	s := tr.Stats()
	assert.Equal(t, 3, s.Turns)
	assert.Equal(t, 18, s.ProspectWords)
}

func TestLooksLikeName(t *testing.T) {
	assert.True(t, looksLikeName("Dana Ruiz"))
	assert.True(t, looksLikeName("Speaker 2"))
	assert.False(t, looksLikeName("The reason is simple"))
	assert.False(t, looksLikeName("note"))
	assert.False(t, looksLikeName("One Two Three Four Five"))
}

func TestStringIncludesPreamble(t *testing.T) {
	tr := Parse("Call with Dana, 2026-03-02\nRep: Hi.\nProspect: Hello.")
	assert.Equal(t, "Call with Dana, 2026-03-02\n\nRep: Hi.\nProspect: Hello.\n", tr.String())
}

func TestParseWebVTT(t *testing.T) {
	raw := `WEBVTT

1
00:00:01.000 --> 00:00:03.000
<v Closer>Hey Sam, good to meet you.</v>

2
00:00:03.500 --> 00:00:05.000
<v Sam>Likewise.`

	tr := Parse(raw)
	require.Len(t, tr.Turns, 2)
	assert.Equal(t, RoleRep, tr.Turns[0].Role)
	assert.Equal(t, "Hey Sam, good to meet you.", tr.Turns[0].Text)
	assert.Equal(t, "Sam", tr.Turns[1].Speaker)
	assert.Equal(t, RoleUnknown, tr.Turns[1].Role)

	tr.AssignTwoParty()
	assert.Equal(t, RoleProspect, tr.Turns[1].Role)
}

func TestParseRepNames(t *testing.T) {
	tr := Parse("Jordan: Hi Alex.\nAlex: Hi.", "jordan")
	require.Len(t, tr.Turns, 2)
	assert.Equal(t, RoleRep, tr.Turns[0].Role)

	tr.AssignTwoParty()
	assert.Equal(t, RoleProspect, tr.Turns[1].Role)
}

func TestAssignTwoPartyLeavesGroupCalls(t *testing.T) {
	tr := Parse("Rep: Hi all.\nAlex: Hi.\nSam: Hello.")
	tr.AssignTwoParty()
	assert.Equal(t, RoleUnknown, tr.Turns[1].Role)
	assert.Equal(t, RoleUnknown, tr.Turns[2].Role)
}

func TestStatsAndString(t *testing.T) {
	tr := Parse("Rep: one two three\nProspect: four\n[00:01] Rep: five")

	s := tr.Stats()
	assert.Equal(t, 3, s.Turns)
	assert.Equal(t, 4, s.RepWords)
	assert.Equal(t, 1, s.ProspectWords)
	assert.InDelta(t, 0.8, s.RepTalkRatio, 1e-9)

	assert.Equal(t, "Rep: one two three\nProspect: four\n[00:01] Rep: five\n", tr.String())
}

func TestParseEmpty(t *testing.T) {
	tr := Parse("")
	assert.Empty(t, tr.Turns)
	assert.Equal(t, Stats{}, tr.Stats())
}
