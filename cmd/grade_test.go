package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/closepro/closepro/pkg/config"
	"github.com/closepro/closepro/pkg/history"
	"github.com/closepro/closepro/pkg/llm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter returns canned replies and records what it was sent.
type fakeCompleter struct {
	replies  []string
	messages [][]llm.Message
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, messages []llm.Message) (text string, err error) {
	f.messages = append(f.messages, messages)
	if len(f.replies) == 0 {
		err = errors.New("no more replies")
		return text, err
	}
	text = f.replies[0]
	f.replies = f.replies[1:]
	return text, err
}

const gradedReply = `{
  "overall_score": 70,
  "phase_scores": {
    "intro": {"score": 80, "caps_triggered": [], "notes": ""},
    "discovery": {"score": 70, "caps_triggered": [], "notes": ""},
    "pitch": {"score": 70, "caps_triggered": [], "notes": ""},
    "close": {"score": 60, "caps_triggered": [], "notes": ""},
    "objections": {"score": 65, "caps_triggered": [], "notes": ""}
  },
  "category_scores": {"discovery_diagnosis": 7},
  "summary": "Solid opening, soft close."
}`

const callWithPreamble = `Call with Dana Whitfield, recorded 2026-03-02
Recorded by Alex for the coaching team
Rep: Thanks for making time today.
Prospect: Sure, I have ten minutes.
`

func TestNewGradeJob(t *testing.T) {
	job := newGradeJob("call.txt", callWithPreamble, nil, false)
	assert.Equal(t, llm.SourceCall, job.kind)
	assert.Equal(t, "call.txt", job.source)
	assert.Equal(t, 2, job.stats.Turns)
	assert.Contains(t, job.text, "Call with Dana Whitfield, recorded 2026-03-02")
	assert.Contains(t, job.text, "Rep: Thanks for making time today.")

	unparsed := newGradeJob("notes.txt", "just some notes", nil, true)
	assert.Equal(t, llm.SourceRoleplay, unparsed.kind)
	assert.Equal(t, "just some notes", unparsed.text)
}

func TestGradeJobSendsPreambleAndSaves(t *testing.T) {
	cfg := config.Config{Defaults: config.DefaultConfig{HistoryDir: t.TempDir()}}
	fake := &fakeCompleter{replies: []string{gradedReply}}

	job := newGradeJob("call.txt", callWithPreamble, nil, false)
	job.name = "Dana Whitfield"

	rec, err := gradeJobWith(context.Background(), cfg, fake, job)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Dana Whitfield", rec.ProspectName)
	assert.Equal(t, 2, rec.Stats.Turns)
	assert.NotEmpty(t, rec.ID, "saved records get an id")

	require.Len(t, fake.messages, 1)
	prompt := fake.messages[0][0].Content
	assert.Contains(t, prompt, "Call with Dana Whitfield, recorded 2026-03-02")
	assert.Contains(t, prompt, "Recorded by Alex for the coaching team")
	assert.Contains(t, prompt, "Prospect: Sure, I have ten minutes.")

	store, err := history.NewStore(cfg.Defaults.HistoryDir, nil)
	require.NoError(t, err)
	recent, err := store.Recent(5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, rec.ID, recent[0].ID)
}

func TestGradeJobModelFailure(t *testing.T) {
	cfg := config.Config{Defaults: config.DefaultConfig{HistoryDir: t.TempDir()}}

	_, err := gradeJobWith(context.Background(), cfg, &fakeCompleter{}, newGradeJob("call.txt", callWithPreamble, nil, false))
	assert.Error(t, err)
}

// captureOutput runs fn with stdout and stderr redirected to pipes.
func captureOutput(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()

	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)

	origOut, origErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = outW, errW
	defer func() { os.Stdout, os.Stderr = origOut, origErr }()

	fn()

	require.NoError(t, outW.Close())
	require.NoError(t, errW.Close())
	outBytes, err := io.ReadAll(outR)
	require.NoError(t, err)
	errBytes, err := io.ReadAll(errR)
	require.NoError(t, err)

	stdout, stderr = string(outBytes), string(errBytes)
	return stdout, stderr
}

func TestGradeJobWarningsStayOffStdout(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".index.json"), []byte("{"), 0o600))
	cfg := config.Config{Defaults: config.DefaultConfig{HistoryDir: dir}}
	fake := &fakeCompleter{replies: []string{gradedReply}}

	var rec *history.Record
	var gradeErr error
	stdout, stderr := captureOutput(t, func() {
		rec, gradeErr = gradeJobWith(context.Background(), cfg, fake, newGradeJob("call.txt", callWithPreamble, nil, false))
	})

	require.NoError(t, gradeErr, "history problems never fail the grade")
	require.NotNil(t, rec)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Warning: history retrieval failed")
	assert.Contains(t, stderr, "Warning: failed to save result to history")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0b9f3c1e", shortID("0b9f3c1e-8d2a-4c55-9a51-3f6f0e2b7a10"))
	assert.Equal(t, "x", shortID("x"))
	assert.Empty(t, shortID(""))
}
