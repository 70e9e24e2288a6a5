package llm

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestStripMarkdownCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```\n", `{"a": 1}`},
		{"no fence", `  {"a": 1}  `, `{"a": 1}`},
		{"unterminated", "```json\n{\"a\": 1}", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdownCodeFences(tt.in))
		})
	}
}

func TestCleanJSONTrimsProse(t *testing.T) {
	doc, repaired, err := cleanJSON("Here is the grade:\n{\"overall_score\": 70}\nHope that helps!")
	require.NoError(t, err)
	assert.False(t, repaired)
	assert.JSONEq(t, `{"overall_score": 70}`, doc)
}

func TestCleanJSONRepairs(t *testing.T) {
	doc, repaired, err := cleanJSON("```json\n{\"summary\": 'ok', \"strengths\": [\"a\", \"b\",],}\n```")
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.True(t, gjson.Valid(doc))
	assert.Equal(t, "ok", gjson.Get(doc, "summary").String())
	assert.Len(t, gjson.Get(doc, "strengths").Array(), 2)
}

func TestCleanJSONEmpty(t *testing.T) {
	_, _, err := cleanJSON("   ")
	assert.Error(t, err)
}

func TestCoerceNumbers(t *testing.T) {
	in := `{"overall_score": "71", "phase_scores": {"intro": {"score": "80.5"}, "close": {"score": 40}}, "category_scores": {"gap_urgency": "6", "rapport": "high"}}`

	out, paths, err := coerceNumbers(in)
	require.NoError(t, err)

	assert.Equal(t, gjson.Number, gjson.Get(out, "overall_score").Type)
	assert.InDelta(t, 80.5, gjson.Get(out, "phase_scores.intro.score").Float(), 0)
	assert.Equal(t, gjson.Number, gjson.Get(out, "category_scores.gap_urgency").Type)
	assert.Equal(t, "high", gjson.Get(out, "category_scores.rapport").String(), "non-numeric strings are left alone")
	assert.ElementsMatch(t, []string{"overall_score", "phase_scores.intro.score", "category_scores.gap_urgency"}, paths)
}

func TestValidateAnalysis(t *testing.T) {
	valid := `{"overall_score": 50, "phase_scores": {"intro": {"score": 50}}, "category_scores": {"gap_urgency": 5}, "summary": "fine"}`
	assert.NoError(t, validateAnalysis(valid))

	invalid := `{"overall_score": "high", "phase_scores": {"negotiation": {"score": 50}}, "category_scores": {"gap_urgency": "five"}}`
	err := validateAnalysis(invalid)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "overall_score")
	assert.Contains(t, fields, "category_scores.gap_urgency")
	assert.Contains(t, verr.Error(), "summary")
}
