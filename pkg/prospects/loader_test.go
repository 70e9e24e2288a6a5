package prospects

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/closepro/closepro/pkg/difficulty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const libraryJSON = `{
  "prospects": [
    {
      "id": "morgan",
      "name": "Morgan Lee",
      "background": "Agency owner, burned by two coaches.",
      "offer": "12-week sales coaching",
      "sliders": {
        "position_problem_alignment": 2,
        "pain_ambition_intensity": 3,
        "perceived_need_for_help": 3,
        "funnel_context": 3,
        "execution_resistance": 3
      }
    },
    {
      "id": "dana",
      "name": "Dana Cruz",
      "sliders": {
        "position_problem_alignment": 8,
        "pain_ambition_intensity": 9,
        "perceived_need_for_help": 2,
        "funnel_context": 9
      },
      "authority": "advisee"
    }
  ]
}`

func writeLibrary(t *testing.T, content string) (path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "prospects.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	lib, err := Load(writeLibrary(t, libraryJSON))
	require.NoError(t, err)

	require.Len(t, lib.Prospects, 2)
	assert.Equal(t, []string{"dana", "morgan"}, lib.IDs())

	morgan, err := lib.Find("morgan")
	require.NoError(t, err)
	result := morgan.Profile().Result()
	assert.Equal(t, 14, result.Index)
	assert.Equal(t, difficulty.TierNearImpossible, result.Tier)
	assert.Equal(t, difficulty.ModelExtended50, result.Model)
	assert.Equal(t, difficulty.AuthorityAdvisor, morgan.Profile().AuthorityLevel)
}

func TestExplicitAuthorityWins(t *testing.T) {
	lib, err := Load(writeLibrary(t, libraryJSON))
	require.NoError(t, err)

	dana, err := lib.Find("dana")
	require.NoError(t, err)

	profile := dana.Profile()
	assert.Equal(t, difficulty.AuthorityAdvisee, profile.AuthorityLevel)
	assert.Equal(t, 8, profile.PerceivedNeedForHelp, "need clamped into the advisee range")
	assert.Equal(t, difficulty.ModelLegacy40, profile.Model)
}

func TestFindUnknown(t *testing.T) {
	lib, err := Load(writeLibrary(t, libraryJSON))
	require.NoError(t, err)

	_, err = lib.Find("alex")
	assert.ErrorContains(t, err, "dana, morgan")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read prospects file")

	_, err = Load(writeLibrary(t, "{"))
	assert.ErrorContains(t, err, "failed to parse prospects JSON")

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", `{"prospects": []}`, "Prospects"},
		{"missing name", `{"prospects": [{"id": "a", "sliders": {"perceived_need_for_help": 5}}]}`, "Name"},
		{"bad authority", `{"prospects": [{"id": "a", "name": "A", "authority": "boss", "sliders": {"perceived_need_for_help": 5}}]}`, "Authority"},
		{"duplicate", `{"prospects": [{"id": "a", "name": "A", "sliders": {"perceived_need_for_help": 5}}, {"id": "a", "name": "B", "sliders": {"perceived_need_for_help": 5}}]}`, "duplicate"},
		{"slider out of range", `{"prospects": [{"id": "a", "name": "A", "sliders": {"pain_ambition_intensity": 12, "perceived_need_for_help": 5}}]}`, "PainAmbitionIntensity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeLibrary(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
