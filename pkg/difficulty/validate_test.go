package difficulty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		profile   Profile
		wantError bool
	}{
		{
			name:    "valid extended profile",
			profile: NewExtendedProfile(8, 9, 9, 9, 9),
		},
		{
			name:    "valid legacy profile",
			profile: NewLegacyProfile(0, 0, 1, 0),
		},
		{
			name:      "alignment above ten",
			profile:   NewExtendedProfile(11, 9, 9, 9, 9),
			wantError: true,
		},
		{
			name:      "need below one",
			profile:   NewLegacyProfile(5, 5, 0, 5),
			wantError: true,
		},
		{
			name:      "extended model missing resistance",
			profile:   NewExtendedProfile(5, 5, 5, 5, 0),
			wantError: true,
		},
		{
			name: "unknown authority",
			profile: Profile{
				Model:                    ModelLegacy40,
				PositionProblemAlignment: 5,
				PainAmbitionIntensity:    5,
				PerceivedNeedForHelp:     5,
				AuthorityLevel:           "boss",
				FunnelContext:            5,
			},
			wantError: true,
		},
		{
			name:      "unknown model",
			profile:   Profile{Model: 45, PerceivedNeedForHelp: 5, AuthorityLevel: AuthorityPeer},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
