package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/closepro/closepro/pkg/difficulty"
	"github.com/closepro/closepro/pkg/display"
	"github.com/closepro/closepro/pkg/prospects"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	sliderPPA        int
	sliderPAI        int
	sliderNeed       int
	sliderFunnel     int
	sliderResistance int
	sliderAuthority  string
	difficultyID     string
	difficultyJSON   bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var difficultyCmd = &cobra.Command{
	Use:   "difficulty",
	Short: "Score how hard a prospect is to sell to",
	Long: `Computes the prospect difficulty index and tier.

Each slider is 0-10 (perceived need 1-10). Without --resistance the 40-point
model is used; with it the 50-point model. --authority overrides the level
implied by --need, clamping the need score into that level's range.

Examples:
  closepro difficulty --ppa 6 --pai 7 --need 7 --funnel 7 --resistance 7
  closepro difficulty --ppa 5 --pai 5 --need 9 --funnel 5 --authority peer
  closepro difficulty --prospect dana --prospects ./prospects.json`,
	RunE: runDifficulty,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(difficultyCmd)
	addSliderFlags(difficultyCmd)
	difficultyCmd.Flags().StringVar(&difficultyID, "prospect", "", "Score a prospect from the library instead of sliders")
	difficultyCmd.Flags().BoolVar(&difficultyJSON, "json", false, "Print the result as JSON")
}

func addSliderFlags(c *cobra.Command) {
	c.Flags().IntVar(&sliderPPA, "ppa", 5, "Position/problem alignment (0-10)")
	c.Flags().IntVar(&sliderPAI, "pai", 5, "Pain/ambition intensity (0-10)")
	c.Flags().IntVar(&sliderNeed, "need", 5, "Perceived need for help (1-10)")
	c.Flags().IntVar(&sliderFunnel, "funnel", 5, "Funnel context (0-10)")
	c.Flags().IntVar(&sliderResistance, "resistance", 0, "Execution resistance (1-10); omit for the 40-point model")
	c.Flags().StringVar(&sliderAuthority, "authority", "", "Authority level override: advisor, peer or advisee")
}

// profileFromFlags builds a profile from the slider flags.
func profileFromFlags(c *cobra.Command) (profile difficulty.Profile, err error) {
	var resistance *int
	if c.Flags().Changed("resistance") {
		r := sliderResistance
		resistance = &r
	}

	if sliderAuthority == "" {
		profile = difficulty.NewProfileFromSliders(sliderPPA, sliderPAI, sliderNeed, sliderFunnel, resistance)
	} else {
		var level difficulty.AuthorityLevel
		level, err = difficulty.ParseAuthority(sliderAuthority)
		if err != nil {
			return profile, err
		}
		profile = difficulty.NewProfileWithAuthority(sliderPPA, sliderPAI, sliderNeed, level, sliderFunnel, resistance)
	}

	err = profile.Validate()
	return profile, err
}

// resolveProfile returns the library prospect's profile when id is set,
// otherwise the slider profile.
func resolveProfile(c *cobra.Command, id string) (profile difficulty.Profile, prospect *prospects.Prospect, err error) {
	if id == "" {
		profile, err = profileFromFlags(c)
		return profile, prospect, err
	}

	var p prospects.Prospect
	p, err = findProspect(id)
	if err != nil {
		return profile, prospect, err
	}
	prospect = &p
	profile = p.Profile()
	return profile, prospect, err
}

func runDifficulty(cmd *cobra.Command, args []string) (err error) {
	var profile difficulty.Profile
	profile, _, err = resolveProfile(cmd, difficultyID)
	if err != nil {
		return err
	}

	result := profile.Result()

	if difficultyJSON {
		var data []byte
		data, err = json.MarshalIndent(struct {
			Profile difficulty.Profile `json:"profile"`
			Result  difficulty.Result  `json:"result"`
		}{profile, result}, "", "  ")
		if err != nil {
			err = errors.Wrap(err, "failed to marshal result")
			return err
		}
		fmt.Println(string(data))
		return err
	}

	fmt.Printf("Difficulty index: %d/%d\n", result.Index, int(result.Model))
	fmt.Printf("Tier:             %s\n", display.Tier(result.Tier))
	fmt.Printf("Authority:        %s (perceived need %d)\n", profile.AuthorityLevel, profile.PerceivedNeedForHelp)

	if getVerbose() {
		bands := difficulty.LegacyBands
		if result.Model == difficulty.ModelExtended50 {
			bands = difficulty.ExtendedBands
		}
		fmt.Printf("\n%s\n", display.Heading(fmt.Sprintf("%d-point bands", int(result.Model))))
		for _, b := range bands {
			marker := " "
			if b.Contains(result.Index) {
				marker = ">"
			}
			fmt.Printf("%s %2d-%2d  %s\n", marker, b.Min, b.Max, b.Label)
		}
	}

	return err
}
