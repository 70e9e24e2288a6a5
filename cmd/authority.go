package cmd

import (
	"fmt"
	"strconv"

	"github.com/closepro/closepro/pkg/behavior"
	"github.com/closepro/closepro/pkg/difficulty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var authorityCmd = &cobra.Command{
	Use:   "authority <need-score> [level]",
	Short: "Derive or reconcile the prospect authority level",
	Long: `Maps a perceived-need score (1-10) to an authority level:
1-3 advisor, 4-7 peer, 8-10 advisee.

With a level argument the level wins and the need score is clamped into
that level's range, the same way the intake dropdown does.

Examples:
  closepro authority 5
  closepro authority 9 peer`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAuthority,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(authorityCmd)
}

func runAuthority(cmd *cobra.Command, args []string) (err error) {
	var need int
	need, err = strconv.Atoi(args[0])
	if err != nil {
		err = errors.Errorf("need score must be an integer, got %q", args[0])
		return err
	}

	level := difficulty.AuthorityFromScore(need)
	score := need
	if len(args) == 2 {
		var chosen difficulty.AuthorityLevel
		chosen, err = difficulty.ParseAuthority(args[1])
		if err != nil {
			return err
		}
		level, score = difficulty.ResolveAuthority(chosen, need)
	}

	bounds := difficulty.NeedScoreRanges[level]
	fmt.Printf("Authority level: %s (need %d-%d)\n", level, bounds[0], bounds[1])
	if score != need {
		fmt.Printf("Need score clamped: %d -> %d\n", need, score)
	}

	if archetype, ok := behavior.FromAuthority(level); ok && getVerbose() {
		fmt.Printf("Roleplay archetype: %s\n", archetype)
	}

	return err
}
