package cmd

import (
	"fmt"

	"github.com/closepro/closepro/pkg/display"
	"github.com/closepro/closepro/pkg/rubric"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rubricPrompt bool

//nolint:gochecknoglobals // Cobra boilerplate
var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Show the grading rubric",
	Long: `Prints the rubric version, phase weights and score caps.

Use --prompt to print the exact rubric text sent to the grading model.`,
	RunE: runRubric,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(rubricCmd)
	rubricCmd.Flags().BoolVar(&rubricPrompt, "prompt", false, "Print the rubric as sent to the grading model")
}

func runRubric(cmd *cobra.Command, args []string) (err error) {
	kb := rubric.Default()

	if rubricPrompt {
		fmt.Println(kb.PromptText())
		return err
	}

	fmt.Printf("%s %s\n\n", display.Heading(kb.Name), display.Muted(kb.Identity()))
	for _, phase := range rubric.CallOrder {
		p, ok := kb.Phase(phase)
		if !ok {
			continue
		}
		fmt.Printf("%-12s %3.0f%%\n", p.Name, rubric.PhaseWeights[phase]*100)
		for _, c := range p.Caps {
			fmt.Printf("    cap %-28s max %d  %s\n", c.ID, c.Ceiling, display.Muted(c.Condition))
		}
	}

	fmt.Printf("\n%s\n", display.Heading("Overall bands"))
	for _, b := range kb.OverallBands {
		fmt.Printf("  %3d-%3d  %s\n", b.Min, b.Max, b.Label)
	}

	fmt.Printf("\n%s\n", display.Heading("Categories"))
	for _, c := range rubric.AllCategories() {
		fmt.Printf("  %-32s %s\n", c, c.Label())
	}

	return err
}
