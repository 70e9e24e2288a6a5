package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/closepro/closepro/pkg/clusters"
	"github.com/closepro/closepro/pkg/display"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var clustersFile string

//nolint:gochecknoglobals // Cobra boilerplate
var clustersCmd = &cobra.Command{
	Use:   "clusters [category=score ...]",
	Short: "Aggregate category scores into skill clusters",
	Long: `Groups 0-10 category scores into the six skill clusters. Each cluster
scores the rounded mean of its members that scored above zero.

Scores come from arguments or from a JSON object file. Legacy short ids
(authority, discovery, trust, ...) are accepted.

Examples:
  closepro clusters authority_leadership=8 structure_framework=6
  closepro clusters --file scores.json`,
	RunE: runClusters,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(clustersCmd)
	clustersCmd.Flags().StringVar(&clustersFile, "file", "", "JSON file mapping category ids to scores")
}

func runClusters(cmd *cobra.Command, args []string) (err error) {
	var scores map[string]float64
	scores, err = parseCategoryScores(clustersFile, args)
	if err != nil {
		return err
	}

	result := clusters.ComputeClusterScores(scores)
	for _, c := range result.Clusters {
		fmt.Printf("%-36s %s %2d\n", c.Label, display.Bar(c.Score, 10, 10), c.Score)
		if getVerbose() {
			for _, m := range c.Breakdown {
				fmt.Printf("    %-32s %g\n", m.CategoryID.Label(), m.Score)
			}
		}
	}

	if len(result.Unrecognized) > 0 {
		fmt.Printf("\nIgnored unknown categories: %s\n", strings.Join(result.Unrecognized, ", "))
	}

	return err
}

func parseCategoryScores(path string, args []string) (scores map[string]float64, err error) {
	scores = make(map[string]float64, len(args))

	if path != "" {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to read scores file: %s", path)
			return scores, err
		}
		err = json.Unmarshal(data, &scores)
		if err != nil {
			err = errors.Wrapf(err, "failed to parse scores file: %s", path)
			return scores, err
		}
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			err = errors.Errorf("expected category=score, got %q", arg)
			return scores, err
		}
		var score float64
		score, err = strconv.ParseFloat(value, 64)
		if err != nil {
			err = errors.Errorf("score for %s must be a number, got %q", key, value)
			return scores, err
		}
		scores[key] = score
	}

	if len(scores) == 0 {
		err = errors.New("no category scores given")
		return scores, err
	}

	return scores, err
}
