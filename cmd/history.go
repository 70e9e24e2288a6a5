package cmd

import (
	"context"
	"fmt"

	"github.com/closepro/closepro/pkg/config"
	"github.com/closepro/closepro/pkg/display"
	"github.com/closepro/closepro/pkg/history"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	historyID       string
	historyLimit    int
	historyReindex  bool
	historyProspect string
	historyPDF      string
)

//nolint:gochecknoglobals // Cobra boilerplate
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and review graded sessions",
	Long: `Lists saved grades newest first, or shows the full report for one.

Examples:
  closepro history
  closepro history --prospect dana --limit 5
  closepro history --id 7f1c9d2e-4b0a-4a7e-9d55-2d6f3f0f9a10
  closepro history --id 7f1c9d2e-4b0a-4a7e-9d55-2d6f3f0f9a10 --pdf review.pdf
  closepro history --reindex`,
	RunE: runHistory,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyID, "id", "", "Show the report for one record")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of records to list")
	historyCmd.Flags().BoolVar(&historyReindex, "reindex", false, "Rebuild the index from the record files")
	historyCmd.Flags().StringVar(&historyProspect, "prospect", "", "Only list sessions with this prospect id")
	historyCmd.Flags().StringVar(&historyPDF, "pdf", "", "With --id, write the report as a PDF to this path")
}

func runHistory(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	var store *history.Store
	store, err = history.NewStore(cfg.Defaults.HistoryDir, getLogger())
	if err != nil {
		return err
	}

	if historyReindex {
		var count int
		count, err = store.Reindex(context.Background())
		if err != nil {
			err = errors.Wrap(err, "failed to rebuild index")
			return err
		}
		fmt.Printf("✓ Rebuilt index (%d records indexed)\n", count)
		return err
	}

	if historyID != "" {
		var rec history.Record
		rec, err = store.Load(historyID)
		if err != nil {
			return err
		}
		gradePDF = historyPDF
		err = printResult(context.Background(), cfg, &rec)
		return err
	}

	var records []history.IndexedRecord
	records, err = store.Recent(0)
	if err != nil {
		return err
	}

	shown := 0
	for _, r := range records {
		if historyProspect != "" && r.ProspectID != historyProspect {
			continue
		}
		if shown == historyLimit {
			break
		}
		shown++

		name := r.ProspectName
		if name == "" {
			name = "-"
		}
		fmt.Printf("%s  %s  %-8s %-20s %s\n",
			display.Muted(r.CreatedAt.Local().Format("2006-01-02 15:04")),
			shortID(r.ID), r.Kind, name, display.Score(r.OverallScore, r.OverallBand))
		if getVerbose() && r.WeakestCluster != "" {
			fmt.Printf("    weakest: %s\n", display.Title(string(r.WeakestCluster)))
		}
	}

	if shown == 0 {
		fmt.Printf("No sessions in %s\n", store.Dir())
		return err
	}

	if getVerbose() {
		hc, herr := history.NewRetriever(store).Retrieve(historyProspect, shown)
		if herr == nil {
			fmt.Println()
			fmt.Print(history.FormatForPrompt(hc))
		}
	}

	return err
}

// shortID trims a record id for listings.
func shortID(id string) (short string) {
	short = id
	if len(short) > 8 {
		short = short[:8]
	}
	return short
}
