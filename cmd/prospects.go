package cmd

import (
	"fmt"

	"github.com/closepro/closepro/pkg/config"
	"github.com/closepro/closepro/pkg/display"
	"github.com/closepro/closepro/pkg/prospects"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var prospectsFile string

//nolint:gochecknoglobals // Cobra boilerplate
var prospectsCmd = &cobra.Command{
	Use:   "prospects",
	Short: "List the prospect library",
	Long: `Lists the prospects in the library file with their difficulty.

The library path comes from --prospects or defaults.prospects_file in the config.

Example:
  closepro prospects --prospects ./prospects.json`,
	RunE: runProspects,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(prospectsCmd)
	rootCmd.PersistentFlags().StringVar(&prospectsFile, "prospects", "", "Prospect library JSON file (default from config)")
}

func runProspects(cmd *cobra.Command, args []string) (err error) {
	var lib prospects.Library
	lib, err = loadLibrary()
	if err != nil {
		return err
	}

	for _, id := range lib.IDs() {
		var p prospects.Prospect
		p, err = lib.Find(id)
		if err != nil {
			return err
		}
		profile := p.Profile()
		fmt.Printf("%-20s %-24s %s  %s\n", p.ID, p.Name, display.Difficulty(profile.Result()), display.Muted(string(profile.AuthorityLevel)))
		if getVerbose() && p.Offer != "" {
			fmt.Printf("    offer: %s\n", p.Offer)
		}
	}

	return err
}

// loadLibrary reads the library named by --prospects, falling back to the
// config file.
func loadLibrary() (lib prospects.Library, err error) {
	path := prospectsFile
	if path == "" {
		var cfg config.Config
		cfg, err = config.Load(getConfigFile())
		if err != nil {
			err = errors.Wrap(err, "no --prospects given and config could not be loaded")
			return lib, err
		}
		path = cfg.Defaults.ProspectsFile
	}
	if path == "" {
		err = errors.New("no prospect library configured (use --prospects or defaults.prospects_file)")
		return lib, err
	}

	if getVerbose() {
		fmt.Printf("Loading prospects from: %s\n", path)
	}

	lib, err = prospects.Load(path)
	return lib, err
}

// findProspect loads the library and looks up one prospect.
func findProspect(id string) (p prospects.Prospect, err error) {
	var lib prospects.Library
	lib, err = loadLibrary()
	if err != nil {
		return p, err
	}
	p, err = lib.Find(id)
	return p, err
}
