package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/closepro/closepro/pkg/behavior"
	"github.com/closepro/closepro/pkg/config"
	"github.com/closepro/closepro/pkg/difficulty"
	"github.com/closepro/closepro/pkg/display"
	"github.com/closepro/closepro/pkg/llm"
	"github.com/closepro/closepro/pkg/prospects"
	"github.com/closepro/closepro/pkg/report"
	"github.com/closepro/closepro/pkg/transcript"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// endCommand finishes a roleplay session.
const endCommand = "/end"

//nolint:gochecknoglobals // Cobra boilerplate
var (
	roleplayProspectID string
	roleplayName       string
	roleplayBackground string
	roleplayOffer      string
	roleplayRandom     bool
	roleplaySeed       uint64
	roleplayGrade      bool
	roleplaySaveTo     string
	roleplayShowPrompt bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var roleplayCmd = &cobra.Command{
	Use:   "roleplay",
	Short: "Practice a sales call against a simulated prospect",
	Long: `Starts a practice call with an AI-simulated prospect. The prospect speaks
first; type your lines and press enter. Type /end to finish.

The prospect comes from the library (--prospect) or from the slider flags.
Its archetype follows the profile's authority level unless --random-archetype
draws one (40% advisee, 40% peer, 20% advisor).

With --grade the finished conversation is graded as a roleplay and saved to
history.

Examples:
  closepro roleplay --prospect dana --grade
  closepro roleplay --name "Sam Ortiz" --offer "12-week coaching" --ppa 4 --pai 6 --need 3 --funnel 2 --resistance 5`,
	RunE: runRoleplay,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(roleplayCmd)
	addSliderFlags(roleplayCmd)
	roleplayCmd.Flags().StringVar(&roleplayProspectID, "prospect", "", "Prospect id from the library")
	roleplayCmd.Flags().StringVar(&roleplayName, "name", "Jordan", "Prospect name when not using the library")
	roleplayCmd.Flags().StringVar(&roleplayBackground, "background", "", "Prospect background when not using the library")
	roleplayCmd.Flags().StringVar(&roleplayOffer, "offer", "", "What you are selling")
	roleplayCmd.Flags().BoolVar(&roleplayRandom, "random-archetype", false, "Draw the archetype instead of deriving it from authority")
	roleplayCmd.Flags().Uint64Var(&roleplaySeed, "seed", 0, "Seed for the archetype draw (default: time based)")
	roleplayCmd.Flags().BoolVar(&roleplayGrade, "grade", false, "Grade the conversation when it ends")
	roleplayCmd.Flags().StringVar(&roleplaySaveTo, "save-transcript", "", "Write the finished transcript to this file")
	roleplayCmd.Flags().BoolVar(&roleplayShowPrompt, "show-prompt", false, "Print the prospect's system prompt and exit")
}

func runRoleplay(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	var setup llm.RoleplaySetup
	var prospect *prospects.Prospect
	setup, prospect, err = roleplaySetup(cmd)
	if err != nil {
		return err
	}

	client := llm.NewClient(cfg.AnthropicAPIKey, cfg.GetRoleplayModel())

	var rp *llm.Roleplay
	rp, err = llm.NewRoleplay(client, behavior.Default(), setup, getLogger())
	if err != nil {
		err = errors.Wrap(err, "failed to start roleplay")
		return err
	}

	if roleplayShowPrompt {
		fmt.Println(rp.SystemPrompt())
		return err
	}

	result := setup.Profile.Result()
	fmt.Printf("%s %s, %s prospect (%s)\n", display.Heading("Calling"), setup.Name, display.Difficulty(result), setup.Archetype)
	fmt.Println(display.Muted("Type your lines and press enter. " + endCommand + " finishes the call."))
	fmt.Println()

	var conversation []llm.Message
	conversation, err = converse(cmd.Context(), rp, os.Stdin)
	if err != nil {
		return err
	}

	text := llm.Transcript(conversation)
	if roleplaySaveTo != "" {
		err = report.WriteMarkdown(text, roleplaySaveTo)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Transcript written to %s\n", roleplaySaveTo)
	}

	if !roleplayGrade {
		return err
	}

	parsed := transcript.Parse(text)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	err = gradeAndReport(ctx, cfg, gradeJob{
		kind:     llm.SourceRoleplay,
		source:   "roleplay",
		text:     text,
		stats:    parsed.Stats(),
		prospect: prospect,
		name:     setup.Name,
		offer:    setup.Offer,
		profile:  &setup.Profile,
	})
	return err
}

// roleplaySetup builds the simulated prospect from the library or flags.
func roleplaySetup(cmd *cobra.Command) (setup llm.RoleplaySetup, prospect *prospects.Prospect, err error) {
	var profile difficulty.Profile
	profile, prospect, err = resolveProfile(cmd, roleplayProspectID)
	if err != nil {
		return setup, prospect, err
	}

	setup = llm.RoleplaySetup{
		Name:       roleplayName,
		Background: roleplayBackground,
		Offer:      roleplayOffer,
		Profile:    profile,
	}
	if prospect != nil {
		setup.Name = prospect.Name
		setup.Background = prospect.Background
		setup.PreviousObjections = prospect.PreviousObjections
		if setup.Offer == "" {
			setup.Offer = prospect.Offer
		}
	}

	seed := roleplaySeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewPCG(seed, seed>>1))

	var source *difficulty.Profile
	if !roleplayRandom {
		source = &profile
	}
	var drawn bool
	setup.Archetype, drawn = llm.ChooseArchetype(source, r)
	getLogger().Debug("archetype chosen", "archetype", string(setup.Archetype), "drawn", drawn)

	return setup, prospect, err
}

// converse runs the turn loop until /end or end of input.
func converse(ctx context.Context, rp *llm.Roleplay, in io.Reader) (conversation []llm.Message, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var opening string
	err = withSpinner("Dialing...", func() (oerr error) {
		opening, oerr = rp.Open(ctx)
		return oerr
	})
	if err != nil {
		return conversation, err
	}
	conversation = append(conversation, llm.Message{Role: llm.RoleAssistant, Content: opening})
	fmt.Printf("Prospect: %s\n\n", opening)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == endCommand {
			break
		}

		conversation = append(conversation, llm.Message{Role: llm.RoleUser, Content: line})

		var reply string
		err = withSpinner("", func() (terr error) {
			turnCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()
			reply, terr = rp.Turn(turnCtx, conversation)
			return terr
		})
		if err != nil {
			return conversation, err
		}
		conversation = append(conversation, llm.Message{Role: llm.RoleAssistant, Content: reply})
		fmt.Printf("Prospect: %s\n\n", reply)
	}

	err = scanner.Err()
	if err != nil {
		err = errors.Wrap(err, "failed to read input")
		return conversation, err
	}

	fmt.Println()
	return conversation, err
}
