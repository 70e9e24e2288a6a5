package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/closepro/closepro/pkg/config"
	"github.com/closepro/closepro/pkg/difficulty"
	"github.com/closepro/closepro/pkg/history"
	"github.com/closepro/closepro/pkg/llm"
	"github.com/closepro/closepro/pkg/prospects"
	"github.com/closepro/closepro/pkg/report"
	"github.com/closepro/closepro/pkg/rubric"
	"github.com/closepro/closepro/pkg/transcript"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	gradeProspectID   string
	gradeProspectName string
	gradeOffer        string
	gradeRepNames     []string
	gradeRoleplay     bool
	gradeNoSave       bool
	gradeNoHistory    bool
	gradePDF          string
	gradeKeepMarkdown bool
	gradeJSON         bool
	gradePlain        bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var gradeCmd = &cobra.Command{
	Use:   "grade <transcript-file-or-url>",
	Short: "Grade a sales call transcript against the rubric",
	Long: `Grades a call transcript with Claude against the five-phase rubric.

The transcript may be a local file or a URL (HTML pages are stripped to text).
Lines like "Rep: ..." / "Prospect: ...", timestamped lines and WebVTT voice
tags are recognized; use --rep to name the rep's speaker label.

The model's phase scores are clamped, score caps are applied and the overall
score is recomputed from the phase weights. The result is saved to the
history directory unless --no-save is given, and earlier sessions feed
coaching context into the grade unless --no-history is given.

Examples:
  closepro grade call.txt --rep Alex
  closepro grade call.vtt --prospect dana --pdf reviews/dana.pdf
  closepro grade https://example.com/calls/42 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGrade,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(gradeCmd)
	gradeCmd.Flags().StringVar(&gradeProspectID, "prospect", "", "Prospect id from the library, for difficulty context")
	gradeCmd.Flags().StringVar(&gradeProspectName, "name", "", "Prospect name (default from the library)")
	gradeCmd.Flags().StringVar(&gradeOffer, "offer", "", "What was being sold (default from the library)")
	gradeCmd.Flags().StringSliceVar(&gradeRepNames, "rep", nil, "Speaker labels that belong to the rep")
	gradeCmd.Flags().BoolVar(&gradeRoleplay, "roleplay", false, "Grade as a practice roleplay rather than a real call")
	gradeCmd.Flags().BoolVar(&gradeNoSave, "no-save", false, "Do not save the result to history")
	gradeCmd.Flags().BoolVar(&gradeNoHistory, "no-history", false, "Do not use earlier sessions as coaching context")
	gradeCmd.Flags().StringVar(&gradePDF, "pdf", "", "Also write the report as a PDF to this path")
	gradeCmd.Flags().BoolVar(&gradeKeepMarkdown, "keep-markdown", false, "Keep the markdown file after PDF generation")
	gradeCmd.Flags().BoolVar(&gradeJSON, "json", false, "Print the analysis as JSON instead of a report")
	gradeCmd.Flags().BoolVar(&gradePlain, "plain", false, "Render the report without colors")
}

// gradeJob is one transcript on its way to a saved, rendered grade.
type gradeJob struct {
	kind     llm.SourceKind
	source   string
	text     string
	stats    transcript.Stats
	prospect *prospects.Prospect
	name     string
	offer    string
	profile  *difficulty.Profile
}

func runGrade(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	if getVerbose() {
		fmt.Printf("Loading transcript from: %s\n", args[0])
	}

	var raw string
	raw, err = transcript.FetchWithContext(ctx, args[0])
	if err != nil {
		err = errors.Wrap(err, "failed to load transcript")
		return err
	}

	job := newGradeJob(args[0], raw, gradeRepNames, gradeRoleplay)
	job.name = gradeProspectName
	job.offer = gradeOffer

	if getVerbose() {
		fmt.Printf("Transcript parsed: %d turns, rep talk share %.0f%%\n", job.stats.Turns, job.stats.RepTalkRatio*100)
	}

	if gradeProspectID != "" {
		var p prospects.Prospect
		p, err = findProspect(gradeProspectID)
		if err != nil {
			return err
		}
		job.prospect = &p
	}

	err = gradeAndReport(ctx, cfg, job)
	return err
}

// newGradeJob parses a raw transcript. Parsed turns are sent to the grader
// with the preamble in front; unparseable text is sent as is.
func newGradeJob(source, raw string, repNames []string, roleplay bool) (job gradeJob) {
	parsed := transcript.Parse(raw, repNames...)
	parsed.AssignTwoParty()

	job = gradeJob{
		kind:   llm.SourceCall,
		source: source,
		text:   raw,
		stats:  parsed.Stats(),
	}
	if len(parsed.Turns) > 0 {
		job.text = parsed.String()
	}
	if roleplay {
		job.kind = llm.SourceRoleplay
	}
	return job
}

// gradeAndReport grades a transcript, saves it and prints the report.
func gradeAndReport(ctx context.Context, cfg config.Config, job gradeJob) (err error) {
	client := llm.NewClient(cfg.AnthropicAPIKey, cfg.GetGradingModel())

	var rec *history.Record
	rec, err = gradeJobWith(ctx, cfg, client, job)
	if err != nil {
		return err
	}

	err = printResult(ctx, cfg, rec)
	return err
}

// gradeJobWith grades a transcript with the given model client and saves
// the result unless saving is turned off.
func gradeJobWith(ctx context.Context, cfg config.Config, client llm.Completer, job gradeJob) (rec *history.Record, err error) {
	if job.prospect != nil {
		profile := job.prospect.Profile()
		job.profile = &profile
		if job.name == "" {
			job.name = job.prospect.Name
		}
		if job.offer == "" {
			job.offer = job.prospect.Offer
		}
	}

	var store *history.Store
	store, err = history.NewStore(cfg.Defaults.HistoryDir, getLogger())
	if err != nil {
		return rec, err
	}

	req := llm.GradeRequest{
		Kind:         job.kind,
		Transcript:   job.text,
		ProspectName: job.name,
		Offer:        job.offer,
		Prospect:     job.profile,
	}
	if !gradeNoHistory {
		req.History = historyContext(store, job.prospect, cfg.Defaults.HistoryWindow)
	}

	var grader *llm.Grader
	grader, err = llm.NewGrader(client, cfg.GetGradingModel(), rubric.Default(), getLogger())
	if err != nil {
		err = errors.Wrap(err, "failed to create grader")
		return rec, err
	}

	var analysis llm.AnalysisResult
	err = withSpinner("Grading call...", func() (gerr error) {
		analysis, gerr = grader.Grade(ctx, req)
		return gerr
	})
	if err != nil {
		return rec, err
	}

	rec = &history.Record{
		Kind:         job.kind,
		Source:       job.source,
		ProspectName: job.name,
		Stats:        job.stats,
		Analysis:     analysis,
	}
	if job.prospect != nil {
		rec.ProspectID = job.prospect.ID
	}

	if !gradeNoSave {
		var path string
		path, err = store.Save(rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save result to history: %v\n", err)
			err = nil
		} else if getVerbose() {
			fmt.Printf("✓ Saved result to %s\n", path)
		}
	}

	return rec, err
}

// historyContext formats earlier sessions for the grading prompt. Failures
// only cost the context, never the grade.
func historyContext(store *history.Store, prospect *prospects.Prospect, window int) (text string) {
	prospectID := ""
	if prospect != nil {
		prospectID = prospect.ID
	}

	hc, err := history.NewRetriever(store).Retrieve(prospectID, window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history retrieval failed: %v\n", err)
		return text
	}

	if getVerbose() && hc.Sessions > 0 {
		fmt.Printf("Using %d earlier sessions as coaching context\n", hc.Sessions)
	}

	text = history.FormatForPrompt(hc)
	return text
}

func printResult(ctx context.Context, cfg config.Config, rec *history.Record) (err error) {
	if gradeJSON {
		var data []byte
		data, err = json.MarshalIndent(rec, "", "  ")
		if err != nil {
			err = errors.Wrap(err, "failed to marshal result")
			return err
		}
		fmt.Println(string(data))
	} else {
		err = renderReport(rec, gradePlain)
		if err != nil {
			return err
		}
	}

	if gradePDF != "" {
		opts := report.PDFOptions{TemplatePath: cfg.Pandoc.TemplatePath, ClassPath: cfg.Pandoc.ClassFile}
		err = withSpinner("Rendering PDF...", func() error {
			return report.WritePDF(ctx, report.Markdown(rec), gradePDF, opts, gradeKeepMarkdown)
		})
		if err != nil {
			err = errors.Wrap(err, "failed to render PDF")
			return err
		}
		fmt.Printf("✓ PDF written to %s\n", gradePDF)
	}

	return err
}

func renderReport(rec *history.Record, plain bool) (err error) {
	var out string
	out, err = report.RenderTerminal(report.Markdown(rec), report.DefaultWidth, plain)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return err
}
