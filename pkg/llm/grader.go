package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/closepro/closepro/pkg/rubric"
	"github.com/pkg/errors"
)

// Grader scores transcripts with a model instance that only grades.
type Grader struct {
	client     Completer
	model      string
	kb         *rubric.KnowledgeBase
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewGrader creates a grader. A nil rubric uses the embedded default and a
// nil logger discards output.
func NewGrader(client Completer, model string, kb *rubric.KnowledgeBase, logger *slog.Logger) (grader *Grader, err error) {
	if client == nil {
		err = errors.New("a model client is required")
		return grader, err
	}
	if kb == nil {
		kb = rubric.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	grader = &Grader{
		client:     client,
		model:      model,
		kb:         kb,
		normalizer: NewNormalizer(kb),
		logger:     logger,
	}
	return grader, err
}

// Grade sends the transcript with the rubric and returns the normalized result.
func (g *Grader) Grade(ctx context.Context, req GradeRequest) (result AnalysisResult, err error) {
	if strings.TrimSpace(req.Transcript) == "" {
		err = errors.New("transcript is empty")
		return result, err
	}

	if req.Prospect != nil {
		err = req.Prospect.Validate()
		if err != nil {
			err = errors.Wrap(err, "invalid prospect profile")
			return result, err
		}
	}

	log := g.logger.With("rubric", g.kb.Identity(), "kind", string(req.Kind))
	log.Debug("grading transcript", "chars", len(req.Transcript))

	var reply string
	reply, err = g.client.Complete(ctx, buildGradingSystemPrompt(g.kb), []Message{
		{Role: RoleUser, Content: buildGradingPrompt(req)},
	})
	if err != nil {
		err = errors.Wrap(err, "failed to call grading model")
		return result, err
	}

	var raw RawAnalysis
	raw, err = g.parse(reply, log)
	if err != nil {
		return result, err
	}

	result = g.normalizer.Normalize(raw, req.Prospect)
	result.Model = g.model

	for _, fix := range result.Fixes {
		log.Info("normalized grade", "fix", fix)
	}
	for _, w := range result.Warnings {
		log.Warn("grade warning", "warning", w)
	}

	return result, err
}

func (g *Grader) parse(reply string, log *slog.Logger) (raw RawAnalysis, err error) {
	var doc string
	var repaired bool
	doc, repaired, err = cleanJSON(reply)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse grading response\nResponse: %s", reply)
		return raw, err
	}
	if repaired {
		log.Warn("grading response needed JSON repair")
	}

	var coerced []string
	doc, coerced, err = coerceNumbers(doc)
	if err != nil {
		return raw, err
	}
	if len(coerced) > 0 {
		log.Debug("coerced quoted numbers", "paths", coerced)
	}

	err = validateAnalysis(doc)
	if err != nil {
		return raw, err
	}

	err = json.Unmarshal([]byte(doc), &raw)
	if err != nil {
		err = errors.Wrap(err, "failed to decode grading response")
		return raw, err
	}

	return raw, err
}
