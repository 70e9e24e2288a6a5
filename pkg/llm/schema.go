package llm

import (
	"fmt"
	"strings"

	"github.com/closepro/closepro/pkg/rubric"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError lists every field of a model reply that failed the
// analysis schema.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("analysis failed schema validation:\n")
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// analysisSchema describes the JSON the grading model must return. Score
// ranges are not enforced here; the normalizer clamps them.
func analysisSchema() (schema map[string]any) {
	phaseProps := map[string]any{}
	for _, p := range rubric.CallOrder {
		phaseProps[string(p)] = map[string]any{
			"type":     "object",
			"required": []string{"score"},
			"properties": map[string]any{
				"score":          map[string]any{"type": "number"},
				"caps_triggered": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"notes":          map[string]any{"type": "string"},
			},
		}
	}

	stringList := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}

	schema = map[string]any{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []string{"overall_score", "phase_scores", "category_scores", "summary"},
		"properties": map[string]any{
			"overall_score": map[string]any{"type": "number"},
			"phase_scores": map[string]any{
				"type":                 "object",
				"properties":           phaseProps,
				"additionalProperties": false,
				"minProperties":        1,
			},
			"category_scores": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "number"},
			},
			"strengths": stringList,
			"recommendations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"category", "action"},
					"properties": map[string]any{
						"category": map[string]any{"type": "string"},
						"priority": map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
						"action":   map[string]any{"type": "string", "minLength": 1},
						"example":  map[string]any{"type": "string"},
					},
				},
			},
			"objections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"kind", "outcome"},
					"properties": map[string]any{
						"kind":     map[string]any{"type": "string"},
						"quote":    map[string]any{"type": "string"},
						"outcome":  map[string]any{"type": "string"},
						"feedback": map[string]any{"type": "string"},
					},
				},
			},
			"summary": map[string]any{"type": "string"},
		},
	}
	return schema
}

// validateAnalysis checks a cleaned reply against the analysis schema.
func validateAnalysis(doc string) (err error) {
	var result *gojsonschema.Result
	result, err = gojsonschema.Validate(
		gojsonschema.NewGoLoader(analysisSchema()),
		gojsonschema.NewStringLoader(doc),
	)
	if err != nil {
		err = errors.Wrap(err, "failed to run analysis schema")
		return err
	}

	if result.Valid() {
		return err
	}

	verr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}

	err = verr
	return err
}
