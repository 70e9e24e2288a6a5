package llm

import (
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// stripMarkdownCodeFences removes a ```json or bare ``` fence wrapping the reply.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = strings.TrimSpace(text)

	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// Drop the opening fence line, whatever language tag it carries.
	nl := strings.IndexByte(cleaned, '\n')
	if nl < 0 {
		cleaned = strings.Trim(cleaned, "`")
		return cleaned
	}
	cleaned = cleaned[nl+1:]

	cleaned = strings.TrimRight(cleaned, " \r\n")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimRight(cleaned, " \r\n")

	return cleaned
}

// extractObject trims any prose before the first '{' and after the last '}'.
func extractObject(text string) (object string) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		object = text
		return object
	}
	object = text[start : end+1]
	return object
}

// cleanJSON turns a raw model reply into a syntactically valid JSON object.
// Replies that are not valid JSON after trimming are passed through
// jsonrepair. repaired reports whether that was needed.
func cleanJSON(reply string) (cleaned string, repaired bool, err error) {
	cleaned = extractObject(stripMarkdownCodeFences(reply))

	if cleaned == "" {
		err = errors.New("model reply contained no JSON")
		return cleaned, repaired, err
	}

	if gjson.Valid(cleaned) {
		return cleaned, repaired, err
	}

	var fixed string
	fixed, err = jsonrepair.JSONRepair(cleaned)
	if err != nil {
		err = errors.Wrap(err, "model reply is not valid JSON and could not be repaired")
		return cleaned, repaired, err
	}

	if !gjson.Valid(fixed) || !gjson.Parse(fixed).IsObject() {
		err = errors.New("repaired model reply is not a JSON object")
		return cleaned, repaired, err
	}

	cleaned = fixed
	repaired = true
	return cleaned, repaired, err
}

// coerceNumbers rewrites quoted numeric scores ("7", "82.5") as JSON numbers
// so the reply decodes into typed fields. It returns the paths it changed.
func coerceNumbers(doc string) (coerced string, paths []string, err error) {
	coerced = doc

	candidates := []string{"overall_score"}

	gjson.Get(doc, "phase_scores").ForEach(func(key, _ gjson.Result) bool {
		candidates = append(candidates, "phase_scores."+escapePath(key.String())+".score")
		return true
	})
	gjson.Get(doc, "category_scores").ForEach(func(key, _ gjson.Result) bool {
		candidates = append(candidates, "category_scores."+escapePath(key.String()))
		return true
	})

	for _, path := range candidates {
		value := gjson.Get(coerced, path)
		if value.Type != gjson.String {
			continue
		}

		n, parseErr := strconv.ParseFloat(strings.TrimSpace(value.Str), 64)
		if parseErr != nil {
			continue
		}

		coerced, err = sjson.Set(coerced, path, n)
		if err != nil {
			err = errors.Wrapf(err, "failed to rewrite %s", path)
			return doc, nil, err
		}
		paths = append(paths, path)
	}

	return coerced, paths, err
}

func escapePath(key string) (escaped string) {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	escaped = r.Replace(key)
	return escaped
}
