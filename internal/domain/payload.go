package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// CorruptRecordError reports a JSON-in-column payload that fails to parse or
// validate.
type CorruptRecordError struct {
	Field string
	Raw   string
	Err   error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt %s payload: %v", e.Field, e.Err)
}

func (e *CorruptRecordError) Unwrap() error { return e.Err }

var optionsSchema = map[string]any{
	"type":     "array",
	"minItems": 1,
	"items": map[string]any{
		"type":     "object",
		"required": []any{"value", "label"},
		"properties": map[string]any{
			"value": map[string]any{"type": "string", "minLength": 1},
			"label": map[string]any{"type": "string"},
		},
	},
}

var scoreMappingSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": map[string]any{"type": "number"},
}

var aiResultSchema = map[string]any{
	"type":     "object",
	"required": []any{"summary", "disclaimer"},
	"properties": map[string]any{
		"summary":     map[string]any{"type": "string"},
		"suggestions": map[string]any{"type": "string"},
		"references":  map[string]any{"type": "string"},
		"disclaimer":  map[string]any{"type": "string", "minLength": 1},
		"rawText":     map[string]any{"type": "string"},
	},
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

func schemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		defs := map[string]map[string]any{
			"options":          optionsSchema,
			"scoreMapping":     scoreMappingSchema,
			"aiAnalysisResult": aiResultSchema,
		}
		c := jsonschema.NewCompiler()
		out := make(map[string]*jsonschema.Schema, len(defs))
		for name, def := range defs {
			// The compiler wants a parsed JSON value, not Go literals.
			b, err := json.Marshal(def)
			if err != nil {
				compileErr = err
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
			if err != nil {
				compileErr = err
				return
			}
			url := fmt.Sprintf("schema://%s.json", name)
			if err := c.AddResource(url, doc); err != nil {
				compileErr = err
				return
			}
			s, err := c.Compile(url)
			if err != nil {
				compileErr = fmt.Errorf("compile %s: %w", name, err)
				return
			}
			out[name] = s
		}
		compiled = out
	})
	return compiled, compileErr
}

// validate parses raw and validates it against the named schema, then
// decodes it into out.
func validate(field, raw string, out any) error {
	all, err := schemas()
	if err != nil {
		return &CorruptRecordError{Field: field, Raw: raw, Err: err}
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(raw)))
	if err != nil {
		return &CorruptRecordError{Field: field, Raw: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := all[field].Validate(doc); err != nil {
		return &CorruptRecordError{Field: field, Raw: raw, Err: err}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &CorruptRecordError{Field: field, Raw: raw, Err: err}
	}
	return nil
}

// ParseOptions decodes a question's options JSON.
func ParseOptions(raw string) ([]QuestionOption, error) {
	var opts []QuestionOption
	if err := validate("options", raw, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// ParseScoreMapping decodes a question's value→score JSON.
func ParseScoreMapping(raw string) (map[string]int, error) {
	var m map[string]float64
	if err := validate("scoreMapping", raw, &m); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = int(v)
	}
	return out, nil
}

// ParseAIAnalysisResult decodes a record's stored AI result.
func ParseAIAnalysisResult(raw string) (*AIAnalysisResult, error) {
	var r AIAnalysisResult
	if err := validate("aiAnalysisResult", raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// EncodeAIAnalysisResult is the inverse of ParseAIAnalysisResult.
func EncodeAIAnalysisResult(r AIAnalysisResult) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode AI analysis result: %w", err)
	}
	return string(b), nil
}

// EncodeOptions serialises options into the column format.
func EncodeOptions(opts []QuestionOption) string {
	b, _ := json.Marshal(opts)
	return string(b)
}

// EncodeScoreMapping serialises a score mapping into the column format.
func EncodeScoreMapping(m map[string]int) string {
	b, _ := json.Marshal(m)
	return string(b)
}

// PlaceholderOptions is the 2-option fallback for unreadable options.
func PlaceholderOptions() []QuestionOption {
	return []QuestionOption{
		{Value: "A", Label: "Option A"},
		{Value: "B", Label: "Option B"},
	}
}

// OptionsOrPlaceholder returns the parsed options, or PlaceholderOptions when
// the payload is corrupt. onCorrupt, when non-nil, receives the error.
func (q Question) OptionsOrPlaceholder(onCorrupt func(error)) []QuestionOption {
	opts, err := ParseOptions(q.Options)
	if err != nil {
		if onCorrupt != nil {
			onCorrupt(err)
		}
		return PlaceholderOptions()
	}
	return opts
}

// ScoreFor returns the score of choosing value. Unknown values and corrupt
// mappings score zero; onCorrupt receives the parse error.
func (q Question) ScoreFor(value string, onCorrupt func(error)) int {
	m, err := ParseScoreMapping(q.ScoreMapping)
	if err != nil {
		if onCorrupt != nil {
			onCorrupt(err)
		}
		return 0
	}
	return m[value]
}

// MaxScore is the highest score any option of q can give.
func (q Question) MaxScore() int {
	m, err := ParseScoreMapping(q.ScoreMapping)
	if err != nil {
		return 0
	}
	best := 0
	for _, v := range m {
		if v > best {
			best = v
		}
	}
	return best
}

// LabelFor returns the display label of value, or value itself when no
// option matches.
func LabelFor(opts []QuestionOption, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
