package aiquiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type QuestionType string

const (
	MultipleChoice     QuestionType = "multiple_choice"
	RestrictedResponse QuestionType = "restricted_response"
)

func (t QuestionType) IsValid() bool {
	return t == MultipleChoice || t == RestrictedResponse
}

type Format string

const (
	FormatMultipleChoice     Format = "multiple_choice"
	FormatRestrictedResponse Format = "restricted_response"
	FormatMixed              Format = "mixed"
)

var AllFormats = []Format{
	FormatMultipleChoice,
	FormatRestrictedResponse,
	FormatMixed,
}

func (f Format) IsValid() bool {
	for _, v := range AllFormats {
		if f == v {
			return true
		}
	}
	return false
}

type Option struct {
	Label string
	Text  string
}

// Options keeps the labels in the order the model emitted them, which is the
// display order. On the wire it is a plain JSON object.
type Options []Option

func (o Options) Lookup(label string) (string, bool) {
	for _, opt := range o {
		if opt.Label == label {
			return opt.Text, true
		}
	}
	return "", false
}

func (o Options) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(opt.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(opt.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Options) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("options must be a JSON object")
	}

	out := Options{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		text, ok := scalarText(raw)
		if !ok {
			return fmt.Errorf("option %q is not a text value", label)
		}
		out = append(out, Option{Label: label, Text: text})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

type Question struct {
	Question string       `json:"question"`
	Type     QuestionType `json:"type"`
	Options  Options      `json:"options,omitempty" swaggertype:"object,string"`
	Answer   string       `json:"answer"`
}

type Settings struct {
	NumQuestions     int    `json:"numQuestions" validate:"gt=0"`
	TimeLimitMinutes int    `json:"timeLimitMinutes" validate:"gt=0"`
	QuestionFormat   Format `json:"questionFormat" validate:"required,oneof=multiple_choice restricted_response mixed"`
	Language         string `json:"language" validate:"required"`
}

func DefaultSettings() Settings {
	return Settings{
		NumQuestions:     5,
		TimeLimitMinutes: 10,
		QuestionFormat:   FormatMixed,
		Language:         "Spanish",
	}
}

// Validate rejects out-of-range settings; nothing is clamped.
func (s Settings) Validate() error {
	switch {
	case s.NumQuestions <= 0:
		return fmt.Errorf("%w: number of questions must be positive", ErrInvalidSettings)
	case s.TimeLimitMinutes <= 0:
		return fmt.Errorf("%w: time limit must be positive", ErrInvalidSettings)
	case strings.TrimSpace(s.Language) == "":
		return fmt.Errorf("%w: language cannot be empty", ErrInvalidSettings)
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, err.Error())
	}
	return nil
}

func (s Settings) Request(inputText string) GenerateRequest {
	return GenerateRequest{
		InputText:      inputText,
		NumQuestions:   s.NumQuestions,
		QuestionFormat: s.QuestionFormat,
		Language:       s.Language,
	}
}

type GenerateRequest struct {
	InputText      string `json:"inputText" validate:"required"`
	NumQuestions   int    `json:"numQuestions" validate:"required,gt=0"`
	QuestionFormat Format `json:"questionFormat" validate:"required,oneof=multiple_choice restricted_response mixed"`
	Language       string `json:"language" validate:"required"`
}

func (r GenerateRequest) Validate() error {
	if strings.TrimSpace(r.InputText) == "" || strings.TrimSpace(r.Language) == "" {
		return ErrInvalidRequest
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}
	return nil
}

type GenerationConfig struct {
	Model           string
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
}

// DefaultGenerationConfig leans deterministic: low temperature, greedy top-k and
// no nucleus truncation.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Model:           "gemini-2.0-flash",
		Temperature:     0.2,
		TopK:            1,
		TopP:            1,
		MaxOutputTokens: 8192,
	}
}

// scalarText renders a JSON string, number or boolean as text.
func scalarText(raw json.RawMessage) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
