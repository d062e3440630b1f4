package aiquiz

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// candidateJSON returns the body of the first ```json fenced block in raw, or
// raw itself when there is none.
func candidateJSON(raw string) string {
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

// ExtractQuestions turns a free-form model reply into questions. It fails with
// a *ParseError wrapping ErrUnparsable when the candidate is not JSON and
// ErrMalformed when the JSON does not have the quiz shape. Question count and
// answer/label consistency are left to the caller.
func ExtractQuestions(raw string) ([]Question, error) {
	candidate := strings.TrimSpace(candidateJSON(raw))

	if candidate == "" || !json.Valid([]byte(candidate)) {
		return nil, &ParseError{Kind: ErrUnparsable, Detail: "reply is not valid JSON", Raw: raw}
	}
	if candidate[0] != '[' {
		return nil, &ParseError{Kind: ErrMalformed, Detail: "reply is not a JSON array", Raw: raw}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil, &ParseError{Kind: ErrMalformed, Detail: err.Error(), Raw: raw}
	}

	questions := make([]Question, 0, len(items))
	for i, item := range items {
		q, err := decodeQuestion(item)
		if err != nil {
			return nil, &ParseError{Kind: ErrMalformed, Detail: fmt.Sprintf("item %d: %v", i, err), Raw: raw}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func decodeQuestion(item json.RawMessage) (Question, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return Question{}, fmt.Errorf("not an object")
	}

	text, err := requiredText(fields, "question")
	if err != nil {
		return Question{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Question{}, fmt.Errorf("empty question")
	}

	kind, err := requiredText(fields, "type")
	if err != nil {
		return Question{}, err
	}
	qType := QuestionType(strings.ToLower(strings.TrimSpace(kind)))
	if !qType.IsValid() {
		return Question{}, fmt.Errorf("unknown type %q", kind)
	}

	answer, err := requiredText(fields, "answer")
	if err != nil {
		return Question{}, err
	}

	q := Question{Question: text, Type: qType, Answer: answer}
	if qType == MultipleChoice {
		rawOpts, ok := fields["options"]
		if !ok {
			return Question{}, fmt.Errorf("multiple_choice question without options")
		}
		var opts Options
		if err := json.Unmarshal(rawOpts, &opts); err != nil {
			return Question{}, fmt.Errorf("options: %v", err)
		}
		if len(opts) == 0 {
			return Question{}, fmt.Errorf("multiple_choice question without options")
		}
		q.Options = opts
	}
	return q, nil
}

func requiredText(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("missing %q", key)
	}
	text, ok := scalarText(raw)
	if !ok {
		return "", fmt.Errorf("%q is not a text value", key)
	}
	return text, nil
}
