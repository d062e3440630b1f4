package aiquiz

import (
	"fmt"
	"strings"
)

const exampleQuiz = "```json\n" + `[
  {
    "question": "What is the capital of France?",
    "type": "multiple_choice",
    "options": { "A": "Berlin", "B": "Madrid", "C": "Paris", "D": "Rome" },
    "answer": "C"
  },
  {
    "question": "Explain photosynthesis.",
    "type": "restricted_response",
    "answer": "Conversion of light energy into chemical energy."
  }
]` + "\n```"

func formatInstruction(f Format) string {
	switch f {
	case FormatMultipleChoice:
		return "Ensure all questions are multiple_choice type."
	case FormatRestrictedResponse:
		return "Ensure all questions are restricted_response type."
	default:
		return "Include a mix of multiple_choice and restricted_response questions if possible."
	}
}

// BuildPrompt assembles the single instruction block sent to the model. The
// source text is embedded verbatim.
func BuildPrompt(req GenerateRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a quiz in %s based on the following text.\n", req.Language)
	fmt.Fprintf(&b, "The quiz should have exactly %d questions.\n", req.NumQuestions)
	b.WriteString(formatInstruction(req.QuestionFormat))
	b.WriteString("\nFor each question, provide:\n")
	b.WriteString("1. The question text.\n")
	b.WriteString("2. The type of question ('multiple_choice' or 'restricted_response').\n")
	fmt.Fprintf(&b, "3. If 'multiple_choice', provide 3-4 distinct options labeled A, B, C, D (or equivalent in %s).\n", req.Language)
	fmt.Fprintf(&b, "4. The correct answer. For 'multiple_choice', provide the letter of the correct option (e.g., 'A'). For 'restricted_response', provide a concise correct answer in %s.\n\n", req.Language)
	b.WriteString("Output the quiz strictly in JSON format as a single list of objects, where each object represents a question. ")
	b.WriteString(`Use English for the JSON keys ("question", "type", "options", "answer") regardless of the quiz language. Example format:`)
	b.WriteString("\n")
	b.WriteString(exampleQuiz)
	b.WriteString("\n\nHere is the text:\n---\n")
	b.WriteString(req.InputText)
	b.WriteString("\n---\n")

	return b.String()
}
