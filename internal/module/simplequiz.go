package module

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

type quizQuestion struct {
	Text    string       `json:"text"`
	Answers []quizAnswer `json:"answers"`
}

type quizAnswer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// SimpleQuizRenderer renders simple quizzes as a printable question sheet.
// Correct answers are not marked.
type SimpleQuizRenderer struct{}

// Type implements Renderer.
func (SimpleQuizRenderer) Type() string { return "simplequiz" }

// Render numbers each question and labels its answers A, B, C...
func (SimpleQuizRenderer) Render(ctx context.Context, env Env, act Activity) (string, error) {
	quiz, err := env.Data.SimpleQuiz(ctx, act.Instance)
	if err != nil {
		return "", fmt.Errorf("simplequiz %d: %w", act.Instance, err)
	}
	questions, err := parseQuestions(quiz.Questions)
	if err != nil {
		return "", fmt.Errorf("simplequiz %d: %w", act.Instance, err)
	}

	var b strings.Builder
	b.WriteString(`<div class="simplequiz">`)
	for i, q := range questions {
		fmt.Fprintf(&b, `<div class="question"><p><strong>Question %d:</strong> %s</p>`, i+1, html.EscapeString(q.Text))
		if len(q.Answers) == 0 {
			b.WriteString("<p><em>No options available.</em></p>")
		} else {
			b.WriteString(`<ul class="answers">`)
			for j, a := range q.Answers {
				fmt.Fprintf(&b, "<li><strong>%s.</strong> %s</li>", answerLabel(j), html.EscapeString(a.Text))
			}
			b.WriteString("</ul>")
		}
		b.WriteString("</div>")
	}
	b.WriteString("</div>")
	return b.String(), nil
}

// parseQuestions decodes the stored questions document. It must be a JSON
// array; null and objects are rejected.
func parseQuestions(raw string) ([]quizQuestion, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, ErrInvalidQuestions
	}
	var questions []quizQuestion
	if err := json.Unmarshal([]byte(trimmed), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuestions, err)
	}
	return questions, nil
}

// answerLabel returns A..Z, then AA, AB... for long answer lists.
func answerLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return answerLabel(i/26-1) + string(rune('A'+i%26))
}
