package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `
You write reading comprehension questions for a school book club app.

Rules:
1. Ask only about the plot, characters, themes and setting of the given book.
2. Every question has exactly one correct option.
3. Give 4 options of similar length and structure; the correct one must not stand out.
4. Never reveal the answer in the question text.
5. Match the requested difficulty:
   - easy: facts stated plainly in the book.
   - medium: interpretation of events or motives.
   - hard: connections between themes, events or characters.

Reply with pure JSON, no text around it, in this shape:

[
  {
    "question": "<question text>",
    "options": ["<option>", "<option>", "<option>", "<option>"],
    "answer": "<the correct option, copied exactly>"
  }
]
`

const (
	defaultCount = 3
	maxCount     = 10
)

func BuildUserPrompt(title, author string, req GenerateRequest) string {
	count := req.Count
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write %d %s questions about the book %q", count, difficulty, title)
	if author != "" {
		fmt.Fprintf(&b, " by %s", author)
	}
	b.WriteString(". Follow the format from the system instructions.")
	return b.String()
}
