package quizgen

import "github.com/JoachimHamraoui/bibliomania/internal/quiz"

// Draft is a generated multiple choice question awaiting review.
type Draft struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type GenerateRequest struct {
	Count      int    `json:"count" validate:"omitempty,min=1,max=10"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Save       bool   `json:"save"`
}

type GenerateResponse struct {
	Drafts []Draft          `json:"drafts"`
	Saved  []*quiz.Question `json:"saved,omitempty"`
}
