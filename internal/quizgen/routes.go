package quizgen

import "github.com/go-chi/chi/v5"

func Routes(r chi.Router, h *Handler) {
	r.Post("/book/{bookId}/questions/generate", h.GenerateQuestions)
}
