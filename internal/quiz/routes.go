package quiz

import "github.com/go-chi/chi/v5"

func Routes(r chi.Router, h *Handler) {
	r.Post("/book/{bookId}/question", h.AddQuestion)
	r.Post("/question/{questionId}/option", h.AddOption)
	r.Get("/book/{bookId}/questions", h.ListBookQuestions)
	r.Get("/question/{questionId}", h.GetQuestion)
	r.Post("/user/answer", h.RecordAnswer)
	r.Get("/book/{bookId}/quiz-progress", h.QuizProgress)
}
