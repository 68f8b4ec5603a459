package book

import "github.com/go-chi/chi/v5"

func Routes(r chi.Router, h *Handler) {
	r.Post("/group/{groupId}/book", h.AddBook)
	r.Get("/book/{bookId}", h.GetBook)
	r.Get("/group/{groupId}/books", h.ListBooks)
	r.Get("/group/{groupId}/remaining-books", h.ListRemaining)
	r.Get("/group/{groupId}/book_history", h.ListHistory)
	r.Post("/book/comment", h.AddComment)
	r.Get("/group/{groupId}/book/{bookId}/comments", h.ListComments)
}
