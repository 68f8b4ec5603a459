package progress

import "github.com/go-chi/chi/v5"

func Routes(r chi.Router, h *Handler) {
	r.Post("/user/book", h.AssignBook)
	r.Post("/group/book/history", h.PromoteWinner)
	r.Post("/group/{groupId}/book/{bookId}/assign", h.AssignToMembers)
	r.Patch("/update-read", h.UpdateRead)
	r.Patch("/update-liked", h.UpdateLiked)
	r.Get("/group/{groupId}/book/{bookId}/read", h.ListReaders)
	r.Get("/group/{groupId}/book/{bookId}/likes", h.ListLikers)
	r.Get("/group/{groupId}/book/{bookId}/status", h.GetStatus)
}
