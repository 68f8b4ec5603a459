package vote

import "github.com/go-chi/chi/v5"

func Routes(r chi.Router, h *Handler) {
	r.Post("/vote", h.OpenVote)
	r.Post("/vote/group/book", h.CastBallot)
	r.Get("/vote/{voteId}", h.GetVote)
	r.Patch("/vote/{voteId}/end", h.CloseVote)
	r.Get("/group/{groupId}/ongoing-vote", h.OngoingVote)
	r.Get("/group/{groupId}/last-vote", h.LastVote)
}
