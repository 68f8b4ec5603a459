package user

import "github.com/go-chi/chi/v5"

func PublicRoutes(r chi.Router, h *Handler) {
	r.Post("/login", h.Login)
	r.Post("/user", h.Register)
}

func Routes(r chi.Router, h *Handler) {
	r.Get("/loggedInUser", h.LoggedInUser)
	r.Get("/user/{userId}", h.GetUser)
	r.Patch("/update-level", h.UpdateLevel)
	r.Patch("/update-profile-picture", h.UpdateProfilePicture)
	r.Patch("/update-bio", h.UpdateBio)
}
