package group

import "github.com/go-chi/chi/v5"

func Routes(r chi.Router, h *Handler) {
	r.Post("/group", h.CreateGroup)
	r.Get("/group/find/{code}", h.FindByCode)
	r.Get("/group/{groupId}", h.GetGroup)
	r.Get("/group/{groupId}/users", h.ListMembers)
	r.Get("/student/groups", h.ListStudentGroups)
	r.Get("/teacher/created-groups", h.ListCreatedGroups)
	r.Post("/user/group", h.JoinGroup)
}
