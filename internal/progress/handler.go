package progress

import (
	"errors"
	"net/http"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
)

type Handler struct {
	service ProgressService
}

func NewHandler(s ProgressService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) AssignBook(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto AssignBookDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		log.WithError(err).Warn("Invalid assign book body")
		http.Error(w, "user_id, book_id and group_id are required", http.StatusBadRequest)
		return
	}

	ub, err := h.service.AssignBook(r.Context(), userID, dto)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, ub)
}

func (h *Handler) PromoteWinner(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto PromoteDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		log.WithError(err).Warn("Invalid book history body")
		http.Error(w, "group_id and book_id are required", http.StatusBadRequest)
		return
	}

	hist, err := h.service.PromoteWinner(r.Context(), userID, dto.GroupID, dto.BookID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, hist)
}

func (h *Handler) AssignToMembers(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}
	bookID, ok := book.ParseBookID(w, r)
	if !ok {
		return
	}

	result, err := h.service.AssignToMembers(r.Context(), userID, groupID, bookID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, result)
}

func (h *Handler) UpdateRead(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto UpdateReadDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		http.Error(w, "book_id, group_id and read are required", http.StatusBadRequest)
		return
	}

	ub, err := h.service.MarkRead(r.Context(), userID, dto)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{"read": ub.Read})
}

func (h *Handler) UpdateLiked(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto UpdateLikedDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		http.Error(w, "book_id, group_id and liked are required", http.StatusBadRequest)
		return
	}

	ub, err := h.service.SetLiked(r.Context(), userID, dto)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{"liked": ub.Liked})
}

func (h *Handler) ListReaders(w http.ResponseWriter, r *http.Request) {
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}
	bookID, ok := book.ParseBookID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Readers(r.Context(), groupID, bookID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) ListLikers(w http.ResponseWriter, r *http.Request) {
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}
	bookID, ok := book.ParseBookID(w, r)
	if !ok {
		return
	}

	likers, err := h.service.Likers(r.Context(), groupID, bookID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, likers)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}
	bookID, ok := book.ParseBookID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.State(r.Context(), groupID, bookID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotAssigned):
		http.Error(w, "book is not assigned to you in this group", http.StatusNotFound)
	case errors.Is(err, ErrNotPromoted):
		http.Error(w, "book has not been added to the group history", http.StatusConflict)
	case errors.Is(err, ErrNotAMember):
		http.Error(w, "user is not a member of this group", http.StatusBadRequest)
	default:
		book.WriteError(w, r, err)
	}
}
