package book

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
)

type Handler struct {
	service BookService
}

func NewHandler(s BookService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) AddBook(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}

	var dto CreateBookDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		log.WithError(err).Warn("Invalid add book body")
		http.Error(w, "title and author are required", http.StatusBadRequest)
		return
	}

	b, err := h.service.AddBook(r.Context(), userID, groupID, dto)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, b)
}

func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := ParseBookID(w, r)
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), bookID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, b)
}

func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}

	books, err := h.service.ListByGroup(r.Context(), groupID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, books)
}

func (h *Handler) ListRemaining(w http.ResponseWriter, r *http.Request) {
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}

	books, err := h.service.Remaining(r.Context(), groupID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{"remainingBooks": books})
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}

	entries, err := h.service.History(r.Context(), groupID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, entries)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto CreateCommentDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		log.WithError(err).Warn("Invalid comment body")
		http.Error(w, "group_id, book_id and a comment of at most 280 characters are required", http.StatusBadRequest)
		return
	}

	c, err := h.service.AddComment(r.Context(), userID, dto)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, c)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}
	bookID, ok := ParseBookID(w, r)
	if !ok {
		return
	}

	comments, err := h.service.ListComments(r.Context(), userID, groupID, bookID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, comments)
}

// ParseBookID reads the {bookId} URL parameter, replying 400 when it is not a uuid.
func ParseBookID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "bookId"))
	if err != nil {
		http.Error(w, "invalid book id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// WriteError maps book and group errors to a response; anything unknown is a logged 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrBookNotFound):
		http.Error(w, "book not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrBookNotInGroup):
		http.Error(w, "book not found in this group", http.StatusNotFound)
		return
	}
	if status, msg, ok := group.ErrorStatus(err); ok {
		http.Error(w, msg, status)
		return
	}
	config.WithContext(r.Context()).WithError(err).Error("Book request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
