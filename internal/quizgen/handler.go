package quizgen

import (
	"errors"
	"net/http"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/quiz"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	bookID, ok := book.ParseBookID(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := config.DecodeAndValidate(r, &req); err != nil && !errors.Is(err, config.ErrEmptyBody) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Generate(r.Context(), userID, bookID, req)
	if err != nil {
		if errors.Is(err, ErrGeneratorDisabled) {
			http.Error(w, "question generation is not available", http.StatusServiceUnavailable)
			return
		}
		log.WithError(err).Warn("Question generation failed")
		quiz.WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, resp)
}
