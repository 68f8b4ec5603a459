package quiz

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
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

	var dto CreateQuestionDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		log.WithError(err).Warn("Invalid question body")
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	q, err := h.service.AddQuestion(r.Context(), userID, bookID, dto)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) AddOption(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	questionID, ok := parseQuestionID(w, r)
	if !ok {
		return
	}

	var dto CreateOptionDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		http.Error(w, "option is required", http.StatusBadRequest)
		return
	}

	o, err := h.service.AddOption(r.Context(), userID, questionID, dto)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, o)
}

func (h *Handler) ListBookQuestions(w http.ResponseWriter, r *http.Request) {
	bookID, ok := book.ParseBookID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ListBookQuestions(r.Context(), bookID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, ok := parseQuestionID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.QuestionDetail(r.Context(), questionID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto AnswerDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		http.Error(w, "question_id and chosen_option_id are required", http.StatusBadRequest)
		return
	}

	a, err := h.service.RecordAnswer(r.Context(), userID, dto)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, a)
}

func (h *Handler) QuizProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	bookID, ok := book.ParseBookID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Progress(r.Context(), userID, bookID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func parseQuestionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "questionId"))
	if err != nil {
		http.Error(w, "invalid question id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrQuestionNotFound):
		http.Error(w, "question not found", http.StatusNotFound)
	case errors.Is(err, ErrOptionNotFound):
		http.Error(w, "option not found", http.StatusNotFound)
	case errors.Is(err, ErrOptionMismatch):
		http.Error(w, "option does not belong to this question", http.StatusBadRequest)
	default:
		book.WriteError(w, r, err)
	}
}
