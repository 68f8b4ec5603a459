package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
)

type Handler struct {
	service UserService
}

func NewHandler(s UserService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto RegisterDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		log.WithError(err).Warn("Invalid registration body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Register(r.Context(), dto)
	if err != nil {
		h.writeError(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto LoginDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		log.WithError(err).Warn("Invalid login body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.service.Login(r.Context(), dto)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *Handler) LoggedInUser(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.LoggedIn(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	resp, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{"user": resp})
}

func (h *Handler) UpdateLevel(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.LevelUp(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateProfilePicture(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto UpdateProfilePictureDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		http.Error(w, "profile picture URL is required", http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateProfilePicture(r.Context(), userID, dto.ProfilePicture); err != nil {
		h.writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, dto)
}

func (h *Handler) UpdateBio(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto UpdateBioDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		http.Error(w, "bio is required", http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateBio(r.Context(), userID, dto.Bio); err != nil {
		h.writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, dto)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrUsernameTaken):
		http.Error(w, "username or email already taken", http.StatusConflict)
	case errors.Is(err, ErrInvalidRole):
		http.Error(w, "role must be teacher or student", http.StatusBadRequest)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
