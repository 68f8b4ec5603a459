package group

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

type Handler struct {
	service GroupService
}

func NewHandler(s GroupService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto CreateGroupDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		log.WithError(err).Warn("Invalid create group body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Create(r.Context(), userID, dto)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	groupID, ok := ParseGroupID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.View(r.Context(), userID, groupID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) FindByCode(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.FindByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	groupID, ok := ParseGroupID(w, r)
	if !ok {
		return
	}

	members, err := h.service.Members(r.Context(), groupID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, members)
}

func (h *Handler) ListStudentGroups(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	groups, err := h.service.ListJoined(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, groups)
}

func (h *Handler) ListCreatedGroups(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	groups, err := h.service.ListCreated(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, groups)
}

func (h *Handler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto JoinGroupDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		log.WithError(err).Warn("Invalid join group body")
		http.Error(w, "group_id and code are required", http.StatusBadRequest)
		return
	}

	m, err := h.service.Join(r.Context(), userID, dto)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, m)
}

// ParseGroupID reads the {groupId} URL parameter, replying 400 when it is not a uuid.
func ParseGroupID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "groupId"))
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if status, msg, ok := ErrorStatus(err); ok {
		http.Error(w, msg, status)
		return
	}
	config.WithContext(r.Context()).WithError(err).Error("Group request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// ErrorStatus maps the package's sentinel errors to an HTTP status and message.
func ErrorStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, ErrGroupNotFound):
		return http.StatusNotFound, "group not found", true
	case errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound, "user not found", true
	case errors.Is(err, ErrGroupExists):
		return http.StatusConflict, "group name or code already in use", true
	case errors.Is(err, ErrAlreadyMember):
		return http.StatusConflict, "already a member of this group", true
	case errors.Is(err, ErrInvalidCode):
		return http.StatusBadRequest, "invalid code", true
	case errors.Is(err, ErrNotMember):
		return http.StatusForbidden, "not a member of this group", true
	case errors.Is(err, ErrTeacherOnly):
		return http.StatusForbidden, "only teachers can create groups", true
	case errors.Is(err, ErrNotGroupOwner):
		return http.StatusForbidden, "only the group creator can do this", true
	}
	return 0, "", false
}
