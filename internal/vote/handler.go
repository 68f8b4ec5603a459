package vote

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/progress"
)

type Handler struct {
	service VoteService
}

func NewHandler(s VoteService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) OpenVote(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto OpenVoteDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		log.WithError(err).Warn("Invalid open vote body")
		http.Error(w, "group_id is required", http.StatusBadRequest)
		return
	}

	v, err := h.service.Open(r.Context(), userID, dto.GroupID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, v)
}

func (h *Handler) CastBallot(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto CastBallotDTO
	if err := config.DecodeAndValidate(r, &dto); err != nil {
		log.WithError(err).Warn("Invalid ballot body")
		http.Error(w, "vote_id and book_id are required", http.StatusBadRequest)
		return
	}

	b, err := h.service.CastBallot(r.Context(), userID, dto)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, b)
}

func (h *Handler) GetVote(w http.ResponseWriter, r *http.Request) {
	voteID, ok := parseVoteID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), voteID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) CloseVote(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	voteID, ok := parseVoteID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Close(r.Context(), userID, voteID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) OngoingVote(w http.ResponseWriter, r *http.Request) {
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.QueryOpen(r.Context(), groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{"ongoingVote": resp})
}

func (h *Handler) LastVote(w http.ResponseWriter, r *http.Request) {
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.QueryLast(r.Context(), groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func parseVoteID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "voteId"))
	if err != nil {
		http.Error(w, "invalid vote id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrVoteNotFound):
		http.Error(w, "vote not found", http.StatusNotFound)
	case errors.Is(err, ErrNoOpenVote):
		http.Error(w, "no ongoing vote found for the group", http.StatusNotFound)
	case errors.Is(err, ErrNoVotes):
		http.Error(w, "no votes found for the group", http.StatusNotFound)
	case errors.Is(err, ErrVoteAlreadyOpen):
		http.Error(w, "group already has an open vote", http.StatusConflict)
	case errors.Is(err, ErrVoteClosed):
		http.Error(w, "vote is closed", http.StatusConflict)
	case errors.Is(err, ErrVoteAlreadyClosed):
		http.Error(w, "vote is already closed", http.StatusConflict)
	case errors.Is(err, ErrNoBallots):
		http.Error(w, "vote has no ballots", http.StatusConflict)
	case errors.Is(err, ErrDuplicateBallot):
		http.Error(w, "you already voted in this vote", http.StatusConflict)
	case errors.Is(err, ErrBookNotCandidate):
		http.Error(w, "book is not a candidate in this vote", http.StatusBadRequest)
	default:
		progress.WriteError(w, r, err)
	}
}
