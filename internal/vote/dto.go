package vote

import (
	"time"

	"github.com/google/uuid"

	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/progress"
)

type OpenVoteDTO struct {
	GroupID uuid.UUID `json:"group_id" validate:"required"`
}

type CastBallotDTO struct {
	VoteID  uuid.UUID `json:"vote_id" validate:"required"`
	BookID  uuid.UUID `json:"book_id" validate:"required"`
	GroupID uuid.UUID `json:"group_id"`
}

type VoterResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture"`
}

type BookTally struct {
	BookID uuid.UUID       `json:"book_id"`
	Title  string          `json:"title"`
	Author string          `json:"author"`
	Cover  string          `json:"cover"`
	Votes  int             `json:"votes"`
	Users  []VoterResponse `json:"users"`
}

type VoteResponse struct {
	VoteID        uuid.UUID    `json:"vote_id"`
	GroupID       uuid.UUID    `json:"group_id"`
	Status        VoteStatus   `json:"status"`
	Completed     bool         `json:"completed"`
	Books         []BookTally  `json:"books"`
	MostVotedBook *uuid.UUID   `json:"mostVotedBook"`
	Candidates    []*book.Book `json:"candidates,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	ClosedAt      *time.Time   `json:"closed_at,omitempty"`
}

type LastVoteResponse struct {
	VoteID      uuid.UUID  `json:"vote_id"`
	Status      VoteStatus `json:"status"`
	IsCompleted bool       `json:"isCompleted"`
}

type CloseResponse struct {
	Vote        *VoteResponse               `json:"vote"`
	Assignments []progress.MemberAssignment `json:"assignments"`
}
