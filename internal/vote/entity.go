package vote

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Vote struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"group_id"`
	Status   VoteStatus     `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"`
	WinnerID *uuid.UUID     `gorm:"type:uuid" json:"winner_id,omitempty"`
	Result   datatypes.JSON `json:"result,omitempty"`
	// CreatedBy is the member who opened the vote.
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

type Ballot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VoteID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ballot_vote_user" json:"vote_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ballot_vote_user" json:"user_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null" json:"group_id"`
	BookID    uuid.UUID `gorm:"type:uuid;not null;index" json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *Ballot) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
