package group

import (
	"time"

	"github.com/google/uuid"

	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

type CreateGroupDTO struct {
	Name        string `json:"name" validate:"required,max=255"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Code        string `json:"code" validate:"omitempty,min=4,max=10,alphanum"`
	IsPrivate   bool   `json:"is_private"`
}

type JoinGroupDTO struct {
	GroupID uuid.UUID `json:"group_id" validate:"required"`
	Code    string    `json:"code" validate:"required"`
}

type GroupResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Image           string    `json:"image"`
	Description     string    `json:"description"`
	Code            string    `json:"code,omitempty"`
	IsPrivate       bool      `json:"is_private"`
	CreatedBy       uuid.UUID `json:"created_by"`
	CreatorUsername string    `json:"creator_username"`
	CreatedAt       time.Time `json:"created_at"`
}

type MemberResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profile_picture"`
	Level          int       `json:"level"`
	Rank           string    `json:"rank"`
	Color          string    `json:"color"`
}

func ToMember(u user.UserResponse) MemberResponse {
	return MemberResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Level:          u.Level,
		Rank:           u.Rank,
		Color:          u.Color,
	}
}
