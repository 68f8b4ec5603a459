package user

import "github.com/google/uuid"

type RegisterDTO struct {
	Username       string `json:"username" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	Role           Role   `json:"role"`
	ProfilePicture string `json:"profile_picture"`
}

type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type UpdateProfilePictureDTO struct {
	ProfilePicture string `json:"profile_picture" validate:"required"`
}

type UpdateBioDTO struct {
	Bio string `json:"bio" validate:"required"`
}

// UserResponse is a user joined with the display data of its rank tier.
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Level          int       `json:"level"`
	RankTier       int       `json:"rank_tier"`
	Rank           string    `json:"rank"`
	Color          string    `json:"color"`
	ProfilePicture string    `json:"profile_picture"`
	Bio            string    `json:"bio"`
}

type LoggedInResponse struct {
	AllUsers              []UserResponse `json:"allUsers"`
	AuthenticatedUserData UserResponse   `json:"authenticatedUserData"`
}

type LevelUpResponse struct {
	NewLevel int    `json:"newLevel"`
	NewRank  int    `json:"newRank"`
	RankName string `json:"rank"`
}
