package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username       string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"username"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash   string    `gorm:"column:password;type:varchar(255);not null" json:"-"`
	Role           Role      `gorm:"type:varchar(16);not null;default:'student'" json:"role"`
	Level          int       `gorm:"not null;default:0" json:"level"`
	Rank           int       `gorm:"not null;default:1" json:"rank"`
	ProfilePicture string    `gorm:"type:text" json:"profile_picture"`
	Bio            string    `gorm:"type:text" json:"bio"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Rank is a display tier. Tier is the 1-based number stored on users.rank.
type Rank struct {
	Tier  int    `gorm:"primaryKey;autoIncrement:false" json:"tier"`
	Name  string `gorm:"type:varchar(255);not null" json:"rank"`
	Color string `gorm:"type:varchar(255);not null" json:"color"`
}

// DefaultRanks are seeded into an empty ranks table.
var DefaultRanks = []Rank{
	{Tier: 1, Name: "Novice", Color: "#ffcc00"},
	{Tier: 2, Name: "Apprentice", Color: "#ff9933"},
	{Tier: 3, Name: "Amateur", Color: "#ff6600"},
	{Tier: 4, Name: "Intermediate", Color: "#ff3300"},
	{Tier: 5, Name: "Skilled", Color: "#ff0000"},
	{Tier: 6, Name: "Proficient", Color: "#cc0000"},
	{Tier: 7, Name: "Experienced", Color: "#990000"},
	{Tier: 8, Name: "Advanced", Color: "#660000"},
	{Tier: 9, Name: "Expert", Color: "#330000"},
	{Tier: 10, Name: "Master", Color: "#000000"},
}
