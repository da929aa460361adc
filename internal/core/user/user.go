package user

import (
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrInvalidInput  = errors.New("invalid user input")
)

type User struct {
	ID         uuid.UUID    `gorm:"primary_key;type:char(36)"`
	Username   string       `gorm:"type:varchar(50);uniqueIndex;not null"`
	Fullname   string       `gorm:"type:varchar(100);not null"`
	Title      string       `gorm:"type:varchar(100)"`
	About      string       `gorm:"type:text"`
	Avatar     string       `gorm:"type:varchar(512)"`
	Location   string       `gorm:"type:varchar(200)"` // "City, Country" or "Country"
	Skills     []string     `gorm:"type:text;serializer:json"`
	Links      Links        `gorm:"type:text;serializer:json"`
	HireMe     HireMe       `gorm:"type:text;serializer:json"`
	Projects   []Project    `gorm:"type:text;serializer:json"`
	Experience []Experience `gorm:"type:text;serializer:json"`
	Education  []Education  `gorm:"type:text;serializer:json"`
	CreatedAt  time.Time    `gorm:"autoCreateTime"`
	UpdatedAt  time.Time    `gorm:"autoUpdateTime"`
}

// AddSkill adds a skill once; comparison is exact after trimming.
// Returns false when the skill was empty or already present.
func (u *User) AddSkill(skill string) bool {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return false
	}
	for _, s := range u.Skills {
		if s == skill {
			return false
		}
	}
	u.Skills = append(u.Skills, skill)
	return true
}
