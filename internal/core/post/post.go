package post

import (
	"errors"
	"time"
	"timelium/internal/core/location"
	"timelium/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("post not found")
	ErrUnauthorized   = errors.New("not authorized to modify this post")
	ErrEmptyContent   = errors.New("post content is empty")
	ErrContentTooLong = errors.New("post content is too long")
	ErrAuthorNotFound = errors.New("post author not found")
	ErrInvalidActor   = errors.New("invalid user identity")
)

const MaxContentLength = 2000

type Post struct {
	ID              uuid.UUID `gorm:"primary_key;type:char(36)"`
	Content         string    `gorm:"type:text;not null"`
	Image           string    `gorm:"type:varchar(512)"`
	UserID          uuid.UUID `gorm:"type:char(36);not null;index"`
	User            user.User `gorm:"foreignkey:UserID"` // author, preloaded for display
	LikedBy         LikeSet   `gorm:"type:text;serializer:json"`
	LikeCount       int       `gorm:"not null;default:0;index"`
	LocationCountry string    `gorm:"type:varchar(100);index:idx_post_location"`
	LocationCity    string    `gorm:"type:varchar(100);index:idx_post_location"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// BeforeSave keeps the like counter used for popularity ordering in step with the set.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	p.LikeCount = len(p.LikedBy)
	return nil
}

// StampLocation fixes the post's location tags from the author's location at creation.
// It is only called once; later profile edits never reach existing posts.
func (p *Post) StampLocation(key location.LocationKey) {
	p.LocationCountry = ""
	p.LocationCity = ""
	switch key.Precision {
	case location.PrecisionCity:
		p.LocationCountry = key.Country
		p.LocationCity = key.City
	case location.PrecisionCountry:
		p.LocationCountry = key.Country
	}
}

// LocationTags returns [country], [country, city] or an empty list.
func (p *Post) LocationTags() []string {
	switch {
	case p.LocationCountry == "":
		return []string{}
	case p.LocationCity == "":
		return []string{p.LocationCountry}
	default:
		return []string{p.LocationCountry, p.LocationCity}
	}
}

// ToggleLike flips userID's membership in LikedBy and reports whether it is now liked.
func (p *Post) ToggleLike(userID string) bool {
	liked := p.LikedBy.Toggle(userID)
	p.LikeCount = len(p.LikedBy)
	return liked
}
