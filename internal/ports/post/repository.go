package post

import (
	"context"
	"time"
	"timelium/internal/core/post"
	userPort "timelium/internal/ports/user"
)

// PostRepository port for storing and querying posts.
// Every finder returns posts with their author preloaded.
type PostRepository interface {
	Create(ctx context.Context, p *post.Post) (*post.Post, error)
	Save(ctx context.Context, p *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id string) (*post.Post, error)
	FindByUserID(ctx context.Context, userID string) ([]*post.Post, error)
	DeleteByID(ctx context.Context, id string) error

	// UpdateLikes loads the post, applies fn and saves it as one atomic step.
	UpdateLikes(ctx context.Context, id string, fn func(p *post.Post) error) (*post.Post, error)

	// FindByLocationTags posts whose tags are exactly [country, city], newest first.
	FindByLocationTags(ctx context.Context, country, city string, excluding []string, limit int) ([]*post.Post, error)
	// FindByCountryTag posts whose tags contain country, newest first.
	FindByCountryTag(ctx context.Context, country string, excluding []string, limit int) ([]*post.Post, error)
	// FindPopular posts created at or after since, most liked first then newest.
	FindPopular(ctx context.Context, excluding []string, since time.Time, limit int) ([]*post.Post, error)
	// FindByContentMatch case-insensitive substring match on content, newest first.
	FindByContentMatch(ctx context.Context, pattern string, limit int) ([]*post.Post, error)
}

// DTOs for the use cases
type PostDTO struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Image     string            `json:"image,omitempty"`
	UserID    string            `json:"user_id"`
	User      *userPort.UserDTO `json:"user,omitempty"`
	LikedBy   []string          `json:"liked_by"`
	LikeCount int               `json:"like_count"`
	Location  []string          `json:"location"`
	CreatedAt string            `json:"created_at"`
}

func ToDTO(p *post.Post) *PostDTO {
	dto := &PostDTO{
		ID:        p.ID.String(),
		Content:   p.Content,
		Image:     p.Image,
		UserID:    p.UserID.String(),
		LikedBy:   []string(p.LikedBy),
		LikeCount: len(p.LikedBy),
		Location:  p.LocationTags(),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if dto.LikedBy == nil {
		dto.LikedBy = []string{}
	}
	if p.User.ID == p.UserID && p.User.Username != "" {
		dto.User = userPort.ToSummaryDTO(&p.User)
	}
	return dto
}

func ToDTOs(posts []*post.Post) []*PostDTO {
	out := make([]*PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, ToDTO(p))
	}
	return out
}
