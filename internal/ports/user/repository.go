package user

import (
	"context"
	"timelium/internal/core/user"
)

// UserRepository port for storing and looking up users
type UserRepository interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	Update(ctx context.Context, u *user.User) (*user.User, error)
	Search(ctx context.Context, query string, limit int) ([]*user.User, error)
	List(ctx context.Context, limit int) ([]*user.User, error)
}

// ProfileUpdate fields a user may change on their own profile; nil means unchanged.
type ProfileUpdate struct {
	Fullname *string `json:"fullname"`
	Title    *string `json:"title"`
	About    *string `json:"about"`
	Avatar   *string `json:"avatar"`
	Location *string `json:"location"`

	Links  *user.Links  `json:"links"`  // replaces every link
	HireMe *user.HireMe `json:"hireMe"` // replaces every channel
}

type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
	Fullname string `json:"fullname" binding:"required"`
	Title    string `json:"title"`
	About    string `json:"about"`
	Location string `json:"location"`
}

// DTOs for the use cases
type UserDTO struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Fullname string   `json:"fullname"`
	Avatar   string   `json:"avatar,omitempty"`
	Title    string   `json:"title,omitempty"`
	About    string   `json:"about,omitempty"`
	Location string   `json:"location,omitempty"`
	Skills   []string `json:"skills,omitempty"`

	Links      *user.Links       `json:"links,omitempty"`
	HireMe     *user.HireMe      `json:"hireMe,omitempty"`
	Projects   []user.Project    `json:"projects,omitempty"`
	Experience []user.Experience `json:"experience,omitempty"`
	Education  []user.Education  `json:"education,omitempty"`
}

func ToDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:       u.ID.String(),
		Username: u.Username,
		Fullname: u.Fullname,
		Avatar:   u.Avatar,
		Title:    u.Title,
		About:    u.About,
		Location: u.Location,
		Skills:   u.Skills,

		Links:      &u.Links,
		HireMe:     &u.HireMe,
		Projects:   u.Projects,
		Experience: u.Experience,
		Education:  u.Education,
	}
}

// ToSummaryDTO the author fields shown next to a post.
func ToSummaryDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:       u.ID.String(),
		Username: u.Username,
		Fullname: u.Fullname,
		Avatar:   u.Avatar,
	}
}
