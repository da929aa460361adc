package userapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	userEntity "timelium/internal/core/user"
	userPort "timelium/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const (
	searchLimit = 20
	listLimit   = 100
)

// UserService profile management
type UserService struct {
	UserRepository userPort.UserRepository
	Logger         *zap.Logger
}

func NewUserService(repo userPort.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		UserRepository: repo,
		Logger:         logger,
	}
}

// CreateUser registers a profile with a unique username
func (s *UserService) CreateUser(ctx context.Context, in userPort.CreateUserInput) (*userEntity.User, error) {
	username := strings.TrimSpace(in.Username)
	fullname := strings.TrimSpace(in.Fullname)
	if username == "" || len(username) > 50 || fullname == "" {
		return nil, userEntity.ErrInvalidInput
	}

	existing, err := s.UserRepository.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, userEntity.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, userEntity.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	u := &userEntity.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: username,
		Fullname: fullname,
		Title:    strings.TrimSpace(in.Title),
		About:    strings.TrimSpace(in.About),
		Location: strings.TrimSpace(in.Location),
		Skills:   []string{},
	}
	created, err := s.UserRepository.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("✅ Created user", zap.String("userID", created.ID.String()), zap.String("username", username))
	return created, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*userEntity.User, error) {
	return s.UserRepository.FindByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*userEntity.User, error) {
	return s.UserRepository.FindByUsername(ctx, username)
}

// UpdateProfile applies the non-nil fields. Posts already written keep the
// location they were stamped with.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd userPort.ProfileUpdate) (*userEntity.User, error) {
	u, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Fullname != nil {
		name := strings.TrimSpace(*upd.Fullname)
		if name == "" {
			return nil, userEntity.ErrInvalidInput
		}
		u.Fullname = name
	}
	if upd.Title != nil {
		u.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.About != nil {
		u.About = strings.TrimSpace(*upd.About)
	}
	if upd.Avatar != nil {
		u.Avatar = strings.TrimSpace(*upd.Avatar)
	}
	if upd.Location != nil {
		u.Location = strings.TrimSpace(*upd.Location)
	}
	if upd.Links != nil {
		u.SetLinks(*upd.Links)
	}
	if upd.HireMe != nil {
		u.SetHireMe(*upd.HireMe)
	}

	updated, err := s.UserRepository.Update(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.Logger.Info("✏️ Updated profile", zap.String("userID", userID))
	return updated, nil
}

// AddSkill adds a skill once; adding an existing skill is a no-op
func (s *UserService) AddSkill(ctx context.Context, userID, skill string) (*userEntity.User, error) {
	if strings.TrimSpace(skill) == "" {
		return nil, userEntity.ErrInvalidInput
	}
	u, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.AddSkill(skill) {
		return u, nil
	}
	return s.UserRepository.Update(ctx, u)
}

// SearchUsers matches username or full name; a blank query finds nobody
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]*userEntity.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*userEntity.User{}, nil
	}
	return s.UserRepository.Search(ctx, query, searchLimit)
}

// ListUsers the first listLimit profiles by username
func (s *UserService) ListUsers(ctx context.Context) ([]*userEntity.User, error) {
	return s.UserRepository.List(ctx, listLimit)
}

func (s *UserService) AddProject(ctx context.Context, userID string, p userEntity.Project) (*userEntity.User, error) {
	return s.appendEntry(ctx, userID, "project", func(u *userEntity.User) bool { return u.AddProject(p) }, strings.TrimSpace(p.Title) != "")
}

func (s *UserService) AddExperience(ctx context.Context, userID string, e userEntity.Experience) (*userEntity.User, error) {
	valid := strings.TrimSpace(e.Company) != "" && strings.TrimSpace(e.Position) != ""
	return s.appendEntry(ctx, userID, "experience", func(u *userEntity.User) bool { return u.AddExperience(e) }, valid)
}

func (s *UserService) AddEducation(ctx context.Context, userID string, e userEntity.Education) (*userEntity.User, error) {
	return s.appendEntry(ctx, userID, "education", func(u *userEntity.User) bool { return u.AddEducation(e) }, strings.TrimSpace(e.Institution) != "")
}

// appendEntry loads the user, applies add and saves only when something was
// appended. Duplicates leave the profile untouched.
func (s *UserService) appendEntry(ctx context.Context, userID, kind string, add func(*userEntity.User) bool, valid bool) (*userEntity.User, error) {
	if !valid {
		return nil, userEntity.ErrInvalidInput
	}
	u, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !add(u) {
		return u, nil
	}
	updated, err := s.UserRepository.Update(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", kind, err)
	}
	s.Logger.Info("✅ Added profile entry", zap.String("userID", userID), zap.String("kind", kind))
	return updated, nil
}
