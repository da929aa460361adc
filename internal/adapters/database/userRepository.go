package database

import (
	"context"
	"errors"
	"timelium/internal/core/user"

	"gorm.io/gorm"
)

// UserRepositoryDatabase UserRepository backed by gorm
type UserRepositoryDatabase struct {
	db *gorm.DB
}

// NewUserRepositoryDatabase constructor for UserRepositoryDatabase
func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, user.ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id string) (*user.User, error) {
	if !validID(id) {
		return nil, user.ErrNotFound
	}
	return repo.first(repo.db.WithContext(ctx).Where("id = ?", id))
}

func (repo *UserRepositoryDatabase) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return repo.first(repo.db.WithContext(ctx).Where("username = ?", username))
}

func (repo *UserRepositoryDatabase) Update(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) Search(ctx context.Context, query string, limit int) ([]*user.User, error) {
	users := []*user.User{}
	if limit <= 0 {
		return users, nil
	}
	pattern := containsPattern(query)
	err := repo.db.WithContext(ctx).
		Where("LOWER(username) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER(fullname) LIKE ? ESCAPE '"+likeEscape+"'", pattern, pattern).
		Order("username").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// List users alphabetically by username, at most limit.
func (repo *UserRepositoryDatabase) List(ctx context.Context, limit int) ([]*user.User, error) {
	users := []*user.User{}
	if limit <= 0 {
		return users, nil
	}
	if err := repo.db.WithContext(ctx).Order("username").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepositoryDatabase) first(q *gorm.DB) (*user.User, error) {
	var u user.User
	if err := q.First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
