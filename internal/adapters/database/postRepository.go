package database

import (
	"context"
	"errors"
	"time"
	"timelium/internal/core/post"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepositoryDatabase PostRepository backed by gorm
type PostRepositoryDatabase struct {
	db *gorm.DB
}

// NewPostRepositoryDatabase constructor for PostRepositoryDatabase
func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) Save(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id string) (*post.Post, error) {
	if !validID(id) {
		return nil, post.ErrNotFound
	}
	var p post.Post
	if err := repo.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, post.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindByUserID(ctx context.Context, userID string) ([]*post.Post, error) {
	posts := []*post.Post{}
	if !validID(userID) {
		return posts, nil
	}
	err := repo.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) DeleteByID(ctx context.Context, id string) error {
	if !validID(id) {
		return post.ErrNotFound
	}
	res := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&post.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return post.ErrNotFound
	}
	return nil
}

// UpdateLikes row-locks the post for the read-modify-write so concurrent
// toggles on the same post run one after the other.
func (repo *PostRepositoryDatabase) UpdateLikes(ctx context.Context, id string, fn func(p *post.Post) error) (*post.Post, error) {
	if !validID(id) {
		return nil, post.ErrNotFound
	}

	var p post.Post
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return post.ErrNotFound
			}
			return err
		}
		if err := fn(&p); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&p).Error; err != nil {
			return err
		}
		// author for display; missing author is not an error
		if err := tx.Where("id = ?", p.UserID).Limit(1).Find(&p.User).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindByLocationTags(ctx context.Context, country, city string, excluded []string, limit int) ([]*post.Post, error) {
	q := repo.db.WithContext(ctx).Where("location_country = ? AND location_city = ?", country, city)
	return repo.findRecent(excluding(q, excluded), limit)
}

func (repo *PostRepositoryDatabase) FindByCountryTag(ctx context.Context, country string, excluded []string, limit int) ([]*post.Post, error) {
	q := repo.db.WithContext(ctx).Where("(location_country = ? OR location_city = ?)", country, country)
	return repo.findRecent(excluding(q, excluded), limit)
}

func (repo *PostRepositoryDatabase) FindPopular(ctx context.Context, excluded []string, since time.Time, limit int) ([]*post.Post, error) {
	posts := []*post.Post{}
	if limit <= 0 {
		return posts, nil
	}
	q := repo.db.WithContext(ctx).Where("created_at >= ?", since)
	err := excluding(q, excluded).
		Preload("User").
		Order("like_count DESC").Order("created_at DESC").Order("id").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) FindByContentMatch(ctx context.Context, pattern string, limit int) ([]*post.Post, error) {
	q := repo.db.WithContext(ctx).Where("LOWER(content) LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(pattern))
	return repo.findRecent(q, limit)
}

// findRecent newest first, ties broken by id
func (repo *PostRepositoryDatabase) findRecent(q *gorm.DB, limit int) ([]*post.Post, error) {
	posts := []*post.Post{}
	if limit <= 0 {
		return posts, nil
	}
	err := q.Preload("User").
		Order("created_at DESC").Order("id").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}
