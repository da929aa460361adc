package postapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
	"timelium/internal/core/location"
	postEntity "timelium/internal/core/post"
	"timelium/internal/core/postevent"
	userEntity "timelium/internal/core/user"
	postPort "timelium/internal/ports/post"
	eventPort "timelium/internal/ports/postevent"
	userPort "timelium/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type PostService struct {
	PostRepository   postPort.PostRepository
	UserRepository   userPort.UserRepository    // author location for stamping
	OutboxRepository eventPort.OutboxRepository // optional, nil disables events
	Logger           *zap.Logger
}

func NewPostService(
	postRepo postPort.PostRepository,
	userRepo userPort.UserRepository,
	outboxRepo eventPort.OutboxRepository,
	logger *zap.Logger,
) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{
		PostRepository:   postRepo,
		UserRepository:   userRepo,
		OutboxRepository: outboxRepo,
		Logger:           logger,
	}
}

// CreatePost stores a new post stamped with the author's current location
func (s *PostService) CreatePost(ctx context.Context, authorID, content, image string) (*postEntity.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, postEntity.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > postEntity.MaxContentLength {
		return nil, postEntity.ErrContentTooLong
	}

	author, err := s.UserRepository.FindByID(ctx, authorID)
	if errors.Is(err, userEntity.ErrNotFound) {
		return nil, postEntity.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}

	p := &postEntity.Post{
		ID:      uuid.Must(uuid.NewV4()),
		Content: content,
		Image:   strings.TrimSpace(image),
		UserID:  author.ID,
		LikedBy: postEntity.LikeSet{},
	}
	p.StampLocation(location.Resolve(author.Location))

	created, err := s.PostRepository.Create(ctx, p)
	if err != nil {
		s.Logger.Error("❌ Failed to create post", zap.String("userID", authorID), zap.Error(err))
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	created.User = *author

	s.Logger.Info("✅ Created post",
		zap.String("postID", created.ID.String()),
		zap.String("userID", authorID),
		zap.Strings("location", created.LocationTags()),
	)
	s.emit(ctx, postevent.TypeCreated, created.ID, author.ID)
	return created, nil
}

// GetPost returns a single post or ErrNotFound
func (s *PostService) GetPost(ctx context.Context, postID string) (*postEntity.Post, error) {
	return s.PostRepository.FindByID(ctx, postID)
}

// FindByUser a user's posts, newest first
func (s *PostService) FindByUser(ctx context.Context, userID string) ([]*postEntity.Post, error) {
	return s.PostRepository.FindByUserID(ctx, userID)
}

// ToggleLike likes the post for userID, or unlikes it when already liked
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*postEntity.Post, error) {
	actor, err := uuid.FromString(userID)
	if err != nil {
		return nil, postEntity.ErrInvalidActor
	}

	var liked bool
	updated, err := s.PostRepository.UpdateLikes(ctx, postID, func(p *postEntity.Post) error {
		liked = p.ToggleLike(actor.String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	evt := postevent.TypeUnliked
	if liked {
		evt = postevent.TypeLiked
	}
	s.Logger.Info("👍 Toggled like",
		zap.String("postID", postID),
		zap.String("userID", userID),
		zap.Bool("liked", liked),
		zap.Int("likeCount", updated.LikeCount),
	)
	s.emit(ctx, evt, updated.ID, actor)
	return updated, nil
}

// DeletePost hard-deletes a post owned by requesterID
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID string) error {
	requester, err := uuid.FromString(requesterID)
	if err != nil {
		return postEntity.ErrInvalidActor
	}
	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.UserID != requester {
		s.Logger.Warn("⚠️ Delete refused, requester is not the author",
			zap.String("postID", postID), zap.String("requesterID", requesterID))
		return postEntity.ErrUnauthorized
	}

	if err := s.PostRepository.DeleteByID(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	s.Logger.Info("🗑️ Deleted post", zap.String("postID", postID))
	s.emit(ctx, postevent.TypeDeleted, p.ID, p.UserID)
	return nil
}

// emit writes an outbox row; a failure here never fails the mutation itself
func (s *PostService) emit(ctx context.Context, t postevent.Type, postID, actorID uuid.UUID) {
	if s.OutboxRepository == nil {
		return
	}
	if _, err := s.OutboxRepository.Create(ctx, postevent.New(t, postID, actorID)); err != nil {
		s.Logger.Warn("⚠️ Warning: could not add to post_events outbox",
			zap.String("type", string(t)), zap.String("postID", postID.String()), zap.Error(err))
	}
}
