package feedapp

import (
	"context"
	"errors"
	"fmt"
	"time"
	"timelium/internal/core/feed"
	"timelium/internal/core/location"
	postEntity "timelium/internal/core/post"
	userEntity "timelium/internal/core/user"
	postPort "timelium/internal/ports/post"
	userPort "timelium/internal/ports/user"

	"go.uber.org/zap"
)

// FeedService composes the home feed: city posts, then country posts, then
// popular posts from the last month, or a plain search when a query is given.
type FeedService struct {
	PostRepository postPort.PostRepository
	UserRepository userPort.UserRepository
	Logger         *zap.Logger
	Now            func() time.Time
}

func NewFeedService(postRepo postPort.PostRepository, userRepo userPort.UserRepository, logger *zap.Logger) *FeedService {
	return &FeedService{
		PostRepository: postRepo,
		UserRepository: userRepo,
		Logger:         logger,
		Now:            time.Now,
	}
}

// Compose builds one feed batch. viewerID and query may both be empty.
func (s *FeedService) Compose(ctx context.Context, viewerID, query string) ([]*postEntity.Post, error) {
	if query != "" {
		return s.Search(ctx, query)
	}

	loc, err := s.viewerLocation(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	budgets := feed.NewBudgets(feed.BatchSize)
	sel := newSelection(feed.BatchSize)

	// city tier: exact [country, city] stamp
	if loc.HasCity() {
		posts, err := s.PostRepository.FindByLocationTags(ctx, loc.Country, loc.City, sel.ids(), budgets.City)
		if err != nil {
			return nil, fmt.Errorf("city tier: %w", err)
		}
		sel.take(feed.TierCity, posts, budgets.City)
	}
	budgets.Country += budgets.City - sel.count(feed.TierCity)

	// country tier: any stamp containing the country
	if loc.HasCountry() {
		posts, err := s.PostRepository.FindByCountryTag(ctx, loc.Country, sel.ids(), budgets.Country)
		if err != nil {
			return nil, fmt.Errorf("country tier: %w", err)
		}
		sel.take(feed.TierCountry, posts, budgets.Country)
	}
	budgets.Popular += budgets.Country - sel.count(feed.TierCountry)

	if budgets.Popular > 0 {
		since := feed.PopularSince(s.now())
		posts, err := s.PostRepository.FindPopular(ctx, sel.ids(), since, budgets.Popular)
		if err != nil {
			return nil, fmt.Errorf("popular tier: %w", err)
		}
		sel.take(feed.TierPopular, posts, budgets.Popular)
	}

	s.logger().Debug("feed composed",
		zap.String("viewerID", viewerID),
		zap.Stringer("precision", loc.Precision),
		zap.Int("city", sel.count(feed.TierCity)),
		zap.Int("country", sel.count(feed.TierCountry)),
		zap.Int("popular", sel.count(feed.TierPopular)),
		zap.Int("countryBudget", budgets.Country),
		zap.Int("popularBudget", budgets.Popular),
	)
	return sel.posts, nil
}

// Search bypasses tiering: case-insensitive content match, newest first, capped.
func (s *FeedService) Search(ctx context.Context, query string) ([]*postEntity.Post, error) {
	pattern := feed.CleanQuery(query)
	posts, err := s.PostRepository.FindByContentMatch(ctx, pattern, feed.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	sel := newSelection(feed.SearchLimit)
	sel.take("search", posts, feed.SearchLimit)
	return sel.posts, nil
}

func (s *FeedService) viewerLocation(ctx context.Context, viewerID string) (location.LocationKey, error) {
	if viewerID == "" {
		return location.LocationKey{}, nil
	}
	u, err := s.UserRepository.FindByID(ctx, viewerID)
	if errors.Is(err, userEntity.ErrNotFound) {
		return location.LocationKey{}, nil
	}
	if err != nil {
		return location.LocationKey{}, fmt.Errorf("load viewer: %w", err)
	}
	return location.Resolve(u.Location), nil
}

func (s *FeedService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *FeedService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// selection ordered, duplicate-free accumulator across tiers
type selection struct {
	posts  []*postEntity.Post
	seen   map[string]struct{}
	counts map[feed.Tier]int
}

func newSelection(capacity int) *selection {
	return &selection{
		posts:  make([]*postEntity.Post, 0, capacity),
		seen:   make(map[string]struct{}, capacity),
		counts: make(map[feed.Tier]int, 3),
	}
}

// take appends at most limit unseen posts in the order given.
func (s *selection) take(tier feed.Tier, posts []*postEntity.Post, limit int) {
	for _, p := range posts {
		if s.counts[tier] >= limit {
			return
		}
		id := p.ID.String()
		if _, dup := s.seen[id]; dup {
			continue
		}
		s.seen[id] = struct{}{}
		s.posts = append(s.posts, p)
		s.counts[tier]++
	}
}

func (s *selection) count(tier feed.Tier) int { return s.counts[tier] }

func (s *selection) ids() []string {
	ids := make([]string, 0, len(s.posts))
	for _, p := range s.posts {
		ids = append(ids, p.ID.String())
	}
	return ids
}
