// Package memstore in-memory post and user repositories for service tests.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
	"timelium/internal/core/post"
	"timelium/internal/core/user"
)

// ErrMock returned by any method named in FailOn.
var ErrMock = errors.New("mock store failure")

// Call one recorded finder invocation.
type Call struct {
	Method   string
	Limit    int
	Excluded []string
}

// PostStore simulates the posts table.
type PostStore struct {
	mu     sync.Mutex
	Posts  map[string]*post.Post
	Calls  []Call
	FailOn map[string]bool // method name -> fail
}

func NewPostStore() *PostStore {
	return &PostStore{Posts: make(map[string]*post.Post), FailOn: make(map[string]bool)}
}

func (m *PostStore) fail(method string) error {
	if m.FailOn[method] {
		return ErrMock
	}
	return nil
}

func (m *PostStore) record(method string, limit int, excluded []string) {
	m.Calls = append(m.Calls, Call{Method: method, Limit: limit, Excluded: append([]string(nil), excluded...)})
}

// CallsTo recorded calls of one method, in order.
func (m *PostStore) CallsTo(method string) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Call
	for _, c := range m.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func clonePost(p *post.Post) *post.Post {
	cp := *p
	cp.LikedBy = append(post.LikeSet(nil), p.LikedBy...)
	return &cp
}

func (m *PostStore) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Create"); err != nil {
		return nil, err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.LikeCount = len(p.LikedBy)
	m.Posts[p.ID.String()] = clonePost(p)
	return p, nil
}

func (m *PostStore) Save(ctx context.Context, p *post.Post) (*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Save"); err != nil {
		return nil, err
	}
	p.LikeCount = len(p.LikedBy)
	m.Posts[p.ID.String()] = clonePost(p)
	return p, nil
}

func (m *PostStore) FindByID(ctx context.Context, id string) (*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("FindByID"); err != nil {
		return nil, err
	}
	p, ok := m.Posts[id]
	if !ok {
		return nil, post.ErrNotFound
	}
	return clonePost(p), nil
}

func (m *PostStore) FindByUserID(ctx context.Context, userID string) ([]*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("FindByUserID"); err != nil {
		return nil, err
	}
	return m.recent(func(p *post.Post) bool { return p.UserID.String() == userID }, nil, len(m.Posts)), nil
}

func (m *PostStore) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteByID"); err != nil {
		return err
	}
	if _, ok := m.Posts[id]; !ok {
		return post.ErrNotFound
	}
	delete(m.Posts, id)
	return nil
}

func (m *PostStore) UpdateLikes(ctx context.Context, id string, fn func(p *post.Post) error) (*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdateLikes"); err != nil {
		return nil, err
	}
	stored, ok := m.Posts[id]
	if !ok {
		return nil, post.ErrNotFound
	}
	p := clonePost(stored)
	if err := fn(p); err != nil {
		return nil, err
	}
	p.LikeCount = len(p.LikedBy)
	m.Posts[id] = clonePost(p)
	return p, nil
}

func (m *PostStore) FindByLocationTags(ctx context.Context, country, city string, excluded []string, limit int) ([]*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindByLocationTags", limit, excluded)
	if err := m.fail("FindByLocationTags"); err != nil {
		return nil, err
	}
	return m.recent(func(p *post.Post) bool {
		return p.LocationCountry == country && p.LocationCity == city
	}, excluded, limit), nil
}

func (m *PostStore) FindByCountryTag(ctx context.Context, country string, excluded []string, limit int) ([]*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindByCountryTag", limit, excluded)
	if err := m.fail("FindByCountryTag"); err != nil {
		return nil, err
	}
	return m.recent(func(p *post.Post) bool {
		for _, tag := range p.LocationTags() {
			if tag == country {
				return true
			}
		}
		return false
	}, excluded, limit), nil
}

func (m *PostStore) FindPopular(ctx context.Context, excluded []string, since time.Time, limit int) ([]*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindPopular", limit, excluded)
	if err := m.fail("FindPopular"); err != nil {
		return nil, err
	}
	out := m.filter(func(p *post.Post) bool { return !p.CreatedAt.Before(since) }, excluded)
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].LikedBy) != len(out[j].LikedBy) {
			return len(out[i].LikedBy) > len(out[j].LikedBy)
		}
		return newerFirst(out[i], out[j])
	})
	return truncate(out, limit), nil
}

func (m *PostStore) FindByContentMatch(ctx context.Context, pattern string, limit int) ([]*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindByContentMatch", limit, nil)
	if err := m.fail("FindByContentMatch"); err != nil {
		return nil, err
	}
	needle := strings.ToLower(pattern)
	return m.recent(func(p *post.Post) bool {
		return strings.Contains(strings.ToLower(p.Content), needle)
	}, nil, limit), nil
}

func (m *PostStore) filter(match func(*post.Post) bool, excluded []string) []*post.Post {
	skip := make(map[string]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	var out []*post.Post
	for id, p := range m.Posts {
		if skip[id] || !match(p) {
			continue
		}
		out = append(out, clonePost(p))
	}
	return out
}

func (m *PostStore) recent(match func(*post.Post) bool, excluded []string, limit int) []*post.Post {
	out := m.filter(match, excluded)
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i], out[j]) })
	return truncate(out, limit)
}

func newerFirst(a, b *post.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

func truncate(posts []*post.Post, limit int) []*post.Post {
	if limit <= 0 {
		return []*post.Post{}
	}
	if len(posts) > limit {
		return posts[:limit]
	}
	if posts == nil {
		return []*post.Post{}
	}
	return posts
}

// UserStore simulates the users table.
type UserStore struct {
	mu         sync.Mutex
	Users      map[string]*user.User
	ShouldFail bool
}

func NewUserStore(users ...*user.User) *UserStore {
	s := &UserStore{Users: make(map[string]*user.User)}
	for _, u := range users {
		s.Users[u.ID.String()] = u
	}
	return s
}

func (m *UserStore) Create(ctx context.Context, u *user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, ErrMock
	}
	for _, existing := range m.Users {
		if existing.Username == u.Username {
			return nil, user.ErrUsernameTaken
		}
	}
	cp := *u
	m.Users[u.ID.String()] = &cp
	return u, nil
}

func (m *UserStore) FindByID(ctx context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, ErrMock
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *UserStore) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, ErrMock
	}
	for _, u := range m.Users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *UserStore) Update(ctx context.Context, u *user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, ErrMock
	}
	cp := *u
	m.Users[u.ID.String()] = &cp
	return u, nil
}

func (m *UserStore) Search(ctx context.Context, query string, limit int) ([]*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, ErrMock
	}
	q := strings.ToLower(query)
	var out []*user.User
	for _, u := range m.Users {
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Fullname), q) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *UserStore) List(ctx context.Context, limit int) ([]*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, ErrMock
	}
	out := make([]*user.User, 0, len(m.Users))
	for _, u := range m.Users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
