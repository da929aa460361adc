package feedapp

import (
	"context"
	"fmt"
	"testing"
	"time"
	"timelium/internal/core/location"
	"timelium/internal/core/post"
	"timelium/internal/core/user"
	"timelium/internal/testutil/memstore"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	posts   *memstore.PostStore
	users   *memstore.UserStore
	service *FeedService
	author  uuid.UUID
}

func newFixture(t *testing.T, viewers ...*user.User) *fixture {
	t.Helper()
	f := &fixture{
		posts:  memstore.NewPostStore(),
		users:  memstore.NewUserStore(viewers...),
		author: uuid.Must(uuid.NewV4()),
	}
	f.service = NewFeedService(f.posts, f.users, nil)
	f.service.Now = func() time.Time { return now }
	return f
}

// add stores a post stamped from loc, created age ago with likes likes.
func (f *fixture) add(content, loc string, age time.Duration, likes int) *post.Post {
	p := &post.Post{
		ID:        uuid.Must(uuid.NewV4()),
		Content:   content,
		UserID:    f.author,
		CreatedAt: now.Add(-age),
	}
	p.StampLocation(location.Resolve(loc))
	for i := 0; i < likes; i++ {
		p.LikedBy.Add(uuid.Must(uuid.NewV4()).String())
	}
	f.posts.Create(context.Background(), p)
	return p
}

func (f *fixture) addMany(n int, prefix, loc string, likes int) {
	for i := 0; i < n; i++ {
		f.add(fmt.Sprintf("%s %d", prefix, i), loc, time.Duration(i+1)*time.Minute, likes)
	}
}

func viewer(loc string) *user.User {
	return &user.User{ID: uuid.Must(uuid.NewV4()), Username: "viewer", Location: loc}
}

func ids(posts []*post.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID.String())
	}
	return out
}

func assertNoDuplicates(t *testing.T, posts []*post.Post) {
	t.Helper()
	seen := map[string]bool{}
	for _, id := range ids(posts) {
		assert.False(t, seen[id], "duplicate post %s", id)
		seen[id] = true
	}
}

func TestCompose_CityTierFillsBudget(t *testing.T) {
	v := viewer("Dhaka, Bangladesh")
	f := newFixture(t, v)
	f.addMany(12, "dhaka", "Dhaka, Bangladesh", 0)
	f.addMany(12, "sylhet", "Sylhet, Bangladesh", 0)
	f.addMany(12, "world", "Paris, France", 5)

	got, err := f.service.Compose(context.Background(), v.ID.String(), "")
	require.NoError(t, err)
	require.Len(t, got, 20)
	assertNoDuplicates(t, got)

	for i, p := range got[:8] {
		assert.Equal(t, "Dhaka", p.LocationCity, "position %d", i)
	}
	for i, p := range got[8:16] {
		assert.Equal(t, "Bangladesh", p.LocationCountry, "position %d", i+8)
	}
	// city posts come newest first
	assert.Equal(t, "dhaka 0", got[0].Content)
}

func TestCompose_CountryBudgetIncludesCityShortfall(t *testing.T) {
	v := viewer("Dhaka, Bangladesh")
	f := newFixture(t, v)
	f.addMany(2, "dhaka", "Dhaka, Bangladesh", 0)
	f.addMany(20, "bd", "Bangladesh", 0)

	_, err := f.service.Compose(context.Background(), v.ID.String(), "")
	require.NoError(t, err)

	city := f.posts.CallsTo("FindByLocationTags")
	require.Len(t, city, 1)
	assert.Equal(t, 8, city[0].Limit)

	country := f.posts.CallsTo("FindByCountryTag")
	require.Len(t, country, 1)
	assert.Equal(t, 14, country[0].Limit)
	assert.Len(t, country[0].Excluded, 2)
}

func TestCompose_NoLocationEqualsAnonymous(t *testing.T) {
	v := viewer("")
	f := newFixture(t, v)
	f.addMany(25, "post", "Dhaka, Bangladesh", 1)

	withViewer, err := f.service.Compose(context.Background(), v.ID.String(), "")
	require.NoError(t, err)
	anonymous, err := f.service.Compose(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, ids(anonymous), ids(withViewer))
	assert.Len(t, withViewer, 20)
	assert.Empty(t, f.posts.CallsTo("FindByLocationTags"))
	assert.Empty(t, f.posts.CallsTo("FindByCountryTag"))
	for _, c := range f.posts.CallsTo("FindPopular") {
		assert.Equal(t, 20, c.Limit)
	}
}

func TestCompose_UnknownViewerTreatedAsAnonymous(t *testing.T) {
	f := newFixture(t)
	f.addMany(3, "post", "Dhaka, Bangladesh", 0)

	got, err := f.service.Compose(context.Background(), uuid.Must(uuid.NewV4()).String(), "")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestCompose_CountryOnlyViewerSkipsCityTier(t *testing.T) {
	v := viewer("Bangladesh")
	f := newFixture(t, v)
	f.addMany(20, "bd", "Chittagong, Bangladesh", 0)

	got, err := f.service.Compose(context.Background(), v.ID.String(), "")
	require.NoError(t, err)
	assert.Len(t, got, 20)
	assert.Empty(t, f.posts.CallsTo("FindByLocationTags"))
	country := f.posts.CallsTo("FindByCountryTag")
	require.Len(t, country, 1)
	assert.Equal(t, 16, country[0].Limit)
}

func TestCompose_CarryOverAcrossAllTiers(t *testing.T) {
	v := viewer("Dhaka, Bangladesh")
	f := newFixture(t, v)
	f.addMany(3, "dhaka", "Dhaka, Bangladesh", 0)
	f.addMany(10, "bd", "Khulna, Bangladesh", 0)
	f.addMany(50, "popular", "Tokyo, Japan", 3)

	got, err := f.service.Compose(context.Background(), v.ID.String(), "")
	require.NoError(t, err)
	require.Len(t, got, 20)
	assertNoDuplicates(t, got)

	var city, country, popular int
	for _, p := range got {
		switch {
		case p.LocationCity == "Dhaka":
			city++
		case p.LocationCountry == "Bangladesh":
			country++
		default:
			popular++
		}
	}
	assert.Equal(t, 3, city)
	assert.Equal(t, 10, country)
	assert.Equal(t, 7, popular)

	pop := f.posts.CallsTo("FindPopular")
	require.Len(t, pop, 1)
	assert.Equal(t, 7, pop[0].Limit)
	assert.Len(t, pop[0].Excluded, 13)
}

func TestCompose_PopularRespectsWindowAndLikes(t *testing.T) {
	f := newFixture(t)
	stale := f.add("old but loved", "", 40*24*time.Hour, 100)
	top := f.add("recent and loved", "", 2*time.Hour, 10)
	f.add("recent", "", time.Hour, 1)

	got, err := f.service.Compose(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, top.ID, got[0].ID)
	assert.NotContains(t, ids(got), stale.ID.String())
}

func TestCompose_EmptyCorpus(t *testing.T) {
	v := viewer("Dhaka, Bangladesh")
	f := newFixture(t, v)

	got, err := f.service.Compose(context.Background(), v.ID.String(), "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCompose_TierErrorAborts(t *testing.T) {
	v := viewer("Dhaka, Bangladesh")
	f := newFixture(t, v)
	f.addMany(3, "dhaka", "Dhaka, Bangladesh", 0)
	f.posts.FailOn["FindByCountryTag"] = true

	got, err := f.service.Compose(context.Background(), v.ID.String(), "")
	assert.ErrorIs(t, err, memstore.ErrMock)
	assert.Contains(t, err.Error(), "country tier")
	assert.Nil(t, got)
	assert.Empty(t, f.posts.CallsTo("FindPopular"))
}

func TestCompose_ViewerLookupErrorAborts(t *testing.T) {
	f := newFixture(t)
	f.users.ShouldFail = true

	_, err := f.service.Compose(context.Background(), uuid.Must(uuid.NewV4()).String(), "")
	assert.ErrorIs(t, err, memstore.ErrMock)
}

func TestCompose_QueryBypassesTiers(t *testing.T) {
	v := viewer("Dhaka, Bangladesh")
	f := newFixture(t, v)
	f.add("Design systems at scale", "Dhaka, Bangladesh", time.Minute, 0)
	f.add("good DESIGN matters", "Paris, France", 2*time.Minute, 0)
	f.add("unrelated", "Dhaka, Bangladesh", 3*time.Minute, 0)

	got, err := f.service.Compose(context.Background(), v.ID.String(), "design")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Empty(t, f.posts.CallsTo("FindByLocationTags"))
	assert.Empty(t, f.posts.CallsTo("FindPopular"))
}

func TestSearch_HashPrefixIgnored(t *testing.T) {
	f := newFixture(t)
	f.add("#Design week", "", time.Minute, 0)
	f.add("design review", "", 2*time.Minute, 0)

	hashed, err := f.service.Search(context.Background(), "#Design")
	require.NoError(t, err)
	plain, err := f.service.Search(context.Background(), "Design")
	require.NoError(t, err)

	assert.Equal(t, ids(plain), ids(hashed))
	assert.Len(t, plain, 2)
}

func TestSearch_CappedAtLimit(t *testing.T) {
	f := newFixture(t)
	f.addMany(60, "golang tip", "", 0)

	got, err := f.service.Search(context.Background(), "golang")
	require.NoError(t, err)
	assert.Len(t, got, 50)
	assert.Equal(t, "golang tip 0", got[0].Content)
}

func TestSearch_NoMatches(t *testing.T) {
	f := newFixture(t)
	f.add("hello", "", time.Minute, 0)

	got, err := f.service.Search(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}
