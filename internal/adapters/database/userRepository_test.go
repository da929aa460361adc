package database

import (
	"context"
	"testing"
	"timelium/internal/core/postevent"
	"timelium/internal/core/user"
	"timelium/internal/testutil/dbtest"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(username, fullname, loc string) *user.User {
	return &user.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: username,
		Fullname: fullname,
		Location: loc,
		Skills:   []string{},
	}
}

func TestUserRepository_CreateFindUpdate(t *testing.T) {
	repo := NewUserRepositoryDatabase(dbtest.Open(t))
	ctx := context.Background()

	u, err := repo.Create(ctx, newUser("karim", "Karim Ahmed", "Dhaka, Bangladesh"))
	require.NoError(t, err)

	byID, err := repo.FindByID(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "karim", byID.Username)

	byName, err := repo.FindByUsername(ctx, "karim")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byName.Location = "Sylhet, Bangladesh"
	byName.AddSkill("go")
	_, err = repo.Update(ctx, byName)
	require.NoError(t, err)

	again, err := repo.FindByID(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Sylhet, Bangladesh", again.Location)
	assert.Equal(t, []string{"go"}, again.Skills)
}

func TestUserRepository_NotFoundAndDuplicate(t *testing.T) {
	repo := NewUserRepositoryDatabase(dbtest.Open(t))
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.Must(uuid.NewV4()).String())
	assert.ErrorIs(t, err, user.ErrNotFound)
	_, err = repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = repo.Create(ctx, newUser("karim", "Karim", ""))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newUser("karim", "Other Karim", ""))
	assert.ErrorIs(t, err, user.ErrUsernameTaken)
}

func TestUserRepository_Search(t *testing.T) {
	repo := NewUserRepositoryDatabase(dbtest.Open(t))
	ctx := context.Background()
	for _, u := range []*user.User{
		newUser("nadia", "Nadia Islam", ""),
		newUser("tanvir", "Tanvir Hasan", ""),
		newUser("islam_dev", "Rafi", ""),
	} {
		_, err := repo.Create(ctx, u)
		require.NoError(t, err)
	}

	got, err := repo.Search(ctx, "ISLAM", 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "islam_dev", got[0].Username)
	assert.Equal(t, "nadia", got[1].Username)

	got, err = repo.Search(ctx, "_", 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "islam_dev", got[0].Username)
}

func TestUserRepository_ProfileDocumentsRoundTrip(t *testing.T) {
	repo := NewUserRepositoryDatabase(dbtest.Open(t))
	ctx := context.Background()
	u, err := repo.Create(ctx, newUser("shirin", "Shirin Akter", ""))
	require.NoError(t, err)

	u.SetLinks(user.Links{GitHub: "https://github.com/shirin"})
	u.SetHireMe(user.HireMe{ContactEmail: "shirin@example.com"})
	require.True(t, u.AddProject(user.Project{Title: "Timelium", Technologies: []string{"Go"}}))
	require.True(t, u.AddExperience(user.Experience{Company: "Acme", Position: "Engineer"}))
	require.True(t, u.AddEducation(user.Education{Institution: "DU", Degree: "BSc"}))
	_, err = repo.Update(ctx, u)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/shirin", got.Links.GitHub)
	assert.Equal(t, "shirin@example.com", got.HireMe.ContactEmail)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, []string{"Go"}, got.Projects[0].Technologies)
	assert.Equal(t, []user.Experience{{Company: "Acme", Position: "Engineer"}}, got.Experience)
	assert.Equal(t, []user.Education{{Institution: "DU", Degree: "BSc"}}, got.Education)
}

func TestUserRepository_List(t *testing.T) {
	repo := NewUserRepositoryDatabase(dbtest.Open(t))
	ctx := context.Background()
	for _, name := range []string{"zubair", "anika", "mehedi"} {
		_, err := repo.Create(ctx, newUser(name, name, ""))
		require.NoError(t, err)
	}

	got, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "anika", got[0].Username)
	assert.Equal(t, "mehedi", got[1].Username)

	none, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOutboxRepository_PendingLifecycle(t *testing.T) {
	repo := NewOutboxRepositoryDatabase(dbtest.Open(t))
	ctx := context.Background()

	first := postevent.New(postevent.TypeCreated, uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()))
	second := postevent.New(postevent.TypeLiked, first.PostID, uuid.Must(uuid.NewV4()))
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	pending, err := repo.GetPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, repo.MarkDone(ctx, first.ID))
	require.NoError(t, repo.MarkFailed(ctx, second.ID))

	pending, err = repo.GetPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
