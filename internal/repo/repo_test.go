package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
)

func initTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Photo{}, &models.Tag{}, &models.Comment{}))
	return New(db)
}

func TestUserUniqueConstraints(t *testing.T) {
	t.Parallel()
	r := initTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateUser(ctx, &models.User{
		Username: "a", Email: "a@x.com", PasswordHash: "h", Role: models.RoleUser,
	}))

	err := r.CreateUser(ctx, &models.User{
		Username: "a", Email: "other@x.com", PasswordHash: "h", Role: models.RoleUser,
	})
	assert.Error(t, err)

	err = r.CreateUser(ctx, &models.User{
		Username: "other", Email: "a@x.com", PasswordHash: "h", Role: models.RoleUser,
	})
	assert.Error(t, err)
}

func TestFindUserByUsernameOrEmail(t *testing.T) {
	t.Parallel()
	r := initTestRepo(t)
	ctx := context.Background()

	u := &models.User{Username: "a", Email: "a@x.com", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, r.CreateUser(ctx, u))

	got, err := r.FindUserByUsernameOrEmail(ctx, "a", "nope@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.FindUserByUsernameOrEmail(ctx, "nope", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.FindUserByUsernameOrEmail(ctx, "nope", "nope@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetRefreshTokenNilClears(t *testing.T) {
	t.Parallel()
	r := initTestRepo(t)
	ctx := context.Background()

	u := &models.User{Username: "a", Email: "a@x.com", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, r.CreateUser(ctx, u))

	token := "refresh-token"
	require.NoError(t, r.SetRefreshToken(ctx, u.ID, &token))

	got, err := r.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, token, *got.RefreshToken)

	require.NoError(t, r.SetRefreshToken(ctx, u.ID, nil))

	got, err = r.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RefreshToken)
}

func TestUpsertTagsReusesExisting(t *testing.T) {
	t.Parallel()
	r := initTestRepo(t)
	ctx := context.Background()

	first, err := r.UpsertTags(ctx, []string{"cats", "pets"})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := r.UpsertTags(ctx, []string{"pets", "travel"})
	require.NoError(t, err)
	require.Len(t, second, 2)

	// "pets" resolves to the same row both times
	assert.Equal(t, first[1].ID, second[0].ID)
	assert.NotEqual(t, second[0].ID, second[1].ID)
}

func TestDeletePhotoCascades(t *testing.T) {
	t.Parallel()
	r := initTestRepo(t)
	ctx := context.Background()

	u := &models.User{Username: "a", Email: "a@x.com", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, r.CreateUser(ctx, u))

	tags, err := r.UpsertTags(ctx, []string{"cats"})
	require.NoError(t, err)

	photo := &models.Photo{URL: "https://img.example/x", PublicID: "x", OwnerID: u.ID, Tags: tags}
	require.NoError(t, r.CreatePhoto(ctx, photo))
	require.NoError(t, r.CreateComment(ctx, &models.Comment{Text: "hi", UserID: u.ID, PhotoID: photo.ID}))

	require.NoError(t, r.DeletePhoto(ctx, photo))

	_, err = r.GetPhoto(ctx, photo.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	comments, err := r.ListCommentsByPhoto(ctx, photo.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, comments)

	// the tag row itself survives, only the link is removed
	tags, err = r.UpsertTags(ctx, []string{"cats"})
	require.NoError(t, err)
	assert.NotZero(t, tags[0].ID)
}
