package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/tokens"
)

func TestAuthService_Signup_FirstUserBecomesAdmin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	first, err := svc.Signup(ctx, "a@x.com", "a", "p1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.Role)

	second, err := svc.Signup(ctx, "b@x.com", "b", "p2")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, second.Role)

	third, err := svc.Signup(ctx, "c@x.com", "c", "p3")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, third.Role)
}

func TestAuthService_Signup_DuplicateIdentity(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@x.com", "a", "p1")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "a@x.com", "other", "p2")
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	_, err = svc.Signup(ctx, "other@x.com", "a", "p2")
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestAuthService_Signup_NeverStoresPlaintext(t *testing.T) {
	t.Parallel()

	svc, store := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "a@x.com", "a", "p1")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", user.PasswordHash)

	stored, err := store.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotContains(t, stored.PasswordHash, "p1")
}

func TestAuthService_Signup_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		username string
		password string
	}{
		{name: "empty email", email: "", username: "a", password: "p"},
		{name: "empty username", email: "a@x.com", username: "", password: "p"},
		{name: "empty password", email: "a@x.com", username: "a", password: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.email, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Signin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@x.com", "a", "p1")
	require.NoError(t, err)

	_, errUnknown := svc.Signin(ctx, "nobody@x.com", "p1")
	_, errWrongPw := svc.Signin(ctx, "a@x.com", "wrong")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestAuthService_Signin_IssuesPairAndPersistsRefresh(t *testing.T) {
	t.Parallel()

	svc, store := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@x.com", "a", "p1")
	require.NoError(t, err)

	pair, err := svc.Signin(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)

	ac, err := svc.Tokens.Parse(pair.AccessToken)
	require.NoError(t, err)
	rc, err := svc.Tokens.Parse(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.ScopeAccess, ac.Scope)
	assert.Equal(t, tokens.ScopeRefresh, rc.Scope)
	assert.Equal(t, "a@x.com", ac.Subject)

	user, err := store.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *user.RefreshToken)
}

func TestAuthService_Refresh_IssuesAccessOnly(t *testing.T) {
	t.Parallel()

	svc, store := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@x.com", "a", "p1")
	require.NoError(t, err)
	pair, err := svc.Signin(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.Tokens.Parse(access)
	require.NoError(t, err)
	assert.Equal(t, tokens.ScopeAccess, claims.Scope)

	// no rotation: the stored refresh token is untouched
	user, err := store.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *user.RefreshToken)
}

func TestAuthService_Refresh_RejectsAccessTokenScope(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@x.com", "a", "p1")
	require.NoError(t, err)
	pair, err := svc.Signin(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Refresh_RejectsGarbage(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)

	_, err := svc.Refresh(context.Background(), "not-a-valid-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Refresh_InvalidAfterSignout(t *testing.T) {
	t.Parallel()

	svc, store := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@x.com", "a", "p1")
	require.NoError(t, err)
	pair, err := svc.Signin(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	user, err := store.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NoError(t, svc.Signout(ctx, user))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Refresh_OnlyMostRecentRefreshTokenValid(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@x.com", "a", "p1")
	require.NoError(t, err)

	stolen, err := svc.Signin(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	// token timestamps have second resolution, two signins within the
	// same second would mint identical refresh tokens
	time.Sleep(1100 * time.Millisecond)

	fresh, err := svc.Signin(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	require.NotEqual(t, stolen.RefreshToken, fresh.RefreshToken)

	// the earlier token is cryptographically valid but no longer stored
	_, err = svc.Refresh(ctx, stolen.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Refresh(ctx, fresh.RefreshToken)
	assert.NoError(t, err)
}

// hookedUserStore wraps a real store and fires callbacks at the points
// where the auth flows interleave, making the races deterministic.
type hookedUserStore struct {
	UserStore
	afterCount func()
	afterFind  func(u *models.User)
}

func (s *hookedUserStore) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.UserStore.CountUsers(ctx)
	if err == nil && s.afterCount != nil {
		hook := s.afterCount
		s.afterCount = nil
		hook()
	}
	return n, err
}

func (s *hookedUserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.UserStore.FindUserByEmail(ctx, email)
	if err == nil && s.afterFind != nil {
		hook := s.afterFind
		s.afterFind = nil
		hook(u)
	}
	return u, err
}

// The bootstrap count and the insert are separate statements, so two
// interleaved first signups can both observe an empty store and both be
// granted admin. The interleaving is pinned here: the second signup runs
// to completion between the first one's CountUsers and CreateUser.
func TestAuthService_Signup_BootstrapRaceGrantsTwoAdmins(t *testing.T) {
	t.Parallel()

	svc, store := newTestAuthService(t)
	ctx := context.Background()

	hooked := &hookedUserStore{UserStore: store}
	svc.Store = hooked

	rival := &AuthService{Store: store, Tokens: svc.Tokens}
	var second *models.User
	hooked.afterCount = func() {
		u, err := rival.Signup(ctx, "b@x.com", "b", "p2")
		require.NoError(t, err)
		second = u
	}

	first, err := svc.Signup(ctx, "a@x.com", "a", "p1")
	require.NoError(t, err)

	require.NotNil(t, second)
	assert.Equal(t, models.RoleAdmin, first.Role)
	assert.Equal(t, models.RoleAdmin, second.Role)
}

// The stored-value comparison in Refresh is a read-then-check with no
// lock: a signout landing between the user load and the comparison does
// not stop the refresh from succeeding against the token it just
// invalidated. Later refreshes see the cleared row and fail.
func TestAuthService_Refresh_SucceedsAgainstConcurrentSignout(t *testing.T) {
	t.Parallel()

	svc, store := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@x.com", "a", "p1")
	require.NoError(t, err)
	pair, err := svc.Signin(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	hooked := &hookedUserStore{UserStore: store}
	racing := &AuthService{Store: hooked, Tokens: svc.Tokens}
	hooked.afterFind = func(u *models.User) {
		require.NoError(t, svc.Signout(ctx, u))
	}

	access, err := racing.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, access)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
