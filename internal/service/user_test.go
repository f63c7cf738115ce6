package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository"
	"github.com/duelstack/ytg-api/internal/repository/dao"
	"github.com/duelstack/ytg-api/internal/service"
	"github.com/duelstack/ytg-api/internal/testutil"
)

func newUserServices(t *testing.T) (*service.AuthService, *service.UserService, *gorm.DB) {
	t.Helper()

	db := testutil.OpenTestDB(t)
	repo := repository.NewUserRepository(dao.NewUserDAO(db))

	return service.NewAuthService(repo), service.NewUserService(repo), db
}

func registerUser(t *testing.T, auth *service.AuthService, username string) domain.User {
	t.Helper()

	user, err := auth.Register(context.Background(), domain.User{
		Username: username,
		Nickname: username,
		Password: "duelpass1",
	})
	require.NoError(t, err)

	return user
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _, _ := newUserServices(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, domain.User{
		Username: "yugi",
		Password: "duelpass1",
		Email:    "yugi@duelstack.gg",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	_, err = auth.Register(ctx, domain.User{Username: "yugi", Password: "duelpass1"})
	require.ErrorIs(t, err, service.ErrUsernameExists)

	_, err = auth.Register(ctx, domain.User{
		Username: "impostor",
		Password: "duelpass1",
		Email:    "yugi@duelstack.gg",
	})
	require.ErrorIs(t, err, service.ErrUserEmailExists)

	logged, err := auth.Login(ctx, "yugi", "duelpass1")
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)

	_, err = auth.Login(ctx, "yugi", "wrongpass1")
	require.ErrorIs(t, err, service.ErrWrongPassword)

	_, err = auth.Login(ctx, "nobody", "duelpass1")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUpdateProfile_NicknameThrottle(t *testing.T) {
	auth, users, db := newUserServices(t)
	ctx := context.Background()

	user := registerUser(t, auth, "yugi")

	updated, err := users.UpdateProfile(ctx, user.ID, service.ProfileUpdate{Nickname: "king-of-games"})
	require.NoError(t, err)
	require.Equal(t, "king-of-games", updated.Nickname)
	require.NotNil(t, updated.LastNameChange)

	_, err = users.UpdateProfile(ctx, user.ID, service.ProfileUpdate{Nickname: "pharaoh"})
	require.ErrorIs(t, err, service.ErrNicknameChangeTooSoon)

	// 31 days later the window has passed.
	past := time.Now().Add(-31 * 24 * time.Hour)
	require.NoError(t, db.Model(&dao.User{}).Where("id = ?", user.ID).Update("last_name_change", past).Error)

	updated, err = users.UpdateProfile(ctx, user.ID, service.ProfileUpdate{Nickname: "pharaoh"})
	require.NoError(t, err)
	require.Equal(t, "pharaoh", updated.Nickname)
}

func TestUpdateProfile_NicknameTaken(t *testing.T) {
	auth, users, _ := newUserServices(t)
	ctx := context.Background()

	registerUser(t, auth, "kaiba")
	user := registerUser(t, auth, "yugi")

	_, err := users.UpdateProfile(ctx, user.ID, service.ProfileUpdate{Nickname: "kaiba"})
	require.ErrorIs(t, err, service.ErrUserNicknameExists)
}

func TestUpdateProfile_EmailOnly(t *testing.T) {
	auth, users, _ := newUserServices(t)
	ctx := context.Background()

	user := registerUser(t, auth, "yugi")

	updated, err := users.UpdateProfile(ctx, user.ID, service.ProfileUpdate{Email: "yugi@duelstack.gg"})
	require.NoError(t, err)
	require.Equal(t, "yugi@duelstack.gg", updated.Email)
	// Nickname untouched, so the 30-day clock never started.
	require.Equal(t, "yugi", updated.Nickname)
	require.Nil(t, updated.LastNameChange)
}

func TestChangePassword(t *testing.T) {
	auth, users, _ := newUserServices(t)
	ctx := context.Background()

	user := registerUser(t, auth, "yugi")

	err := users.ChangePassword(ctx, user.ID, "wrongpass1", "newduel22")
	require.ErrorIs(t, err, service.ErrWrongPassword)

	err = users.ChangePassword(ctx, user.ID, "duelpass1", "newduel22")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "yugi", "newduel22")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "yugi", "duelpass1")
	require.ErrorIs(t, err, service.ErrWrongPassword)
}
