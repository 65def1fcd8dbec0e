package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugh/ritum/internal/auth"
	"github.com/hugh/ritum/internal/database/models"
	"github.com/hugh/ritum/internal/testutil"
)

func TestService_RegisterAndLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	jwtService := testutil.CreateTestJWTService()
	svc := auth.NewService(db, jwtService)
	ctx := testutil.TestContext(t)

	user, err := svc.Register(ctx, auth.RegisterInput{
		Email:    "Test@Example.com",
		Password: "password123",
		Name:     "Dra. Teste",
		OABState: "sp",
		Address:  models.Address{City: "São Paulo", ZipCode: "01001-000"},
	})
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "SP", user.OABState)
	assert.NotEqual(t, "password123", user.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, auth.RegisterInput{Email: "test@example.com", Password: "password123"})
		assert.ErrorIs(t, err, auth.ErrUserExists)
	})

	t.Run("login issues a pair", func(t *testing.T) {
		pair, err := svc.Login(ctx, auth.LoginInput{Email: "test@example.com", Password: "password123"})
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(pair.AccessToken, auth.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", claims.Subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		pair, err := svc.Login(ctx, auth.LoginInput{Email: "test@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Nil(t, pair)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginInput{Email: "nobody@example.com", Password: "password123"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("address round trips", func(t *testing.T) {
		got, err := svc.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "São Paulo", got.Address.Data().City)
		assert.Equal(t, "01001-000", got.Address.Data().ZipCode)
	})
}

func TestService_Refresh(t *testing.T) {
	ts := testutil.NewTestContext(t)
	ctx := testutil.TestContext(t)

	pair, err := ts.JWTService.GenerateTokenPair(ts.User.Email)
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		next, err := ts.AuthService.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, next.AccessToken)
		assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

		// The previous refresh token is not revoked.
		_, err = ts.AuthService.Refresh(ctx, pair.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		_, err := ts.AuthService.Refresh(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost, err := ts.JWTService.GenerateRefreshToken("ghost@example.com")
		require.NoError(t, err)

		_, err = ts.AuthService.Refresh(ctx, ghost)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	ts := testutil.NewTestContext(t)
	ctx := testutil.TestContext(t)

	phone := "11988887777"
	user, err := ts.AuthService.UpdateProfile(ctx, ts.User.ID, auth.ProfileUpdate{
		Phone:   &phone,
		Address: &models.Address{Street: "Rua A", City: "Campinas"},
	})
	require.NoError(t, err)
	assert.Equal(t, phone, user.Phone)
	assert.Equal(t, ts.User.Email, user.Email)
	assert.Equal(t, ts.User.Name, user.Name)

	// A second address replaces the first wholesale.
	user, err = ts.AuthService.UpdateProfile(ctx, ts.User.ID, auth.ProfileUpdate{
		Address: &models.Address{City: "Santos"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.Address{City: "Santos"}, user.Address.Data())
	assert.Equal(t, phone, user.Phone)
}

func TestService_ChangePassword(t *testing.T) {
	ts := testutil.NewTestContext(t)
	ctx := testutil.TestContext(t)

	err := ts.AuthService.ChangePassword(ctx, ts.User.ID, "wrong", "newpassword1")
	assert.ErrorIs(t, err, auth.ErrWrongPassword)

	err = ts.AuthService.ChangePassword(ctx, ts.User.ID, testutil.TestPassword, "newpassword1")
	require.NoError(t, err)

	_, err = ts.AuthService.Login(ctx, auth.LoginInput{Email: ts.User.Email, Password: "newpassword1"})
	assert.NoError(t, err)
	_, err = ts.AuthService.Login(ctx, auth.LoginInput{Email: ts.User.Email, Password: testutil.TestPassword})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
