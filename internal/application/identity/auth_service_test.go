package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/boutique/backend/internal/domain/identity"
	"github.com/boutique/backend/internal/domain/shared"
	"github.com/boutique/backend/internal/domain/wallet"
	"github.com/boutique/backend/internal/infrastructure/auth"
	"github.com/boutique/backend/internal/infrastructure/config"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Save(ctx context.Context, w *wallet.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWalletRepository) SaveTransaction(ctx context.Context, tx *wallet.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockWalletRepository) FindTransactions(ctx context.Context, walletID uuid.UUID, filter shared.Filter) ([]wallet.Transaction, error) {
	args := m.Called(ctx, walletID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wallet.Transaction), args.Error(1)
}

func (m *MockWalletRepository) CountTransactions(ctx context.Context, walletID uuid.UUID) (int64, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(t *testing.T) (*AuthService, *MockUserRepository, *MockWalletRepository) {
	t.Helper()
	userRepo := new(MockUserRepository)
	walletRepo := new(MockWalletRepository)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-test-secret-test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "boutique-test",
		MaxRefreshCount:        5,
	})
	svc := NewAuthService(userRepo, walletRepo, jwtService, auth.NewInMemoryTokenBlacklist(), nil)
	return svc, userRepo, walletRepo
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, walletRepo := newTestService(t)

	userRepo.On("ExistsByEmail", ctx, "lineo@example.com").Return(false, nil)
	userRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
	walletRepo.On("Save", ctx, mock.AnythingOfType("*wallet.Wallet")).Return(nil)

	resp, err := svc.Register(ctx, RegisterInput{
		Email:    "Lineo@Example.com",
		Password: "s3cret-pass",
		Name:     "Lineo M",
	})
	require.NoError(t, err)
	assert.Equal(t, "lineo@example.com", resp.User.Email)
	assert.False(t, resp.User.IsAdmin)
	assert.NotEmpty(t, resp.Tokens.AccessToken)

	walletRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService(t)

	userRepo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

	_, err := svc.Register(ctx, RegisterInput{Email: "taken@example.com", Password: "s3cret-pass"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService(t)

	user, err := identity.NewUser("thabo@example.com", "s3cret-pass", "Thabo")
	require.NoError(t, err)

	userRepo.On("FindByEmail", ctx, "thabo@example.com").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	resp, err := svc.Login(ctx, LoginInput{Email: "thabo@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), resp.User.ID)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService(t)

	user, err := identity.NewUser("thabo@example.com", "s3cret-pass", "Thabo")
	require.NoError(t, err)
	userRepo.On("FindByEmail", ctx, "thabo@example.com").Return(user, nil)

	_, err = svc.Login(ctx, LoginInput{Email: "thabo@example.com", Password: "wrong-pass"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService(t)

	userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, shared.ErrNotFound)

	_, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "whatever1"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	// Unknown email and wrong password are indistinguishable to the caller
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService(t)

	user, err := identity.NewUser("gone@example.com", "s3cret-pass", "Gone")
	require.NoError(t, err)
	user.Deactivate()
	userRepo.On("FindByEmail", ctx, "gone@example.com").Return(user, nil)

	_, err = svc.Login(ctx, LoginInput{Email: "gone@example.com", Password: "s3cret-pass"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
}

func TestRefreshRotatesAndRevokesOldToken(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService(t)

	user, err := identity.NewUser("thabo@example.com", "s3cret-pass", "Thabo")
	require.NoError(t, err)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	pair, err := svc.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID, Email: user.Email,
	})
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)

	// The old refresh token must be rejected after rotation
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	pair, err := svc.jwtService.GenerateTokenPair(auth.GenerateTokenInput{UserID: uuid.New()})
	require.NoError(t, err)
	claims, err := svc.jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims, pair.RefreshToken))

	revoked, err := svc.IsAccessTokenRevoked(ctx, claims)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService(t)

	user, err := identity.NewUser("thabo@example.com", "old-password", "Thabo")
	require.NoError(t, err)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordInput{
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	})
	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("new-password"))
}
