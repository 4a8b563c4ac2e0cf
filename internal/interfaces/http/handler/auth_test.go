package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	identityapp "github.com/boutique/backend/internal/application/identity"
	"github.com/boutique/backend/internal/domain/identity"
	"github.com/boutique/backend/internal/domain/shared"
	"github.com/boutique/backend/internal/domain/wallet"
	"github.com/boutique/backend/internal/infrastructure/auth"
	"github.com/boutique/backend/internal/infrastructure/config"
	"github.com/boutique/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockUserRepository implements identity.UserRepository for testing
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

// MockWalletRepository implements wallet.Repository for testing
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
	return args.Get(0).([]wallet.Transaction), args.Error(1)
}

func (m *MockWalletRepository) CountTransactions(ctx context.Context, walletID uuid.UUID) (int64, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(int64), args.Error(1)
}

func newAuthTestService(users *MockUserRepository, wallets *MockWalletRepository) *identityapp.AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
	return identityapp.NewAuthService(users, wallets, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())
}

func newAuthRouter(h *AuthHandler) *gin.Engine {
	router := gin.New()
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)
	return router
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	users := new(MockUserRepository)
	wallets := new(MockWalletRepository)

	users.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
	users.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)
	wallets.On("Save", mock.Anything, mock.AnythingOfType("*wallet.Wallet")).Return(nil)

	h := NewAuthHandler(newAuthTestService(users, wallets))
	router := newAuthRouter(h)

	rec := performJSON(router, http.MethodPost, "/auth/register", gin.H{
		"email":    "new@example.com",
		"password": "s3cret-password",
		"name":     "Lineo Mokoena",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
			Tokens struct {
				AccessToken string `json:"access_token"`
			} `json:"tokens"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "new@example.com", resp.Data.User.Email)
	assert.NotEmpty(t, resp.Data.Tokens.AccessToken)

	users.AssertExpectations(t)
	wallets.AssertExpectations(t)
}

func TestAuthHandler_RegisterEmailTaken(t *testing.T) {
	users := new(MockUserRepository)
	wallets := new(MockWalletRepository)

	users.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

	h := NewAuthHandler(newAuthTestService(users, wallets))
	router := newAuthRouter(h)

	rec := performJSON(router, http.MethodPost, "/auth/register", gin.H{
		"email":    "taken@example.com",
		"password": "s3cret-password",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_EMAIL_TAKEN")
}

func TestAuthHandler_RegisterInvalidBody(t *testing.T) {
	h := NewAuthHandler(newAuthTestService(new(MockUserRepository), new(MockWalletRepository)))
	router := newAuthRouter(h)

	// Password below minimum length
	rec := performJSON(router, http.MethodPost, "/auth/register", gin.H{
		"email":    "new@example.com",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	users := new(MockUserRepository)
	wallets := new(MockWalletRepository)

	user, err := identity.NewUser("shopper@example.com", "s3cret-password", "Shopper")
	require.NoError(t, err)

	users.On("FindByEmail", mock.Anything, "shopper@example.com").Return(user, nil)
	users.On("Save", mock.Anything, user).Return(nil)

	h := NewAuthHandler(newAuthTestService(users, wallets))
	router := newAuthRouter(h)

	rec := performJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email":    "shopper@example.com",
		"password": "s3cret-password",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	wallets := new(MockWalletRepository)

	user, err := identity.NewUser("shopper@example.com", "s3cret-password", "Shopper")
	require.NoError(t, err)

	users.On("FindByEmail", mock.Anything, "shopper@example.com").Return(user, nil)

	h := NewAuthHandler(newAuthTestService(users, wallets))
	router := newAuthRouter(h)

	rec := performJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email":    "shopper@example.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_INVALID_CREDENTIALS")
}

func TestAuthHandler_LoginDeactivatedAccount(t *testing.T) {
	users := new(MockUserRepository)
	wallets := new(MockWalletRepository)

	user, err := identity.NewUser("gone@example.com", "s3cret-password", "Gone")
	require.NoError(t, err)
	user.Deactivate()

	users.On("FindByEmail", mock.Anything, "gone@example.com").Return(user, nil)

	h := NewAuthHandler(newAuthTestService(users, wallets))
	router := newAuthRouter(h)

	rec := performJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email":    "gone@example.com",
		"password": "s3cret-password",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_ACCOUNT_DEACTIVATED")
}

func TestAuthHandler_GetProfileRequiresAuth(t *testing.T) {
	h := NewAuthHandler(newAuthTestService(new(MockUserRepository), new(MockWalletRepository)))

	router := gin.New()
	router.GET("/auth/me", h.GetProfile)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_GetProfile(t *testing.T) {
	users := new(MockUserRepository)
	wallets := new(MockWalletRepository)

	user, err := identity.NewUser("shopper@example.com", "s3cret-password", "Shopper")
	require.NoError(t, err)

	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	h := NewAuthHandler(newAuthTestService(users, wallets))

	router := gin.New()
	router.GET("/auth/me", func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, user.ID.String())
		h.GetProfile(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shopper@example.com")
}
