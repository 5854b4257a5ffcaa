package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"letrario/internal/config"
	"letrario/internal/http-api/middleware/auth"
	"letrario/internal/http-api/models"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByUsername", "lector").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "lector@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	user, err := authService.Register("lector", "password123", "lector@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "lector", user.Username)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.Password)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_UsernameExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByUsername", "lector").Return(&models.User{Username: "lector"}, nil)

	user, err := authService.Register("lector", "password123", "lector@example.com")

	assert.Equal(t, ErrNameInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	hashed, _ := auth.HashPassword("password123")
	user := &models.User{ID: "user-1", Username: "lector", Password: hashed}

	mockUserRepo.On("FindByUsername", "lector").Return(user, nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, loggedIn, err := authService.Login("lector", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "user-1", loggedIn.ID)

	// the issued access token round-trips through validation
	userID, err := authService.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	mockUserRepo.AssertExpectations(t)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	hashed, _ := auth.HashPassword("password123")
	mockUserRepo.On("FindByUsername", "lector").
		Return(&models.User{ID: "user-1", Username: "lector", Password: hashed}, nil)

	_, _, _, err := authService.Login("lector", "wrong")

	assert.Equal(t, ErrInvalidCredentials, err)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_UnknownUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByUsername", "nadie").Return(nil, gorm.ErrRecordNotFound)

	_, _, _, err := authService.Login("nadie", "password123")

	assert.Equal(t, ErrInvalidCredentials, err)
	mockUserRepo.AssertExpectations(t)
}

func TestRefreshAccessToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	stored := &models.RefreshToken{
		ID:        "token-1",
		UserID:    "user-1",
		Token:     "refresh-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	mockRefreshTokenRepo.On("FindByToken", "refresh-token").Return(stored, nil)
	mockUserRepo.On("FindByID", "user-1").Return(&models.User{ID: "user-1", Username: "lector"}, nil)

	accessToken, err := authService.RefreshAccessToken("refresh-token")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	mockRefreshTokenRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestRefreshAccessToken_Revoked(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	stored := &models.RefreshToken{
		ID:        "token-1",
		UserID:    "user-1",
		Token:     "refresh-token",
		ExpiresAt: time.Now().Add(time.Hour),
		Revoked:   true,
	}
	mockRefreshTokenRepo.On("FindByToken", "refresh-token").Return(stored, nil)

	_, err := authService.RefreshAccessToken("refresh-token")

	assert.Equal(t, ErrInvalidToken, err)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestRefreshAccessToken_Expired(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	stored := &models.RefreshToken{
		ID:        "token-1",
		UserID:    "user-1",
		Token:     "refresh-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	mockRefreshTokenRepo.On("FindByToken", "refresh-token").Return(stored, nil)
	mockRefreshTokenRepo.On("Delete", "token-1").Return(nil)

	_, err := authService.RefreshAccessToken("refresh-token")

	assert.Equal(t, ErrExpiredToken, err)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestRevokeToken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	stored := &models.RefreshToken{ID: "token-1", Token: "refresh-token"}
	mockRefreshTokenRepo.On("FindByToken", "refresh-token").Return(stored, nil)
	mockRefreshTokenRepo.On("Revoke", "token-1").Return(nil)

	assert.NoError(t, authService.RevokeToken("refresh-token"))
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestRevokeToken_UnknownIsSilent(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockRefreshTokenRepo.On("FindByToken", "desconocido").Return(nil, gorm.ErrRecordNotFound)

	assert.NoError(t, authService.RevokeToken("desconocido"))
	mockRefreshTokenRepo.AssertNotCalled(t, "Revoke", mock.Anything)
}

func TestValidateToken_Garbage(t *testing.T) {
	authService := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), testAuthConfig())

	_, err := authService.ValidateToken("not-a-jwt")

	assert.Equal(t, ErrInvalidToken, err)
}
