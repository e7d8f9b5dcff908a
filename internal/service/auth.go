package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"OnSite/internal/model"
	"OnSite/internal/model/dto"
	"OnSite/internal/repository"
	"OnSite/pkg/errors"
	"OnSite/pkg/logger"
	"OnSite/pkg/snowflake"
	"OnSite/pkg/token"
)

// AuthService 注册、登录与令牌刷新
type AuthService struct {
	store repository.UserStore
	// 首个注册用户授予管理员时串行化，避免并发注册出现两个管理员
	registerMu sync.Mutex
}

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = NewAuthService(repository.NewUserStore())
	})

	return authService
}

func NewAuthService(store repository.UserStore) *AuthService {
	return &AuthService{store: store}
}

// Register 注册新用户，首个注册用户自动成为管理员
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserData, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, errors.EmailAlreadyRegistered
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	role := model.UserRoleEmployee
	if count == 0 {
		role = model.UserRoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	publicID, err := snowflake.NextID(snowflake.GeneratorTypeUser)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		PublicID:     publicID,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Logger.Info("User registered",
		zap.Int64("user_id", user.PublicID),
		zap.String("role", string(user.Role)),
	)

	return userData(user), nil
}

// Login 校验邮箱密码并下发令牌对
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthTokenData, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.InvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.InvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh 校验刷新令牌并换发新令牌对
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthTokenData, error) {
	userID, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized
	}

	publicID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, errors.InvalidUserID
	}

	user, err := s.store.GetByPublicID(ctx, publicID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	return s.issueTokens(user)
}

// Profile 返回当前用户信息
func (s *AuthService) Profile(ctx context.Context, publicID int64) (*dto.UserData, error) {
	user, err := s.store.GetByPublicID(ctx, publicID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	return userData(user), nil
}

func (s *AuthService) issueTokens(user *model.User) (*dto.AuthTokenData, error) {
	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(
		strconv.FormatInt(user.PublicID, 10),
		string(user.Role),
	)
	if err != nil {
		return nil, err
	}

	return &dto.AuthTokenData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		TokenType:    "Bearer",
		User:         *userData(user),
	}, nil
}

func userData(user *model.User) *dto.UserData {
	return &dto.UserData{
		ID:    user.PublicID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
}
