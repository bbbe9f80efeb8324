package services

import (
	"context"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AuthService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	db           *database.DB
	cacheService *CacheService
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, db *database.DB, cacheService *CacheService) *AuthService {
	return &AuthService{
		logger:       logger,
		cfg:          cfg,
		db:           db,
		cacheService: cacheService,
	}
}

func (as *AuthService) Login(ctx context.Context, authRequest *structs.AuthRequest) (*tables.User, error) {
	startTime := time.Now()
	email := lib.SanitizeString(authRequest.Email, true, true)

	user, err := database.Query[tables.User](as.db).Where("email", email).First(ctx)
	if err != nil {
		as.logger.Error("Unexpected database error during login",
			gecho.Field("error_detail", lib.GetDetailForLogging(err)),
		)
		// never leak whether the account exists
		return nil, lib.ErrInvalidCredentials
	}
	if user == nil {
		as.logger.Debug("User not found during login attempt", gecho.Field("identifier", email))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := lib.VerifyPassword(authRequest.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt", gecho.Field("user_id", user.Id))
		return nil, lib.ErrInvalidCredentials
	}

	if user.Banned {
		as.logger.Info("Banned user tried to log in", gecho.Field("user_id", user.Id))
		return nil, lib.ErrUserBanned
	}
	if as.cfg.Auth.RequireVerifiedEmail && !user.EmailVerified {
		return nil, lib.ErrEmailNotVerified
	}

	as.logger.Debug("User logged in successfully",
		gecho.Field("user_id", user.Id),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()),
	)

	user.PasswordHash = ""
	if err := as.cacheService.SetUser(ctx, user); err != nil {
		as.logger.Warn("Failed to set user in cache after login", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}

	return user, nil
}

func (as *AuthService) Register(ctx context.Context, registerRequest *structs.RegisterRequest) (*tables.User, error) {
	passwordHash, err := lib.HashPassword(registerRequest.Password, lib.DefaultArgonParams)
	if err != nil {
		as.logger.Error("Failed to hash password", gecho.Field("error", err))
		return nil, err
	}

	user := &tables.User{
		Id:           uuid.New(),
		Username:     strings.TrimSpace(registerRequest.Username),
		Email:        lib.SanitizeString(registerRequest.Email, true, true),
		PasswordHash: passwordHash,
		Role:         structs.RoleUser,
		CreatedAt:    time.Now(),
		LastLogin:    time.Now(),
	}
	user, err = database.Query[tables.User](as.db).Insert(ctx, user)
	if err != nil {
		mappedErr := lib.MapPgError(err)
		if lib.IsUniqueViolation(mappedErr) {
			as.logger.Warn("Registration failed - duplicate user", gecho.Field("username", registerRequest.Username))
		} else {
			as.logger.Error("Database error during registration", gecho.Field("error", lib.GetDetailForLogging(err)))
		}
		return nil, mappedErr
	}

	as.logger.Info("User registered", gecho.Field("user_id", user.Id))
	user.PasswordHash = ""
	return user, nil
}

func (as *AuthService) newClaims(user *tables.User, expiry time.Duration) *structs.AuthClaims {
	now := time.Now()
	return &structs.AuthClaims{
		Sub:   user.Id,
		Email: user.Email,
		Role:  user.Role,
		Iat:   now,
		Exp:   now.Add(expiry),
		Jti:   uuid.New(),
	}
}

// GenerateAccessToken generates a JWT access token for the given user
func (as *AuthService) GenerateAccessToken(user *tables.User) (string, error) {
	return lib.SignToken(as.newClaims(user, as.cfg.Auth.AccessTokenExpiry), as.cfg.Auth.AccessTokenSecret)
}

// GenerateRefreshToken generates a JWT refresh token for the given user
func (as *AuthService) GenerateRefreshToken(user *tables.User) (string, error) {
	return lib.SignToken(as.newClaims(user, as.cfg.Auth.RefreshTokenExpiry), as.cfg.Auth.RefreshTokenSecret)
}

func (as *AuthService) GetAccessTokenExpiration() time.Time {
	return time.Now().Add(as.cfg.Auth.AccessTokenExpiry)
}

func (as *AuthService) GetRefreshTokenExpiration() time.Time {
	return time.Now().Add(as.cfg.Auth.RefreshTokenExpiry)
}

// IssueTokens creates a fresh access/refresh pair for user
func (as *AuthService) IssueTokens(user *tables.User) (*tables.AuthResponse, error) {
	accessToken, err := as.GenerateAccessToken(user)
	if err != nil {
		as.logger.Error("Failed to generate access token", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, err
	}
	refreshToken, err := as.GenerateRefreshToken(user)
	if err != nil {
		as.logger.Error("Failed to generate refresh token", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, err
	}
	return &tables.AuthResponse{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshAccessToken rotates the refresh token: the old jti is blacklisted and a new pair is issued
func (as *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*tables.AuthResponse, error) {
	claims, err := lib.ParseToken(refreshToken, as.cfg.Auth.RefreshTokenSecret)
	if err != nil {
		as.logger.Debug("Failed to parse refresh token", gecho.Field("error", err))
		return nil, lib.ErrInvalidToken
	}
	if time.Now().After(claims.Exp) {
		return nil, lib.ErrExpiredToken
	}

	blacklisted, err := as.cacheService.IsTokenBlacklisted(ctx, claims.Jti)
	if err != nil {
		as.logger.Error("Failed to check if token is blacklisted", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return nil, err
	}
	if blacklisted {
		as.logger.Warn("Refresh token is blacklisted", gecho.Field("jti", claims.Jti))
		return nil, lib.ErrInvalidToken
	}

	user, err := as.GetUserByID(ctx, claims.Sub)
	if err != nil {
		return nil, err
	}
	if user.Banned {
		return nil, lib.ErrUserBanned
	}

	if err := as.cacheService.BlacklistToken(ctx, claims.Jti, claims.Exp); err != nil {
		as.logger.Warn("Failed to blacklist rotated refresh token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
	}

	return as.IssueTokens(user)
}

// Logout blacklists every token that was presented
func (as *AuthService) Logout(ctx context.Context, tokens ...*structs.AuthClaims) {
	for _, claims := range tokens {
		if claims == nil {
			continue
		}
		if err := as.cacheService.BlacklistToken(ctx, claims.Jti, claims.Exp); err != nil {
			as.logger.Warn("Failed to blacklist token on logout", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		}
	}
}

// IsTokenRevoked reports whether the jti was blacklisted; cache failures count as not revoked
func (as *AuthService) IsTokenRevoked(ctx context.Context, jti uuid.UUID) bool {
	blacklisted, err := as.cacheService.IsTokenBlacklisted(ctx, jti)
	if err != nil {
		as.logger.Warn("Blacklist lookup failed", gecho.Field("error", err))
		return false
	}
	return blacklisted
}

func (as *AuthService) GetUserByID(ctx context.Context, userId uuid.UUID) (*tables.User, error) {
	cachedUser, err := as.cacheService.GetUser(ctx, userId)
	if err != nil {
		as.logger.Warn("Failed to get user from cache", gecho.Field("error", err), gecho.Field("user_id", userId))
	} else if cachedUser != nil {
		return cachedUser, nil
	}

	user, err := database.Query[tables.User](as.db).Where("id", userId).First(ctx)
	if err != nil {
		as.logger.Error("Failed to find user by ID", gecho.Field("error", err), gecho.Field("user_id", userId))
		return nil, lib.MapPgError(err)
	}
	if user == nil {
		return nil, lib.ErrNotFound
	}
	user.PasswordHash = ""

	go func() {
		if err := as.cacheService.SetUser(context.Background(), user); err != nil {
			as.logger.Warn("Failed to cache user after DB fetch", gecho.Field("error", err), gecho.Field("user_id", userId))
		}
	}()

	return user, nil
}

// IsUserBanned checks the Redis ban flag first and falls back to the users table
func (as *AuthService) IsUserBanned(ctx context.Context, userId uuid.UUID) (bool, error) {
	banned, known, err := as.cacheService.GetBanFlag(ctx, userId)
	if err != nil {
		as.logger.Warn("Failed to read ban flag from cache", gecho.Field("error", err), gecho.Field("user_id", userId))
	}
	if known {
		return banned, nil
	}

	user, err := database.Query[tables.User](as.db).
		Columns("id", "banned").
		Where("id", userId).
		First(ctx)
	if err != nil {
		return false, lib.MapPgError(err)
	}
	if user == nil {
		return false, lib.ErrNotFound
	}

	if err := as.cacheService.SetBanFlag(ctx, userId, user.Banned); err != nil {
		as.logger.Warn("Failed to cache ban flag", gecho.Field("error", err), gecho.Field("user_id", userId))
	}
	return user.Banned, nil
}

func (as *AuthService) GetAccessTokenSecret() string {
	return as.cfg.Auth.AccessTokenSecret
}

func (as *AuthService) GetRefreshTokenSecret() string {
	return as.cfg.Auth.RefreshTokenSecret
}

func (as *AuthService) UpdateLastLogin(ctx context.Context, userId uuid.UUID) error {
	_, err := database.Query[tables.User](as.db).
		Where("id", userId).
		Update(ctx, map[string]any{"last_login": time.Now()})
	return lib.MapPgError(err)
}

// VerifyEmail consumes a verification token and marks its user verified
func (as *AuthService) VerifyEmail(ctx context.Context, token string) error {
	verification, err := database.Query[tables.EmailVerification](as.db).Where("token", token).First(ctx)
	if err != nil {
		as.logger.Error("Failed to find email verification record", gecho.Field("error", err))
		return lib.MapPgError(err)
	}
	if verification == nil {
		return lib.ErrInvalidToken
	}
	if time.Now().After(verification.ExpiresAt) {
		as.logger.Debug("Email verification token has expired", gecho.Field("user_id", verification.UserId))
		return lib.ErrExpiredToken
	}

	err = database.Transaction(ctx, as.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.Query[tables.User](tx).
			Where("id", verification.UserId).
			Update(ctx, map[string]any{"email_verified": true}); err != nil {
			return err
		}
		_, err := database.Query[tables.EmailVerification](tx).Where("user_id", verification.UserId).Delete(ctx)
		return err
	})
	if err != nil {
		as.logger.Error("Failed to mark email verified", gecho.Field("error", err), gecho.Field("user_id", verification.UserId))
		return lib.MapPgError(err)
	}

	if err := as.cacheService.InvalidateUser(ctx, verification.UserId); err != nil {
		as.logger.Warn("Failed to invalidate user cache", gecho.Field("error", err))
	}
	as.logger.Info("Email verified successfully", gecho.Field("user_id", verification.UserId))
	return nil
}

// GetUserByEmail returns nil without error when no user has that address
func (as *AuthService) GetUserByEmail(ctx context.Context, email string) (*tables.User, error) {
	user, err := database.Query[tables.User](as.db).Where("email", lib.SanitizeString(email, true, true)).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return user, nil
}
