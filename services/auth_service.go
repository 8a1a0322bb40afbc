package services

import (
	"context"
	"dallasdresses_server/lib"
	"dallasdresses_server/repository"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
	"errors"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type AuthService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	store        *repository.Store
	users        *UserService
	cacheService *CacheService
}

func NewAuthService(logger *gecho.Logger, cfg *structs.Config, store *repository.Store, users *UserService, cache *CacheService) *AuthService {
	return &AuthService{
		logger:       logger,
		cfg:          cfg,
		store:        store,
		users:        users,
		cacheService: cache,
	}
}

// Login checks an email and password pair against the local credential and
// issues an access token. Unknown emails and wrong passwords fail the same way.
func (as *AuthService) Login(ctx context.Context, req *structs.AuthRequest) (*structs.AuthResponse, error) {
	startTime := time.Now()
	email := structs.NormalizeEmail(req.Email)

	credential, err := as.store.Credentials.FindByProviderKey(ctx, tables.ProviderLocal, email)
	if err != nil {
		as.logger.Error("Unexpected storage error during login", gecho.Field("error", err))
		return nil, lib.ErrInvalidCredentials
	}
	if credential == nil {
		as.logger.Debug("No credential found during login attempt", gecho.Field("identifier", email))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := lib.VerifyPassword(req.Password, credential.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash",
			gecho.Field("error", err),
			gecho.Field("user_id", credential.UserID),
		)
		return nil, lib.ErrInvalidCredentials
	}
	if !valid {
		as.logger.Debug("Invalid password attempt",
			gecho.Field("identifier", email),
			gecho.Field("user_id", credential.UserID),
		)
		return nil, lib.ErrInvalidCredentials
	}

	user, err := as.users.GetByID(ctx, credential.UserID)
	if err != nil {
		if lib.IsNotFound(err) {
			return nil, lib.ErrInvalidCredentials
		}
		return nil, err
	}

	token, expiresAt, err := as.GenerateAccessToken(user)
	if err != nil {
		as.logger.Error("Failed to sign access token", gecho.Field("error", err), gecho.Field("user_id", user.ID))
		return nil, err
	}

	as.logger.Debug("User logged in successfully",
		gecho.Field("user_id", user.ID),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()))
	return &structs.AuthResponse{User: user, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// GenerateAccessToken signs an access token for user
func (as *AuthService) GenerateAccessToken(user *structs.UserDto) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(as.cfg.Auth.AccessTokenExpiry)

	claims := &structs.AuthClaims{
		Sub:   user.ID,
		Email: user.Email,
		Role:  user.Role,
		Iat:   now,
		Exp:   exp,
		Jti:   uuid.New(),
	}
	token, err := lib.SignToken(claims, as.cfg.Auth.AccessTokenSecret)
	return token, exp, err
}

// ParseAccessToken validates a token's signature and expiry and rejects
// tokens revoked through Logout. A cache outage does not lock users out.
func (as *AuthService) ParseAccessToken(ctx context.Context, token string) (*structs.AuthClaims, error) {
	claims, err := lib.ParseToken(token, as.cfg.Auth.AccessTokenSecret)
	if err != nil {
		if !errors.Is(err, lib.ErrExpiredToken) {
			as.logger.Debug("Rejected access token", gecho.Field("error", err))
		}
		return nil, err
	}

	blacklisted, err := as.cacheService.IsTokenBlacklisted(ctx, claims.Jti)
	if err != nil {
		as.logger.Warn("Failed to check token blacklist", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return claims, nil
	}
	if blacklisted {
		as.logger.Debug("Access token is blacklisted", gecho.Field("jti", claims.Jti))
		return nil, lib.ErrInvalidToken
	}
	return claims, nil
}

// Logout revokes the token until it would have expired anyway
func (as *AuthService) Logout(ctx context.Context, claims *structs.AuthClaims) error {
	if claims == nil {
		return lib.ErrInvalidToken
	}
	if err := as.cacheService.BlacklistToken(ctx, claims.Jti, claims.Exp); err != nil {
		as.logger.Error("Failed to blacklist token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return err
	}

	as.logger.Debug("User logged out", gecho.Field("user_id", claims.Sub))
	return nil
}

func (as *AuthService) CookieSecure() bool {
	return as.cfg.Auth.CookieSecure
}
