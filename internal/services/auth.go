package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/data/aggregates"
	"github.com/yungbote/aiclub-backend/internal/data/repos"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/ctxutil"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

var (
	errInvalidCredentials = apierr.Newf(http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	errInvalidToken       = apierr.Newf(http.StatusUnauthorized, "invalid_token", "invalid or expired token")
)

type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	User         *types.User `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Clock      clock.Clock
}

type authService struct {
	log           *logger.Logger
	tx            aggregates.TxRunner
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	clock         clock.Clock
}

func NewAuthService(
	log *logger.Logger,
	tx aggregates.TxRunner,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	cfg AuthConfig,
) AuthService {
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	return &authService{
		log:           log.With("service", "AuthService"),
		tx:            tx,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  []byte(cfg.JWTSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		clock:         c,
	}
}

func (as *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apierr.BadRequest("invalid_request", "email and password are required")
	}

	user, err := as.userRepo.GetByEmail(dbctx.From(ctx), email)
	if err != nil {
		return nil, fmt.Errorf("load user by email: %w", err)
	}
	if user == nil || !CheckPassword(user.Password, password) {
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, apierr.Forbidden("account_disabled", "account is disabled")
	}

	var session *Session
	err = as.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := as.userTokenRepo.DeleteExpired(dbc, as.clock.Now()); err != nil {
			as.log.Warn("Failed to prune expired tokens", "error", err)
		}
		s, err := as.issue(dbc, user)
		if err != nil {
			return err
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return session, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apierr.BadRequest("invalid_request", "refresh_token is required")
	}

	var session *Session
	err := as.tx.InTx(ctx, func(dbc dbctx.Context) error {
		existing, err := as.userTokenRepo.GetByRefreshToken(dbc, refreshToken)
		if err != nil {
			return fmt.Errorf("load refresh token: %w", err)
		}
		if existing == nil {
			return errInvalidToken
		}
		if !existing.ExpiresAt.After(as.clock.Now()) {
			// Commit the cleanup; the caller still gets invalid_token.
			if err := as.userTokenRepo.DeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
				return fmt.Errorf("delete expired token: %w", err)
			}
			return nil
		}
		user, err := as.userRepo.GetByID(dbc, existing.UserID)
		if err != nil {
			return fmt.Errorf("load user for refresh: %w", err)
		}
		if user == nil || !user.IsActive {
			return errInvalidToken
		}
		if err := as.userTokenRepo.DeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
			return fmt.Errorf("delete old token: %w", err)
		}
		s, err := as.issue(dbc, user)
		if err != nil {
			return err
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errInvalidToken
	}
	return session, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd, err := requestData(ctx)
	if err != nil {
		return err
	}
	if rd.SessionID == uuid.Nil {
		return errUnauthorized
	}
	if err := as.userTokenRepo.DeleteByIDs(dbctx.From(ctx), []uuid.UUID{rd.SessionID}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (as *authService) issue(dbc dbctx.Context, user *types.User) (*Session, error) {
	access, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	tok := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    as.clock.Now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{tok}); err != nil {
		return nil, fmt.Errorf("create user token: %w", err)
	}
	return &Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    int64(as.accessTTL / time.Second),
		User:         user,
	}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := as.clock.Now()
	claims := JWTClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(as.jwtSecretKey)
}

// SetContextFromToken validates the JWT, checks the session row still exists and
// attaches RequestData built from the current user row.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, errInvalidToken
	}
	claims := &JWTClaims{}
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) { return as.jwtSecretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.clock.Now),
	)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ctx, apierr.Newf(http.StatusUnauthorized, "token_expired", "access token expired")
		}
		return ctx, errInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, errInvalidToken
	}

	dbc := dbctx.From(ctx)
	tok, err := as.userTokenRepo.GetByAccessToken(dbc, tokenString)
	if err != nil {
		return ctx, fmt.Errorf("load session: %w", err)
	}
	if tok == nil || tok.UserID != userID {
		return ctx, errInvalidToken
	}
	user, err := as.userRepo.GetByID(dbc, userID)
	if err != nil {
		return ctx, fmt.Errorf("load user: %w", err)
	}
	if user == nil || !user.IsActive {
		return ctx, errInvalidToken
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		SessionID:   tok.ID,
		UserID:      user.ID,
		Role:        user.Role,
		ClubID:      user.ClubID,
	}), nil
}
