package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/data/aggregates"
	"github.com/yungbote/aiclub-backend/internal/data/repos"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

type RegisterInput struct {
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      string     `json:"role"`
	ClubID    *uuid.UUID `json:"club_id"`
}

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	// CreateUser validates and inserts inside an existing transaction.
	CreateUser(dbc dbctx.Context, in RegisterInput) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	clubRepo repos.ClubRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, clubRepo repos.ClubRepo) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
		clubRepo: clubRepo,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd, err := requestData(ctx)
	if err != nil {
		return nil, err
	}
	u, err := us.userRepo.GetByID(dbctx.From(ctx), rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, apierr.NotFound("user_not_found", "user not found")
	}
	return u, nil
}

func (us *userService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	u, err := us.CreateUser(dbctx.From(ctx), in)
	if err != nil {
		return nil, err
	}
	us.log.Info("User registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (us *userService) CreateUser(dbc dbctx.Context, in RegisterInput) (*types.User, error) {
	email := normalizeEmail(in.Email)
	if !validEmail(email) {
		return nil, apierr.BadRequest("invalid_email", "a valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apierr.BadRequest("weak_password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" {
		return nil, apierr.BadRequest("invalid_name", "first_name is required")
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = types.RoleStudent
	}
	if !types.ValidRole(role) {
		return nil, apierr.BadRequest("invalid_role", "role must be super_admin, admin or student")
	}
	if in.ClubID != nil {
		club, err := us.clubRepo.GetByID(dbc, *in.ClubID)
		if err != nil {
			return nil, fmt.Errorf("load club: %w", err)
		}
		if club == nil {
			return nil, apierr.NotFound("club_not_found", "club not found")
		}
	}

	exists, err := us.userRepo.EmailExists(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apierr.Conflict("email_taken", "email is already registered")
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  hashed,
		FirstName: first,
		LastName:  last,
		Role:      role,
		ClubID:    in.ClubID,
		IsActive:  true,
	}
	if _, err := us.userRepo.Create(dbc, []*types.User{u}); err != nil {
		if aggregates.IsUniqueViolation(err) {
			return nil, apierr.Conflict("email_taken", "email is already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}
