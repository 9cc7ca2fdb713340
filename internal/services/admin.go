package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/aiclub-backend/internal/data/repos"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

type UpdateUserInput struct {
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	Role      *string    `json:"role"`
	IsActive  *bool      `json:"is_active"`
	ClubID    *uuid.UUID `json:"club_id"`
}

type DashboardCounts struct {
	Agents                 int64 `json:"agents"`
	Students               int64 `json:"students"`
	ClubAdmins             int64 `json:"club_admins"`
	PendingLicenseRequests int64 `json:"pending_license_requests"`
	Manuals                int64 `json:"manuals"`
}

type AdminService interface {
	ListUsers(ctx context.Context, role string) ([]*types.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*types.User, error)
	DeleteStudent(ctx context.Context, id uuid.UUID) error
	DashboardCounts(ctx context.Context) (*DashboardCounts, error)
	// ListClubs returns every licensed club by name.
	ListClubs(ctx context.Context) ([]*types.Club, error)
}

type adminService struct {
	log         *logger.Logger
	userRepo    repos.UserRepo
	clubRepo    repos.ClubRepo
	tokenRepo   repos.UserTokenRepo
	agentRepo   repos.AgentRepo
	licenseRepo repos.LicenseRequestRepo
	manualRepo  repos.ManualRepo
}

func NewAdminService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	clubRepo repos.ClubRepo,
	tokenRepo repos.UserTokenRepo,
	agentRepo repos.AgentRepo,
	licenseRepo repos.LicenseRequestRepo,
	manualRepo repos.ManualRepo,
) AdminService {
	return &adminService{
		log:         log.With("service", "AdminService"),
		userRepo:    userRepo,
		clubRepo:    clubRepo,
		tokenRepo:   tokenRepo,
		agentRepo:   agentRepo,
		licenseRepo: licenseRepo,
		manualRepo:  manualRepo,
	}
}

func (s *adminService) ListUsers(ctx context.Context, role string) ([]*types.User, error) {
	role = strings.TrimSpace(role)
	if role != "" && !types.ValidRole(role) {
		return nil, apierr.BadRequest("invalid_role", "unknown role filter")
	}
	users, err := s.userRepo.List(dbctx.From(ctx), repos.UserListFilter{Role: role})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*types.User, error) {
	dbc := dbctx.From(ctx)
	u, err := s.userRepo.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, apierr.NotFound("user_not_found", "user not found")
	}

	fields := map[string]any{}
	if in.FirstName != nil {
		first := strings.TrimSpace(*in.FirstName)
		if first == "" {
			return nil, apierr.BadRequest("invalid_name", "first_name cannot be empty")
		}
		fields["first_name"] = first
	}
	if in.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Role != nil {
		if !types.ValidRole(*in.Role) {
			return nil, apierr.BadRequest("invalid_role", "role must be super_admin, admin or student")
		}
		fields["role"] = *in.Role
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if in.ClubID != nil {
		club, err := s.clubRepo.GetByID(dbc, *in.ClubID)
		if err != nil {
			return nil, fmt.Errorf("load club: %w", err)
		}
		if club == nil {
			return nil, apierr.NotFound("club_not_found", "club not found")
		}
		fields["club_id"] = *in.ClubID
	}
	if len(fields) == 0 {
		return u, nil
	}

	if err := s.userRepo.Update(dbc, id, fields); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if in.IsActive != nil && !*in.IsActive {
		if err := s.tokenRepo.DeleteByUserIDs(dbc, []uuid.UUID{id}); err != nil {
			s.log.Warn("Failed to revoke sessions of deactivated user", "user_id", id, "error", err)
		}
	}
	return s.userRepo.GetByID(dbc, id)
}

func (s *adminService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.From(ctx)
	u, err := s.userRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return apierr.NotFound("user_not_found", "student not found")
	}
	if u.Role != types.RoleStudent {
		return apierr.BadRequest("not_a_student", "only students can be deleted here")
	}
	if err := s.tokenRepo.DeleteByUserIDs(dbc, []uuid.UUID{id}); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	if err := s.userRepo.Delete(dbc, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	s.log.Info("Student deleted", "user_id", id)
	return nil
}

func (s *adminService) DashboardCounts(ctx context.Context) (*DashboardCounts, error) {
	var out DashboardCounts
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.From(gctx)

	g.Go(func() (err error) {
		out.Agents, err = s.agentRepo.Count(dbc)
		return err
	})
	g.Go(func() (err error) {
		out.Students, err = s.userRepo.CountByRole(dbc, types.RoleStudent)
		return err
	})
	g.Go(func() (err error) {
		out.ClubAdmins, err = s.userRepo.CountByRole(dbc, types.RoleAdmin)
		return err
	})
	g.Go(func() (err error) {
		out.PendingLicenseRequests, err = s.licenseRepo.CountByStatus(dbc, types.LicenseStatusPending)
		return err
	})
	g.Go(func() (err error) {
		out.Manuals, err = s.manualRepo.Count(dbc)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &out, nil
}

func (s *adminService) ListClubs(ctx context.Context) ([]*types.Club, error) {
	clubs, err := s.clubRepo.List(dbctx.From(ctx))
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	if clubs == nil {
		clubs = []*types.Club{}
	}
	return clubs, nil
}
