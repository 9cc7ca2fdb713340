package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/aiclub-backend/internal/data/aggregates"
	"github.com/yungbote/aiclub-backend/internal/data/repos"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/observability"
	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

type LicenseRequestInput struct {
	OrganizationName string `json:"organization_name"`
	RequesterName    string `json:"requester_name"`
	Email            string `json:"email"`
	Description      string `json:"description"`
}

// ApprovalResult is returned once; TemporaryPassword is never stored in clear text.
type ApprovalResult struct {
	Request           *types.LicenseRequest `json:"request"`
	Club              *types.Club           `json:"club"`
	User              *types.User           `json:"user"`
	TemporaryPassword string                `json:"temporary_password"`
}

type LicenseService interface {
	Submit(ctx context.Context, in LicenseRequestInput) (*types.LicenseRequest, error)
	List(ctx context.Context, status string) ([]*types.LicenseRequest, error)
	Approve(ctx context.Context, id uuid.UUID) (*ApprovalResult, error)
	Reject(ctx context.Context, id uuid.UUID) (*types.LicenseRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type licenseService struct {
	log         *logger.Logger
	tx          aggregates.TxRunner
	licenseRepo repos.LicenseRequestRepo
	clubRepo    repos.ClubRepo
	users       UserService
	clock       clock.Clock
}

func NewLicenseService(
	log *logger.Logger,
	tx aggregates.TxRunner,
	licenseRepo repos.LicenseRequestRepo,
	clubRepo repos.ClubRepo,
	users UserService,
	clk clock.Clock,
) LicenseService {
	if clk == nil {
		clk = clock.New()
	}
	return &licenseService{
		log:         log.With("service", "LicenseService"),
		tx:          tx,
		licenseRepo: licenseRepo,
		clubRepo:    clubRepo,
		users:       users,
		clock:       clk,
	}
}

var (
	errLicenseNotFound   = apierr.NotFound("license_request_not_found", "license request not found")
	errLicenseNotPending = apierr.Conflict("not_pending", "license request has already been reviewed")
)

func (s *licenseService) Submit(ctx context.Context, in LicenseRequestInput) (*types.LicenseRequest, error) {
	org := strings.TrimSpace(in.OrganizationName)
	name := strings.Join(strings.Fields(in.RequesterName), " ")
	email := normalizeEmail(in.Email)
	if org == "" {
		return nil, apierr.BadRequest("invalid_organization", "organization_name is required")
	}
	if name == "" {
		return nil, apierr.BadRequest("invalid_name", "requester_name is required")
	}
	if !validEmail(email) {
		return nil, apierr.BadRequest("invalid_email", "a valid email is required")
	}
	req := &types.LicenseRequest{
		ID:               uuid.New(),
		OrganizationName: org,
		RequesterName:    name,
		Email:            email,
		Description:      strings.TrimSpace(in.Description),
		Status:           types.LicenseStatusPending,
	}
	if _, err := s.licenseRepo.Create(dbctx.From(ctx), req); err != nil {
		return nil, fmt.Errorf("create license request: %w", err)
	}
	s.log.Info("License request submitted", "license_request_id", req.ID)
	return req, nil
}

func (s *licenseService) List(ctx context.Context, status string) ([]*types.LicenseRequest, error) {
	status = strings.TrimSpace(status)
	if status != "" && !types.ValidLicenseStatus(status) {
		return nil, apierr.BadRequest("invalid_status", "status must be pending, approved or rejected")
	}
	out, err := s.licenseRepo.List(dbctx.From(ctx), status)
	if err != nil {
		return nil, fmt.Errorf("list license requests: %w", err)
	}
	return out, nil
}

func (s *licenseService) loadPending(dbc dbctx.Context, id uuid.UUID) (*types.LicenseRequest, error) {
	req, err := s.licenseRepo.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load license request: %w", err)
	}
	if req == nil {
		return nil, errLicenseNotFound
	}
	if req.Status != types.LicenseStatusPending {
		return nil, errLicenseNotPending
	}
	return req, nil
}

// Approve creates the club and its admin and marks the request approved in one transaction.
// Any failure leaves the request pending.
func (s *licenseService) Approve(ctx context.Context, id uuid.UUID) (*ApprovalResult, error) {
	rd, err := requestData(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "license.approve", attribute.String("license_request.id", id.String()))
	defer span.End()

	tempPassword, err := GenerateTemporaryPassword()
	if err != nil {
		return nil, err
	}

	out := &ApprovalResult{TemporaryPassword: tempPassword}
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		req, err := s.loadPending(dbc, id)
		if err != nil {
			return err
		}

		club := &types.Club{ID: uuid.New(), Name: req.OrganizationName, LicenseRequestID: &req.ID}
		if _, err := s.clubRepo.Create(dbc, club); err != nil {
			if aggregates.IsUniqueViolation(err) {
				return apierr.Conflict("club_exists", "a club with this organization name already exists")
			}
			return fmt.Errorf("create club: %w", err)
		}

		first, last := splitName(req.RequesterName)
		user, err := s.users.CreateUser(dbc, RegisterInput{
			Email:     req.Email,
			Password:  tempPassword,
			FirstName: first,
			LastName:  last,
			Role:      types.RoleAdmin,
			ClubID:    &club.ID,
		})
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		ok, err := s.licenseRepo.Transition(dbc, req.ID, types.LicenseStatusPending, map[string]any{
			"status":      types.LicenseStatusApproved,
			"reviewed_by": rd.UserID,
			"reviewed_at": now,
			"club_id":     club.ID,
			"user_id":     user.ID,
		})
		if err != nil {
			return fmt.Errorf("approve license request: %w", err)
		}
		if !ok {
			return errLicenseNotPending
		}

		req.Status = types.LicenseStatusApproved
		req.ReviewedBy = &rd.UserID
		req.ReviewedAt = &now
		req.ClubID = &club.ID
		req.UserID = &user.ID
		out.Request, out.Club, out.User = req, club, user
		return nil
	})
	if err != nil {
		span.RecordError(err)
		s.log.Warn("License approval rolled back", "license_request_id", id, "error", err)
		return nil, err
	}
	s.log.Info("License request approved", "license_request_id", id, "club_id", out.Club.ID, "user_id", out.User.ID)
	return out, nil
}

func (s *licenseService) Reject(ctx context.Context, id uuid.UUID) (*types.LicenseRequest, error) {
	rd, err := requestData(ctx)
	if err != nil {
		return nil, err
	}
	var out *types.LicenseRequest
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		req, err := s.loadPending(dbc, id)
		if err != nil {
			return err
		}
		now := s.clock.Now().UTC()
		ok, err := s.licenseRepo.Transition(dbc, id, types.LicenseStatusPending, map[string]any{
			"status":      types.LicenseStatusRejected,
			"reviewed_by": rd.UserID,
			"reviewed_at": now,
		})
		if err != nil {
			return fmt.Errorf("reject license request: %w", err)
		}
		if !ok {
			return errLicenseNotPending
		}
		req.Status = types.LicenseStatusRejected
		req.ReviewedBy = &rd.UserID
		req.ReviewedAt = &now
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *licenseService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.licenseRepo.Delete(dbctx.From(ctx), id)
	if err != nil {
		return fmt.Errorf("delete license request: %w", err)
	}
	if !ok {
		return errLicenseNotFound
	}
	return nil
}
