package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/data/repos"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/pkg/embedurl"
	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

// AgentInput carries create and update fields. Nil pointers leave a field untouched on update.
type AgentInput struct {
	Title        *string
	Subtitle     *string
	Prompt       *string
	ToolName     *string
	VideoURL     *string
	IsActive     *bool
	DisplayOrder *int
	// Icon is the raw uploaded image; nil keeps the current icon.
	Icon []byte
	// RemoveIcon clears the stored icon.
	RemoveIcon bool
}

type AgentService interface {
	List(ctx context.Context, includeInactive bool) ([]*types.Agent, error)
	Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*types.Agent, error)
	Create(ctx context.Context, in AgentInput) (*types.Agent, error)
	Update(ctx context.Context, id uuid.UUID, in AgentInput) (*types.Agent, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Icon returns the stored icon, or a rendered placeholder when the agent has none.
	Icon(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

type agentService struct {
	log       *logger.Logger
	agentRepo repos.AgentRepo
	icons     AgentIconService
}

func NewAgentService(log *logger.Logger, agentRepo repos.AgentRepo, icons AgentIconService) AgentService {
	return &agentService{
		log:       log.With("service", "AgentService"),
		agentRepo: agentRepo,
		icons:     icons,
	}
}

var errAgentNotFound = apierr.NotFound("agent_not_found", "agent not found")

func (s *agentService) List(ctx context.Context, includeInactive bool) ([]*types.Agent, error) {
	agents, err := s.agentRepo.List(dbctx.From(ctx), includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return agents, nil
}

func (s *agentService) Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*types.Agent, error) {
	a, err := s.agentRepo.GetByID(dbctx.From(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load agent: %w", err)
	}
	if a == nil || (!a.IsActive && !includeInactive) {
		return nil, errAgentNotFound
	}
	return a, nil
}

func (s *agentService) Create(ctx context.Context, in AgentInput) (*types.Agent, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, apierr.BadRequest("invalid_title", "title is required")
	}
	a := &types.Agent{ID: uuid.New(), IsActive: true}
	if err := s.apply(a, in); err != nil {
		return nil, err
	}
	if _, err := s.agentRepo.Create(dbctx.From(ctx), a); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	s.log.Info("Agent created", "agent_id", a.ID, "title", a.Title)
	return a, nil
}

func (s *agentService) Update(ctx context.Context, id uuid.UUID, in AgentInput) (*types.Agent, error) {
	dbc := dbctx.From(ctx)
	a, err := s.agentRepo.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load agent: %w", err)
	}
	if a == nil {
		return nil, errAgentNotFound
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, apierr.BadRequest("invalid_title", "title cannot be empty")
	}
	if err := s.apply(a, in); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"title":         a.Title,
		"subtitle":      a.Subtitle,
		"prompt":        a.Prompt,
		"tool_name":     a.ToolName,
		"video_url":     a.VideoURL,
		"is_active":     a.IsActive,
		"display_order": a.DisplayOrder,
	}
	if in.Icon != nil || in.RemoveIcon {
		fields["icon"] = a.Icon
		fields["icon_content_type"] = a.IconContentType
	}
	if err := s.agentRepo.Update(dbc, id, fields); err != nil {
		return nil, fmt.Errorf("update agent: %w", err)
	}
	return a, nil
}

func (s *agentService) apply(a *types.Agent, in AgentInput) error {
	if in.Title != nil {
		a.Title = strings.TrimSpace(*in.Title)
	}
	if in.Subtitle != nil {
		a.Subtitle = strings.TrimSpace(*in.Subtitle)
	}
	if in.Prompt != nil {
		a.Prompt = *in.Prompt
	}
	if in.ToolName != nil {
		a.ToolName = strings.TrimSpace(*in.ToolName)
	}
	if in.VideoURL != nil {
		v := strings.TrimSpace(*in.VideoURL)
		if v != "" {
			if _, ok := embedurl.Resolve(v); !ok {
				return apierr.Newf(http.StatusUnprocessableEntity, "invalid_url", "video_url is not a valid URL")
			}
		}
		a.VideoURL = v
	}
	if in.IsActive != nil {
		a.IsActive = *in.IsActive
	}
	if in.DisplayOrder != nil {
		a.DisplayOrder = *in.DisplayOrder
	}
	switch {
	case in.RemoveIcon:
		a.Icon = nil
		a.IconContentType = ""
	case in.Icon != nil:
		png, err := s.icons.Normalize(in.Icon)
		if err != nil {
			return err
		}
		a.Icon = png
		a.IconContentType = "image/png"
	}
	return nil
}

func (s *agentService) Delete(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.From(ctx)
	a, err := s.agentRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load agent: %w", err)
	}
	if a == nil {
		return errAgentNotFound
	}
	if err := s.agentRepo.Delete(dbc, id); err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	s.log.Info("Agent deleted", "agent_id", id)
	return nil
}

func (s *agentService) Icon(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	a, err := s.agentRepo.GetByID(dbctx.From(ctx), id)
	if err != nil {
		return nil, "", fmt.Errorf("load agent: %w", err)
	}
	if a == nil {
		return nil, "", errAgentNotFound
	}
	if len(a.Icon) > 0 {
		ct := a.IconContentType
		if ct == "" {
			ct = "image/png"
		}
		return a.Icon, ct, nil
	}
	png, err := s.icons.Placeholder(a.Title)
	if err != nil {
		return nil, "", err
	}
	return png, "image/png", nil
}
