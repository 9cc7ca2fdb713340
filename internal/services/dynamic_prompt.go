package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/data/repos"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

type DynamicPromptInput struct {
	AgentID      *uuid.UUID `json:"agent_id"`
	SystemPrompt *string    `json:"system_prompt"`
	UserPrompt   *string    `json:"user_prompt"`
}

type DynamicPromptService interface {
	List(ctx context.Context, agentID *uuid.UUID) ([]*types.DynamicPrompt, error)
	Create(ctx context.Context, in DynamicPromptInput) (*types.DynamicPrompt, error)
	Update(ctx context.Context, id uuid.UUID, in DynamicPromptInput) (*types.DynamicPrompt, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type dynamicPromptService struct {
	log        *logger.Logger
	agentRepo  repos.AgentRepo
	promptRepo repos.DynamicPromptRepo
}

func NewDynamicPromptService(log *logger.Logger, agentRepo repos.AgentRepo, promptRepo repos.DynamicPromptRepo) DynamicPromptService {
	return &dynamicPromptService{
		log:        log.With("service", "DynamicPromptService"),
		agentRepo:  agentRepo,
		promptRepo: promptRepo,
	}
}

var errPromptNotFound = apierr.NotFound("dynamic_prompt_not_found", "dynamic prompt not found")

func (s *dynamicPromptService) List(ctx context.Context, agentID *uuid.UUID) ([]*types.DynamicPrompt, error) {
	dbc := dbctx.From(ctx)
	var (
		out []*types.DynamicPrompt
		err error
	)
	if agentID != nil {
		out, err = s.promptRepo.ListByAgentID(dbc, *agentID)
	} else {
		out, err = s.promptRepo.List(dbc)
	}
	if err != nil {
		return nil, fmt.Errorf("list dynamic prompts: %w", err)
	}
	return out, nil
}

func (s *dynamicPromptService) requireAgent(dbc dbctx.Context, id uuid.UUID) error {
	a, err := s.agentRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load agent: %w", err)
	}
	if a == nil {
		return errAgentNotFound
	}
	return nil
}

func (s *dynamicPromptService) Create(ctx context.Context, in DynamicPromptInput) (*types.DynamicPrompt, error) {
	if in.AgentID == nil || *in.AgentID == uuid.Nil {
		return nil, apierr.BadRequest("invalid_agent", "agent_id is required")
	}
	if in.SystemPrompt == nil || strings.TrimSpace(*in.SystemPrompt) == "" {
		return nil, apierr.BadRequest("invalid_prompt", "system_prompt is required")
	}
	dbc := dbctx.From(ctx)
	if err := s.requireAgent(dbc, *in.AgentID); err != nil {
		return nil, err
	}
	p := &types.DynamicPrompt{
		ID:           uuid.New(),
		AgentID:      *in.AgentID,
		SystemPrompt: strings.TrimSpace(*in.SystemPrompt),
	}
	if in.UserPrompt != nil {
		p.UserPrompt = strings.TrimSpace(*in.UserPrompt)
	}
	if _, err := s.promptRepo.Create(dbc, p); err != nil {
		return nil, fmt.Errorf("create dynamic prompt: %w", err)
	}
	return p, nil
}

func (s *dynamicPromptService) Update(ctx context.Context, id uuid.UUID, in DynamicPromptInput) (*types.DynamicPrompt, error) {
	dbc := dbctx.From(ctx)
	p, err := s.promptRepo.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load dynamic prompt: %w", err)
	}
	if p == nil {
		return nil, errPromptNotFound
	}
	fields := map[string]any{}
	if in.AgentID != nil && *in.AgentID != p.AgentID {
		if err := s.requireAgent(dbc, *in.AgentID); err != nil {
			return nil, err
		}
		p.AgentID = *in.AgentID
		fields["agent_id"] = p.AgentID
	}
	if in.SystemPrompt != nil {
		sys := strings.TrimSpace(*in.SystemPrompt)
		if sys == "" {
			return nil, apierr.BadRequest("invalid_prompt", "system_prompt cannot be empty")
		}
		p.SystemPrompt = sys
		fields["system_prompt"] = sys
	}
	if in.UserPrompt != nil {
		p.UserPrompt = strings.TrimSpace(*in.UserPrompt)
		fields["user_prompt"] = p.UserPrompt
	}
	if err := s.promptRepo.Update(dbc, id, fields); err != nil {
		return nil, fmt.Errorf("update dynamic prompt: %w", err)
	}
	return p, nil
}

func (s *dynamicPromptService) Delete(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.From(ctx)
	p, err := s.promptRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load dynamic prompt: %w", err)
	}
	if p == nil {
		return errPromptNotFound
	}
	return s.promptRepo.Delete(dbc, id)
}
