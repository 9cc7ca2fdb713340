package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/data/aggregates"
	"github.com/yungbote/aiclub-backend/internal/data/repos"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/learning/badges"
	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

type ProgressView struct {
	PromptsCompleted int            `json:"prompts_completed"`
	AppsUnlocked     []string       `json:"apps_unlocked"`
	Badges           []badges.Badge `json:"badges"`
}

type ProgressService interface {
	Get(ctx context.Context) (*ProgressView, error)
	UnlockApp(ctx context.Context, app string) (*ProgressView, error)
	// RecordPrompt bumps the caller's prompt counter inside dbc.
	RecordPrompt(dbc dbctx.Context, userID uuid.UUID) (*ProgressView, error)
}

type progressService struct {
	log          *logger.Logger
	tx           aggregates.TxRunner
	progressRepo repos.StudentProgressRepo
	agentRepo    repos.AgentRepo
	table        badges.Table
}

func NewProgressService(
	log *logger.Logger,
	tx aggregates.TxRunner,
	progressRepo repos.StudentProgressRepo,
	agentRepo repos.AgentRepo,
	table badges.Table,
) ProgressService {
	return &progressService{
		log:          log.With("service", "ProgressService"),
		tx:           tx,
		progressRepo: progressRepo,
		agentRepo:    agentRepo,
		table:        table,
	}
}

func (s *progressService) view(p *types.StudentProgress) *ProgressView {
	apps := []string(p.AppsUnlocked)
	if apps == nil {
		apps = []string{}
	}
	return &ProgressView{
		PromptsCompleted: p.PromptsCompleted,
		AppsUnlocked:     apps,
		Badges:           badges.Evaluate(s.table, p.PromptsCompleted, apps),
	}
}

func (s *progressService) Get(ctx context.Context) (*ProgressView, error) {
	rd, err := requestData(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.progressRepo.GetOrCreate(dbctx.From(ctx), rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return s.view(p), nil
}

func (s *progressService) UnlockApp(ctx context.Context, app string) (*ProgressView, error) {
	rd, err := requestData(ctx)
	if err != nil {
		return nil, err
	}
	app = strings.TrimSpace(app)
	if app == "" {
		return nil, apierr.BadRequest("invalid_app", "app is required")
	}
	var out *ProgressView
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		known, err := s.agentRepo.ActiveToolNameExists(dbc, app)
		if err != nil {
			return fmt.Errorf("check app: %w", err)
		}
		if !known {
			return apierr.NotFound("unknown_app", "no active agent provides this app")
		}
		// Locked so a concurrent unlock cannot overwrite this append.
		p, err := s.progressRepo.GetForUpdate(dbc, rd.UserID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		if !p.HasApp(app) {
			apps := append(append(make([]string, 0, len(p.AppsUnlocked)+1), p.AppsUnlocked...), app)
			if err := s.progressRepo.SetAppsUnlocked(dbc, rd.UserID, apps); err != nil {
				return fmt.Errorf("unlock app: %w", err)
			}
			p.AppsUnlocked = apps
			s.log.Info("App unlocked", "user_id", rd.UserID, "app", app)
		}
		out = s.view(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *progressService) RecordPrompt(dbc dbctx.Context, userID uuid.UUID) (*ProgressView, error) {
	p, err := s.progressRepo.IncrementPrompts(dbc, userID, 1)
	if err != nil {
		return nil, fmt.Errorf("record prompt: %w", err)
	}
	return s.view(p), nil
}
