package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

// listColumns leaves the icon blob out of list queries.
var listColumns = []string{
	"id", "title", "subtitle", "prompt", "tool_name", "icon_content_type",
	"video_url", "is_active", "display_order", "created_at", "updated_at",
}

type AgentRepo interface {
	Create(dbc dbctx.Context, agent *types.Agent) (*types.Agent, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Agent, error)
	List(dbc dbctx.Context, includeInactive bool) ([]*types.Agent, error)
	Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
	Count(dbc dbctx.Context) (int64, error)
	ActiveToolNameExists(dbc dbctx.Context, toolName string) (bool, error)
}

type agentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAgentRepo(db *gorm.DB, baseLog *logger.Logger) AgentRepo {
	return &agentRepo{db: db, log: baseLog.With("repo", "AgentRepo")}
}

func (r *agentRepo) Create(dbc dbctx.Context, agent *types.Agent) (*types.Agent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

func (r *agentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Agent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var a types.Agent
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *agentRepo) List(dbc dbctx.Context, includeInactive bool) ([]*types.Agent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Model(&types.Agent{}).
		Select(append(listColumns, "(icon IS NOT NULL) AS icon_present"))
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var out []*types.Agent
	if err := q.Order("display_order ASC").Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *agentRepo) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Agent{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete removes the agent and its dynamic prompts together.
func (r *agentRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("agent_id = ?", id).Delete(&types.DynamicPrompt{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&types.Agent{}).Error
	})
}

func (r *agentRepo) Count(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	err := transaction.WithContext(dbc.Ctx).Model(&types.Agent{}).Count(&n).Error
	return n, err
}

func (r *agentRepo) ActiveToolNameExists(dbc dbctx.Context, toolName string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.Agent{}).
		Where("tool_name = ? AND is_active = ?", toolName, true).
		Count(&n).Error
	return n > 0, err
}
