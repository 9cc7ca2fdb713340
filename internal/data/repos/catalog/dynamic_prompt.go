package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

type DynamicPromptRepo interface {
	Create(dbc dbctx.Context, prompt *types.DynamicPrompt) (*types.DynamicPrompt, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.DynamicPrompt, error)
	List(dbc dbctx.Context) ([]*types.DynamicPrompt, error)
	ListByAgentID(dbc dbctx.Context, agentID uuid.UUID) ([]*types.DynamicPrompt, error)
	Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type dynamicPromptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDynamicPromptRepo(db *gorm.DB, baseLog *logger.Logger) DynamicPromptRepo {
	return &dynamicPromptRepo{db: db, log: baseLog.With("repo", "DynamicPromptRepo")}
}

func (r *dynamicPromptRepo) Create(dbc dbctx.Context, prompt *types.DynamicPrompt) (*types.DynamicPrompt, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(prompt).Error; err != nil {
		return nil, err
	}
	return prompt, nil
}

func (r *dynamicPromptRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.DynamicPrompt, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var p types.DynamicPrompt
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *dynamicPromptRepo) List(dbc dbctx.Context) ([]*types.DynamicPrompt, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.DynamicPrompt
	if err := transaction.WithContext(dbc.Ctx).
		Order("agent_id ASC").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dynamicPromptRepo) ListByAgentID(dbc dbctx.Context, agentID uuid.UUID) ([]*types.DynamicPrompt, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.DynamicPrompt
	if err := transaction.WithContext(dbc.Ctx).
		Where("agent_id = ?", agentID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dynamicPromptRepo) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.DynamicPrompt{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *dynamicPromptRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.DynamicPrompt{}).Error
}
