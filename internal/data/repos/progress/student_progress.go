package progress

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

type StudentProgressRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.StudentProgress, error)
	GetOrCreate(dbc dbctx.Context, userID uuid.UUID) (*types.StudentProgress, error)
	// GetForUpdate is GetOrCreate plus a row lock held until dbc.Tx ends.
	GetForUpdate(dbc dbctx.Context, userID uuid.UUID) (*types.StudentProgress, error)
	IncrementPrompts(dbc dbctx.Context, userID uuid.UUID, by int) (*types.StudentProgress, error)
	SetAppsUnlocked(dbc dbctx.Context, userID uuid.UUID, apps []string) error
}

type studentProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentProgressRepo(db *gorm.DB, baseLog *logger.Logger) StudentProgressRepo {
	return &studentProgressRepo{db: db, log: baseLog.With("repo", "StudentProgressRepo")}
}

func (r *studentProgressRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.StudentProgress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var p types.StudentProgress
	if err := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetOrCreate inserts an empty row for userID if none exists; concurrent callers converge on one row.
func (r *studentProgressRepo) GetOrCreate(dbc dbctx.Context, userID uuid.UUID) (*types.StudentProgress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	row := &types.StudentProgress{
		UserID:       userID,
		AppsUnlocked: datatypes.JSONSlice[string]{},
	}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, userID)
}

func (r *studentProgressRepo) GetForUpdate(dbc dbctx.Context, userID uuid.UUID) (*types.StudentProgress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if _, err := r.GetOrCreate(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, userID); err != nil {
		return nil, err
	}
	var p types.StudentProgress
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *studentProgressRepo) IncrementPrompts(dbc dbctx.Context, userID uuid.UUID, by int) (*types.StudentProgress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if by <= 0 {
		return r.GetOrCreate(dbc, userID)
	}
	if _, err := r.GetOrCreate(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, userID); err != nil {
		return nil, err
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.StudentProgress{}).
		Where("user_id = ?", userID).
		UpdateColumn("prompts_completed", gorm.Expr("prompts_completed + ?", by)).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, userID)
}

func (r *studentProgressRepo) SetAppsUnlocked(dbc dbctx.Context, userID uuid.UUID, apps []string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.StudentProgress{}).
		Where("user_id = ?", userID).
		Update("apps_unlocked", datatypes.JSONSlice[string](apps)).Error
}
