package manual

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

type ManualRepo interface {
	Create(dbc dbctx.Context, m *types.Manual) (*types.Manual, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Manual, error)
	GetLatest(dbc dbctx.Context) (*types.Manual, error)
	List(dbc dbctx.Context) ([]*types.Manual, error)
	MaxVersion(dbc dbctx.Context) (int, error)
	// NextVersion reserves the next manual version. Call it inside a transaction.
	NextVersion(dbc dbctx.Context) (int, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	Count(dbc dbctx.Context) (int64, error)
}

type manualRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewManualRepo(db *gorm.DB, baseLog *logger.Logger) ManualRepo {
	return &manualRepo{db: db, log: baseLog.With("repo", "ManualRepo")}
}

func (r *manualRepo) Create(dbc dbctx.Context, m *types.Manual) (*types.Manual, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *manualRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Manual, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var m types.Manual
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *manualRepo) GetLatest(dbc dbctx.Context) (*types.Manual, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var m types.Manual
	if err := transaction.WithContext(dbc.Ctx).Order("version DESC").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *manualRepo) List(dbc dbctx.Context) ([]*types.Manual, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Manual
	if err := transaction.WithContext(dbc.Ctx).Order("version DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *manualRepo) MaxVersion(dbc dbctx.Context) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var max int
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Manual{}).
		Select("COALESCE(MAX(version), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

const manualSequenceName = "manual"

func (r *manualRepo) NextVersion(dbc dbctx.Context) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	db := transaction.WithContext(dbc.Ctx)

	// First use seeds the counter from rows that predate it.
	current, err := r.MaxVersion(dbc)
	if err != nil {
		return 0, err
	}
	seed := types.ManualSequence{Name: manualSequenceName, Value: current}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, err
	}

	var seq types.ManualSequence
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", manualSequenceName).
		First(&seq).Error; err != nil {
		return 0, err
	}
	next := seq.Value + 1
	if current >= next {
		next = current + 1
	}
	if err := db.Model(&types.ManualSequence{}).
		Where("name = ?", manualSequenceName).
		Update("value", next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

func (r *manualRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Where("id = ?", id).Delete(&types.Manual{}).Error
}

func (r *manualRepo) Count(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	err := transaction.WithContext(dbc.Ctx).Model(&types.Manual{}).Count(&n).Error
	return n, err
}
