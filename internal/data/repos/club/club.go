package club

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

type ClubRepo interface {
	Create(dbc dbctx.Context, club *types.Club) (*types.Club, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Club, error)
	List(dbc dbctx.Context) ([]*types.Club, error)
}

type clubRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClubRepo(db *gorm.DB, baseLog *logger.Logger) ClubRepo {
	return &clubRepo{db: db, log: baseLog.With("repo", "ClubRepo")}
}

func (r *clubRepo) Create(dbc dbctx.Context, club *types.Club) (*types.Club, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(club).Error; err != nil {
		return nil, err
	}
	return club, nil
}

func (r *clubRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Club, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Club
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *clubRepo) List(dbc dbctx.Context) ([]*types.Club, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Club
	if err := transaction.WithContext(dbc.Ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
