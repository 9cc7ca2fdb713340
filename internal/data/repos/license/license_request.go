package license

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

type LicenseRequestRepo interface {
	Create(dbc dbctx.Context, req *types.LicenseRequest) (*types.LicenseRequest, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LicenseRequest, error)
	List(dbc dbctx.Context, status string) ([]*types.LicenseRequest, error)
	// Transition applies fields only while the row is still in fromStatus and reports whether it did.
	Transition(dbc dbctx.Context, id uuid.UUID, fromStatus string, fields map[string]any) (bool, error)
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
	CountByStatus(dbc dbctx.Context, status string) (int64, error)
}

type licenseRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLicenseRequestRepo(db *gorm.DB, baseLog *logger.Logger) LicenseRequestRepo {
	return &licenseRequestRepo{db: db, log: baseLog.With("repo", "LicenseRequestRepo")}
}

func (r *licenseRequestRepo) Create(dbc dbctx.Context, req *types.LicenseRequest) (*types.LicenseRequest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (r *licenseRequestRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LicenseRequest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var lr types.LicenseRequest
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).First(&lr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lr, nil
}

func (r *licenseRequestRepo) List(dbc dbctx.Context, status string) ([]*types.LicenseRequest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Model(&types.LicenseRequest{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []*types.LicenseRequest
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *licenseRequestRepo) Transition(dbc dbctx.Context, id uuid.UUID, fromStatus string, fields map[string]any) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.LicenseRequest{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *licenseRequestRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Delete(&types.LicenseRequest{})
	return res.RowsAffected > 0, res.Error
}

func (r *licenseRequestRepo) CountByStatus(dbc dbctx.Context, status string) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.LicenseRequest{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}
