package aggregates

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

// slowTxThreshold flags transactions that hold row locks (manual sequence,
// student progress) long enough to stall other requests.
const slowTxThreshold = 2 * time.Second

// TxRunner is the transaction boundary for multi-row writes such as license approval.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGormTxRunner(db *gorm.DB, log *logger.Logger) TxRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &gormTxRunner{db: db, log: log.With("component", "TxRunner")}
}

// InTx commits when fn returns nil. Rollbacks caused by client errors (apierr) log at
// debug; anything else is a server fault and logs at warn.
func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return errors.New("transaction runner has nil db")
	}
	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
	elapsed := time.Since(start)

	switch {
	case err == nil:
		if elapsed > slowTxThreshold {
			r.log.Warn("Slow transaction", "duration_ms", elapsed.Milliseconds())
		}
	case isClientError(err):
		r.log.Debug("Transaction rolled back", "duration_ms", elapsed.Milliseconds(), "error", err)
	default:
		r.log.Warn("Transaction rolled back", "duration_ms", elapsed.Milliseconds(), "error", err)
	}
	return err
}

func isClientError(err error) bool {
	ae, ok := apierr.As(err)
	return ok && ae.Status >= 400 && ae.Status < 500
}
