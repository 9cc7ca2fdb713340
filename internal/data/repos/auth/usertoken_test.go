package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "usertokenrepo@example.com", types.RoleStudent)

	tok := &types.UserToken{
		ID:           uuid.New(),
		UserID:       u.ID,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if _, err := repo.Create(dbc, []*types.UserToken{tok}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got, err := repo.GetByAccessToken(dbc, "access-1"); err != nil || got == nil || got.ID != tok.ID {
		t.Fatalf("GetByAccessToken: err=%v got=%+v", err, got)
	}
	if got, err := repo.GetByRefreshToken(dbc, "refresh-1"); err != nil || got == nil {
		t.Fatalf("GetByRefreshToken: err=%v got=%+v", err, got)
	}
	if got, err := repo.GetByRefreshToken(dbc, "nope"); err != nil || got != nil {
		t.Fatalf("GetByRefreshToken (missing): want nil got=%+v err=%v", got, err)
	}

	if err := repo.DeleteByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("DeleteByUserIDs: %v", err)
	}
	if got, _ := repo.GetByAccessToken(dbc, "access-1"); got != nil {
		t.Fatalf("token should be gone after DeleteByUserIDs")
	}
}
