package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/aiclub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
)

func TestStudentProgressRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewStudentProgressRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "progress@example.com", types.RoleStudent)

	p, err := repo.GetOrCreate(dbc, u.ID)
	if err != nil || p == nil {
		t.Fatalf("GetOrCreate: err=%v p=%+v", err, p)
	}
	again, err := repo.GetOrCreate(dbc, u.ID)
	if err != nil || again.ID != p.ID {
		t.Fatalf("GetOrCreate twice should return the same row: err=%v", err)
	}

	p, err = repo.IncrementPrompts(dbc, u.ID, 1)
	if err != nil || p.PromptsCompleted != 1 {
		t.Fatalf("IncrementPrompts: want=1 got=%d err=%v", p.PromptsCompleted, err)
	}

	if err := repo.SetAppsUnlocked(dbc, u.ID, []string{"writer"}); err != nil {
		t.Fatalf("SetAppsUnlocked: %v", err)
	}
	p, _ = repo.GetByUserID(dbc, u.ID)
	if len(p.AppsUnlocked) != 1 || p.AppsUnlocked[0] != "writer" {
		t.Fatalf("apps_unlocked: want=[writer] got=%v", p.AppsUnlocked)
	}
}

// Two transactions appending to apps_unlocked must both land once the row is locked.
func TestStudentProgressRepo_GetForUpdateSerializesAppends(t *testing.T) {
	db := testutil.DB(t)
	if db.Dialector.Name() != "postgres" {
		t.Skip("row locks need postgres")
	}
	ctx := context.Background()
	repo := NewStudentProgressRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, db, "locked-"+uuid.NewString()+"@example.com", types.RoleStudent)
	t.Cleanup(func() {
		db.Unscoped().Where("user_id = ?", u.ID).Delete(&types.StudentProgress{})
		db.Unscoped().Where("id = ?", u.ID).Delete(&types.User{})
	})

	unlock := func(app string) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			dbc := dbctx.Context{Ctx: ctx, Tx: tx}
			p, err := repo.GetForUpdate(dbc, u.ID)
			if err != nil {
				return err
			}
			return repo.SetAppsUnlocked(dbc, u.ID, append([]string(p.AppsUnlocked), app))
		})
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for _, app := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		wg.Add(1)
		go func(app string) {
			defer wg.Done()
			errs <- unlock(app)
		}(app)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("unlock: %v", err)
		}
	}

	p, err := repo.GetByUserID(dbctx.Context{Ctx: ctx}, u.ID)
	if err != nil || p == nil {
		t.Fatalf("GetByUserID: p=%+v err=%v", p, err)
	}
	if len(p.AppsUnlocked) != 8 {
		t.Fatalf("apps_unlocked: want=8 got=%d %v", len(p.AppsUnlocked), p.AppsUnlocked)
	}
}
