package manual

import (
	"context"
	"testing"

	"github.com/yungbote/aiclub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
)

func TestManualRepo_Versions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewManualRepo(db, testutil.Logger(t))

	start, err := repo.MaxVersion(dbc)
	if err != nil {
		t.Fatalf("MaxVersion: %v", err)
	}
	for i := 1; i <= 2; i++ {
		if _, err := repo.Create(dbc, &types.Manual{
			Version:     start + i,
			FileName:    "manual.pdf",
			StorageKey:  "manuals/test.pdf",
			ContentType: "application/pdf",
			SizeBytes:   10,
		}); err != nil {
			t.Fatalf("Create v%d: %v", start+i, err)
		}
	}

	latest, err := repo.GetLatest(dbc)
	if err != nil || latest == nil || latest.Version != start+2 {
		t.Fatalf("GetLatest: want=%d got=%+v err=%v", start+2, latest, err)
	}

	if _, err := repo.Create(dbc, &types.Manual{Version: start + 2, FileName: "dup.pdf", StorageKey: "k", ContentType: "application/pdf"}); err == nil {
		t.Fatalf("duplicate version should fail")
	}
}

func TestManualRepo_NextVersionSkipsDeletedVersions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewManualRepo(db, testutil.Logger(t))

	create := func() *types.Manual {
		t.Helper()
		v, err := repo.NextVersion(dbc)
		if err != nil {
			t.Fatalf("NextVersion: %v", err)
		}
		m, err := repo.Create(dbc, &types.Manual{Version: v, FileName: "m.pdf", StorageKey: "k", ContentType: "application/pdf"})
		if err != nil {
			t.Fatalf("Create v%d: %v", v, err)
		}
		return m
	}

	create()
	latest := create()
	if err := repo.Delete(dbc, latest.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	next := create()
	if next.Version <= latest.Version {
		t.Fatalf("version reused after delete: deleted=%d new=%d", latest.Version, next.Version)
	}
}
