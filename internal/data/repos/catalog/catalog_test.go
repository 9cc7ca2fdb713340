package catalog

import (
	"context"
	"testing"

	"github.com/yungbote/aiclub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
)

func TestAgentRepo_ListHidesInactiveAndIconBytes(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	agents := NewAgentRepo(db, testutil.Logger(t))

	withIcon := &types.Agent{Title: "Writer", ToolName: "writer", IsActive: true, Icon: []byte{1, 2, 3}, IconContentType: "image/png"}
	if _, err := agents.Create(dbc, withIcon); err != nil {
		t.Fatalf("Create: %v", err)
	}
	hidden := testutil.SeedAgent(t, ctx, tx, "Hidden", "hidden", false)

	active, err := agents.List(dbc, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, a := range active {
		if a.ID == hidden.ID {
			t.Fatalf("inactive agent listed")
		}
		if len(a.Icon) != 0 {
			t.Fatalf("list should not load icon bytes")
		}
		if a.ID == withIcon.ID && !a.HasIcon() {
			t.Fatalf("icon_present projection missing")
		}
	}

	all, err := agents.List(dbc, true)
	if err != nil || len(all) < 2 {
		t.Fatalf("List(includeInactive): err=%v len=%d", err, len(all))
	}

	ok, err := agents.ActiveToolNameExists(dbc, "writer")
	if err != nil || !ok {
		t.Fatalf("ActiveToolNameExists(writer): err=%v ok=%v", err, ok)
	}
	ok, err = agents.ActiveToolNameExists(dbc, "hidden")
	if err != nil || ok {
		t.Fatalf("ActiveToolNameExists(hidden): want=false got=%v err=%v", ok, err)
	}
}

func TestDynamicPromptRepo_DeletedWithAgent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	agents := NewAgentRepo(db, testutil.Logger(t))
	prompts := NewDynamicPromptRepo(db, testutil.Logger(t))

	a := testutil.SeedAgent(t, ctx, tx, "Coach", "coach", true)
	for _, sys := range []string{"be brief", "be kind"} {
		if _, err := prompts.Create(dbc, &types.DynamicPrompt{AgentID: a.ID, SystemPrompt: sys}); err != nil {
			t.Fatalf("Create prompt: %v", err)
		}
	}
	got, err := prompts.ListByAgentID(dbc, a.ID)
	if err != nil || len(got) != 2 {
		t.Fatalf("ListByAgentID: want=2 got=%d err=%v", len(got), err)
	}

	if err := agents.Delete(dbc, a.ID); err != nil {
		t.Fatalf("Delete agent: %v", err)
	}
	got, err = prompts.ListByAgentID(dbc, a.ID)
	if err != nil || len(got) != 0 {
		t.Fatalf("prompts after agent delete: want=0 got=%d err=%v", len(got), err)
	}
}
