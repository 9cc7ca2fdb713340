package services

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

func newAgentFixture(t *testing.T) (*memStore, AgentService, DynamicPromptService) {
	t.Helper()
	store := newMemStore()
	icons, err := NewAgentIconService(logger.Nop())
	if err != nil {
		t.Fatalf("NewAgentIconService: %v", err)
	}
	agents := NewAgentService(logger.Nop(), fakeAgentRepo{store}, icons)
	prompts := NewDynamicPromptService(logger.Nop(), fakeAgentRepo{store}, fakePromptRepo{store})
	return store, agents, prompts
}

func strPtr(s string) *string { return &s }

func TestAgentCreateValidates(t *testing.T) {
	_, svc, _ := newAgentFixture(t)
	_, err := svc.Create(context.Background(), AgentInput{Title: strPtr("  ")})
	assertAPIError(t, err, http.StatusBadRequest, "invalid_title")

	_, err = svc.Create(context.Background(), AgentInput{Title: strPtr("Coach"), VideoURL: strPtr("not a url")})
	assertAPIError(t, err, http.StatusUnprocessableEntity, "invalid_url")

	a, err := svc.Create(context.Background(), AgentInput{
		Title:    strPtr(" Coach "),
		ToolName: strPtr("coach"),
		VideoURL: strPtr("https://youtu.be/wJUDmcJ_crA"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Title != "Coach" || !a.IsActive || a.HasIcon() {
		t.Fatalf("created agent: %+v", a)
	}
}

func TestAgentGetHidesInactive(t *testing.T) {
	store, svc, _ := newAgentFixture(t)
	a := seedAgent(store, "Old", "old", false)
	_, err := svc.Get(context.Background(), a.ID, false)
	assertAPIError(t, err, http.StatusNotFound, "agent_not_found")
	if _, err := svc.Get(context.Background(), a.ID, true); err != nil {
		t.Fatalf("admin Get: %v", err)
	}
	list, _ := svc.List(context.Background(), false)
	if len(list) != 0 {
		t.Fatalf("inactive agent listed: %v", list)
	}
}

func TestAgentUpdateAndDeactivate(t *testing.T) {
	store, svc, _ := newAgentFixture(t)
	a := seedAgent(store, "Coach", "coach", true)
	off := false
	got, err := svc.Update(context.Background(), a.ID, AgentInput{Subtitle: strPtr("Prompt basics"), IsActive: &off})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.IsActive || got.Subtitle != "Prompt basics" || got.Title != "Coach" {
		t.Fatalf("update: %+v", got)
	}
	if store.agents[a.ID].IsActive {
		t.Fatalf("deactivation not stored")
	}
	_, err = svc.Update(context.Background(), uuid.New(), AgentInput{})
	assertAPIError(t, err, http.StatusNotFound, "agent_not_found")
}

func TestAgentIconFallsBackToPlaceholder(t *testing.T) {
	store, svc, _ := newAgentFixture(t)
	a := seedAgent(store, "Story Writer", "story", true)
	data, ct, err := svc.Icon(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Icon: %v", err)
	}
	if ct != "image/png" {
		t.Fatalf("content type: got=%s", ct)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("placeholder is not a png: %v", err)
	}
	if img.Bounds().Dx() != agentIconSize {
		t.Fatalf("placeholder size: want=%d got=%d", agentIconSize, img.Bounds().Dx())
	}
}

func TestAgentDeleteCascadesPrompts(t *testing.T) {
	store, agents, prompts := newAgentFixture(t)
	a := seedAgent(store, "Coach", "coach", true)
	p, err := prompts.Create(context.Background(), DynamicPromptInput{AgentID: &a.ID, SystemPrompt: strPtr("Be brief.")})
	if err != nil {
		t.Fatalf("Create prompt: %v", err)
	}
	if err := agents.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := store.prompts[p.ID]; ok {
		t.Fatalf("prompt should be deleted with its agent")
	}
	assertAPIError(t, agents.Delete(context.Background(), a.ID), http.StatusNotFound, "agent_not_found")
}

func TestDynamicPromptLifecycle(t *testing.T) {
	store, _, svc := newAgentFixture(t)
	a := seedAgent(store, "Coach", "coach", true)
	b := seedAgent(store, "Writer", "writer", true)

	missing := uuid.New()
	_, err := svc.Create(context.Background(), DynamicPromptInput{AgentID: &missing, SystemPrompt: strPtr("x")})
	assertAPIError(t, err, http.StatusNotFound, "agent_not_found")
	_, err = svc.Create(context.Background(), DynamicPromptInput{AgentID: &a.ID, SystemPrompt: strPtr(" ")})
	assertAPIError(t, err, http.StatusBadRequest, "invalid_prompt")

	p, err := svc.Create(context.Background(), DynamicPromptInput{AgentID: &a.ID, SystemPrompt: strPtr("Be brief."), UserPrompt: strPtr("Explain {topic}")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), DynamicPromptInput{AgentID: &b.ID, SystemPrompt: strPtr("Be kind.")}); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	forA, err := svc.List(context.Background(), &a.ID)
	if err != nil || len(forA) != 1 {
		t.Fatalf("List by agent: want=1 got=%d err=%v", len(forA), err)
	}
	all, _ := svc.List(context.Background(), nil)
	if len(all) != 2 {
		t.Fatalf("List all: want=2 got=%d", len(all))
	}

	updated, err := svc.Update(context.Background(), p.ID, DynamicPromptInput{AgentID: &b.ID, SystemPrompt: strPtr("Be very brief.")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.AgentID != b.ID || store.prompts[p.ID].SystemPrompt != "Be very brief." {
		t.Fatalf("update not applied: %+v", store.prompts[p.ID])
	}

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertAPIError(t, svc.Delete(context.Background(), p.ID), http.StatusNotFound, "dynamic_prompt_not_found")
}
