package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/aiclub-backend/internal/data/aggregates"
	"github.com/yungbote/aiclub-backend/internal/data/repos"
	"github.com/yungbote/aiclub-backend/internal/observability"
	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/platform/openai"
)

const maxChatMessageRunes = 4000

const analysisSystemPrompt = `You review prompts written by students learning to work with AI assistants.
Score the prompt from 1 to 10 for clarity, context, and specificity, then give short, encouraging feedback
and one improved version of the prompt. Answer in the language the student wrote in.`

var analysisSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"score", "feedback", "improved_prompt"},
	"properties": map[string]any{
		"score":           map[string]any{"type": "integer"},
		"feedback":        map[string]any{"type": "string"},
		"improved_prompt": map[string]any{"type": "string"},
	},
}

type ChatReply struct {
	Reply    string        `json:"reply"`
	Progress *ProgressView `json:"progress"`
}

type PromptAnalysis struct {
	Score          int    `json:"score"`
	Feedback       string `json:"feedback"`
	ImprovedPrompt string `json:"improved_prompt"`
}

type TutorService interface {
	Chat(ctx context.Context, agentID uuid.UUID, message string) (*ChatReply, error)
	Analyze(ctx context.Context, prompt string) (*PromptAnalysis, error)
}

type tutorService struct {
	log        *logger.Logger
	tx         aggregates.TxRunner
	agentRepo  repos.AgentRepo
	promptRepo repos.DynamicPromptRepo
	progress   ProgressService
	llm        openai.Client
}

func NewTutorService(
	log *logger.Logger,
	tx aggregates.TxRunner,
	agentRepo repos.AgentRepo,
	promptRepo repos.DynamicPromptRepo,
	progress ProgressService,
	llm openai.Client,
) TutorService {
	return &tutorService{
		log:        log.With("service", "TutorService"),
		tx:         tx,
		agentRepo:  agentRepo,
		promptRepo: promptRepo,
		progress:   progress,
		llm:        llm,
	}
}

var errLLMUnavailable = apierr.New(http.StatusBadGateway, "llm_unavailable", errors.New("the tutor is unavailable right now, please try again"))

func validateMessage(field, msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", apierr.BadRequest("invalid_"+field, field+" is required")
	}
	if utf8.RuneCountInString(msg) > maxChatMessageRunes {
		return "", apierr.Newf(http.StatusBadRequest, "message_too_long", "%s must be at most %d characters", field, maxChatMessageRunes)
	}
	return msg, nil
}

func (s *tutorService) Chat(ctx context.Context, agentID uuid.UUID, message string) (*ChatReply, error) {
	rd, err := requestData(ctx)
	if err != nil {
		return nil, err
	}
	message, err = validateMessage("message", message)
	if err != nil {
		return nil, err
	}

	dbc := dbctx.From(ctx)
	agent, err := s.agentRepo.GetByID(dbc, agentID)
	if err != nil {
		return nil, fmt.Errorf("load agent: %w", err)
	}
	if agent == nil || !agent.IsActive {
		return nil, errAgentNotFound
	}
	prompts, err := s.promptRepo.ListByAgentID(dbc, agentID)
	if err != nil {
		return nil, fmt.Errorf("load dynamic prompts: %w", err)
	}

	var sys strings.Builder
	sys.WriteString(strings.TrimSpace(agent.Prompt))
	for _, p := range prompts {
		if t := strings.TrimSpace(p.SystemPrompt); t != "" {
			if sys.Len() > 0 {
				sys.WriteString("\n\n")
			}
			sys.WriteString(t)
		}
	}

	ctx, span := observability.StartSpan(ctx, "tutor.chat", attribute.String("agent.id", agentID.String()))
	defer span.End()

	reply, err := s.llm.GenerateText(ctx, sys.String(), message)
	if err != nil {
		span.RecordError(err)
		s.log.Warn("LLM call failed", "agent_id", agentID, "error", err)
		return nil, errLLMUnavailable
	}

	out := &ChatReply{Reply: reply}
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		view, err := s.progress.RecordPrompt(dbc, rd.UserID)
		if err != nil {
			return err
		}
		out.Progress = view
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *tutorService) Analyze(ctx context.Context, prompt string) (*PromptAnalysis, error) {
	if _, err := requestData(ctx); err != nil {
		return nil, err
	}
	prompt, err := validateMessage("prompt", prompt)
	if err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "tutor.analyze")
	defer span.End()

	obj, err := s.llm.GenerateJSON(ctx, analysisSystemPrompt, prompt, "prompt_analysis", analysisSchema)
	if err != nil {
		span.RecordError(err)
		s.log.Warn("LLM analysis failed", "error", err)
		return nil, errLLMUnavailable
	}
	out := &PromptAnalysis{}
	if v, ok := obj["score"].(float64); ok {
		out.Score = int(v)
	}
	out.Feedback, _ = obj["feedback"].(string)
	out.ImprovedPrompt, _ = obj["improved_prompt"].(string)
	return out, nil
}
