package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"drive-assistant-be/internal/config"
	"drive-assistant-be/internal/constant"
	"drive-assistant-be/internal/dto"
	"drive-assistant-be/internal/entity"
	"drive-assistant-be/internal/repository/memory"
	"drive-assistant-be/internal/repository/specification"
	"drive-assistant-be/internal/repository/unitofwork"
	"drive-assistant-be/pkg/ai"
	"drive-assistant-be/pkg/assistant"
	"drive-assistant-be/pkg/drive"
	"drive-assistant-be/pkg/drive/graph"
	"drive-assistant-be/pkg/events"
	"drive-assistant-be/pkg/llm"
	pktNats "drive-assistant-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

type IAssistantService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
}

// assistantService owns session lifecycle and runs each message through
// the conversation engine. Engine working state lives in the memory
// repository; the durable transcript lives in the database.
type assistantService struct {
	uowFactory   unitofwork.RepositoryFactory
	oauthService IOAuthService
	aiService    *ai.Service
	sessionRepo  *memory.SessionRepository
	rdb          *redis.Client
	graphConfig  config.GraphConfig
	kb           *assistant.KnowledgeBase
	publisher    *pktNats.Publisher
	engineLogger *log.Logger
}

func NewAssistantService(
	uowFactory unitofwork.RepositoryFactory,
	oauthService IOAuthService,
	aiService *ai.Service,
	sessionRepo *memory.SessionRepository,
	rdb *redis.Client,
	graphConfig config.GraphConfig,
	publisher *pktNats.Publisher,
) IAssistantService {
	return &assistantService{
		uowFactory:   uowFactory,
		oauthService: oauthService,
		aiService:    aiService,
		sessionRepo:  sessionRepo,
		rdb:          rdb,
		graphConfig:  graphConfig,
		kb:           assistant.NewKnowledgeBase(),
		publisher:    publisher,
		engineLogger: initEngineLogger(),
	}
}

func initEngineLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "engine.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[ENGINE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (as *assistantService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	uow := as.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     constant.DefaultSessionTitle,
		CreatedAt: now,
	}

	greeting := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: chatSession.Id,
		Role:          constant.ChatMessageRoleBot,
		Text:          constant.SessionGreeting,
		CreatedAt:     now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if as.publisher != nil {
		event := events.NewChatStarted(userId.String(), chatSession.Id.String())
		if err := as.publisher.Publish(ctx, event); err != nil {
			as.engineLogger.Printf("failed to publish CHAT_STARTED: %v", err)
		}
	}

	return &dto.CreateSessionResponse{Id: chatSession.Id}, nil
}

func (as *assistantService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := as.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}

	return response, nil
}

func (as *assistantService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := as.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session not found or access denied")
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		resp = append(resp, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Text:      msg.Text,
			Sources:   decodeSources(msg.Sources),
			IsImage:   msg.IsImage,
			IsVideo:   msg.IsVideo,
			CreatedAt: msg.CreatedAt,
		})
	}

	return resp, nil
}

func (as *assistantService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := as.uowFactory.NewUnitOfWork(ctx)

	chatSession, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: request.ChatSessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if chatSession == nil {
		return nil, fmt.Errorf("session not found or access denied")
	}

	state := as.loadState(ctx, uow, chatSession)

	files, err := as.fileRepositoryFor(ctx, userId)
	if err != nil {
		return nil, err
	}

	engine := assistant.NewEngine(files, as.aiService, as.kb, as.engineLogger)
	reply := engine.HandleMessage(ctx, state, request.Message)

	as.sessionRepo.Save(state)

	now := time.Now()
	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: chatSession.Id,
		Role:          constant.ChatMessageRoleUser,
		Text:          request.Message,
		CreatedAt:     now,
	}
	botMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: chatSession.Id,
		Role:          constant.ChatMessageRoleBot,
		Text:          reply.Text,
		Sources:       encodeSources(reply),
		IsImage:       reply.IsImage,
		IsVideo:       reply.IsVideo,
		CreatedAt:     now.Add(1 * time.Millisecond),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().CreateBatch(ctx, []*entity.ChatMessage{userMessage, botMessage}); err != nil {
		return nil, err
	}

	if chatSession.Title == constant.DefaultSessionTitle {
		chatSession.Title = deriveTitle(request.Message)
		chatSession.UpdatedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, chatSession); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.SendChatResponse{
		ChatSessionId:    chatSession.Id,
		ChatSessionTitle: chatSession.Title,
		Reply:            reply,
	}, nil
}

func (as *assistantService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	uow := as.uowFactory.NewUnitOfWork(ctx)

	chatSession, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: request.ChatSessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if chatSession == nil {
		return fmt.Errorf("session not found or access denied")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, chatSession.Id); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, chatSession.Id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	as.sessionRepo.Delete(chatSession.Id.String())
	return nil
}

// loadState returns the live engine state for the session, rebuilding a
// fresh one from the persisted transcript after an eviction or restart.
func (as *assistantService) loadState(ctx context.Context, uow unitofwork.UnitOfWork, chatSession *entity.ChatSession) *assistant.SessionState {
	if state, found := as.sessionRepo.Get(chatSession.Id.String()); found {
		return state
	}

	state := &assistant.SessionState{
		Id:     chatSession.Id.String(),
		UserId: chatSession.UserId.String(),
	}

	persisted, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: chatSession.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		as.engineLogger.Printf("failed to rebuild session %s from transcript: %v", chatSession.Id, err)
		return state
	}

	for _, msg := range persisted {
		role := "user"
		if msg.Role == constant.ChatMessageRoleBot {
			role = "assistant"
		}
		state.History = append(state.History, llm.Message{Role: role, Content: msg.Text})
	}
	if len(state.History) > 6 {
		state.History = state.History[len(state.History)-6:]
	}

	return state
}

func (as *assistantService) fileRepositoryFor(ctx context.Context, userId uuid.UUID) (drive.FileRepository, error) {
	tokens, err := as.oauthService.TokenProviderFor(ctx, userId)
	if err != nil {
		return nil, err
	}

	var repo drive.FileRepository = graph.NewClient(as.graphConfig.BaseURL, tokens)
	if as.rdb != nil {
		repo = drive.NewCachedRepository(repo, as.rdb, 5*time.Minute)
	}
	return repo, nil
}

func deriveTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= constant.SessionTitleMaxLen {
		return message
	}
	return string(runes[:constant.SessionTitleMaxLen]) + "..."
}

func encodeSources(reply *assistant.BotMessage) datatypes.JSON {
	sources := reply.Sources
	if len(sources) == 0 {
		sources = reply.Items
	}
	if len(sources) == 0 {
		return nil
	}
	raw, err := json.Marshal(sources)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func decodeSources(raw datatypes.JSON) []dto.SourceDTO {
	if len(raw) == 0 {
		return nil
	}
	var records []drive.FileRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil
	}
	sources := make([]dto.SourceDTO, 0, len(records))
	for _, r := range records {
		sources = append(sources, dto.SourceDTO{
			Id:     r.Id,
			Name:   r.Name,
			Path:   r.Path,
			WebUrl: r.WebUrl,
			Type:   string(r.Type),
		})
	}
	return sources
}
