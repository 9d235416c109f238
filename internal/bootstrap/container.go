package bootstrap

import (
	"context"
	"log"

	"drive-assistant-be/internal/config"
	"drive-assistant-be/internal/controller"
	"drive-assistant-be/internal/handler"
	"drive-assistant-be/internal/pkg/logger"
	"drive-assistant-be/internal/pkg/mailer"
	"drive-assistant-be/internal/pkg/serverutils"
	"drive-assistant-be/internal/repository/implementation"
	"drive-assistant-be/internal/repository/memory"
	"drive-assistant-be/internal/repository/unitofwork"
	"drive-assistant-be/internal/service"
	"drive-assistant-be/internal/websocket"
	"drive-assistant-be/pkg/ai"
	"drive-assistant-be/pkg/drive"
	"drive-assistant-be/pkg/drive/graph"
	"drive-assistant-be/pkg/llm/factory"

	pktNats "drive-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	OAuthController     controller.IOAuthController
	AssistantController controller.IAssistantController
	FileController      controller.IFileController
	ReportController    controller.IReportController

	// Background services, run by main
	IndexerService service.IIndexerService

	// WebSockets & notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// 3. AI backends: try the configured provider first, then the rest
	candidates := aiCandidates(cfg)
	aiService, negotiation := ai.Initialize(candidates, log.Default())
	if negotiation.Active != "" {
		log.Printf("[INFO] AI backend active: %s (available: %v)", negotiation.Active, negotiation.Available)
	} else {
		log.Printf("[INFO] No AI backend configured, running with extractive fallbacks only")
	}

	// In-memory engine state
	sessionRepo := memory.NewSessionRepository()

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	authService := service.NewAuthService(uowFactory, cfg.Jwt, emailService, natsPub, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, cfg.Graph, cfg.Jwt, sysLogger)

	assistantService := service.NewAssistantService(
		uowFactory,
		oauthService,
		aiService,
		sessionRepo,
		rdb,
		cfg.Graph,
		natsPub,
	)

	repoBuilder := func(ctx context.Context, userId uuid.UUID) (drive.FileRepository, error) {
		tokens, err := oauthService.TokenProviderFor(ctx, userId)
		if err != nil {
			return nil, err
		}
		return graph.NewClient(cfg.Graph.BaseURL, tokens), nil
	}
	fileService := service.NewFileService(oauthService, repoBuilder, pubSub, natsPub, sysLogger)

	indexerService := service.NewIndexerService(pubSub, service.TopicFileUploaded, sessionRepo, natsPub)

	reportService := service.NewReportService(uowFactory, aiService, sessionRepo, emailService, natsPub, sysLogger)

	// Notification domain
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, cfg.Jwt.Secret, wsLogger)

	// 5. Controllers
	authMW := serverutils.JWTMiddleware(cfg.Jwt.Secret)

	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		AuthController:      controller.NewAuthController(authService, authMW),
		OAuthController:     controller.NewOAuthController(oauthService, cfg.App.ClientURL),
		AssistantController: controller.NewAssistantController(assistantService, authMW),
		FileController:      controller.NewFileController(fileService, authMW),
		ReportController:    controller.NewReportController(reportService, authMW),

		IndexerService: indexerService,
	}
}

// aiCandidates orders the configured backends, preferred provider first.
func aiCandidates(cfg *config.Config) []ai.ProviderCandidate {
	all := []ai.ProviderCandidate{
		{Name: "ollama", Settings: factory.Settings{ModelName: cfg.Ai.Model, OllamaBaseURL: cfg.Ai.OllamaBaseURL}},
		{Name: "gemini", Settings: factory.Settings{ModelName: cfg.Ai.Model, APIKey: cfg.Ai.GeminiAPIKey}},
		{Name: "openai", Settings: factory.Settings{ModelName: cfg.Ai.Model, OpenAIBaseURL: cfg.Ai.OpenAIBaseURL, APIKey: cfg.Ai.OpenAIAPIKey}},
	}

	ordered := make([]ai.ProviderCandidate, 0, len(all))
	for _, c := range all {
		if c.Name == cfg.Ai.Provider {
			ordered = append(ordered, c)
		}
	}
	for _, c := range all {
		if c.Name != cfg.Ai.Provider {
			ordered = append(ordered, c)
		}
	}
	return ordered
}
