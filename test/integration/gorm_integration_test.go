package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"drive-assistant-be/internal/constant"
	"drive-assistant-be/internal/entity"
	"drive-assistant-be/internal/repository/specification"
	"drive-assistant-be/internal/repository/unitofwork"
	"drive-assistant-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestGormConnection(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatMessageRepository())
	assert.NotNil(t, uow.ReportRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Transactional Session Transcript", func(t *testing.T) {
		ctx := context.Background()
		uow := uowFactory.NewUnitOfWork(ctx)
		err := uow.Begin(ctx)
		assert.NoError(t, err)
		// Rollback keeps the test database clean either way.
		defer uow.Rollback()

		user := &entity.User{
			Id:       uuid.New(),
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
			Role:     entity.UserRoleUser,
			Status:   entity.UserStatusActive,
		}
		err = uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)

		session := &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    user.Id,
			Title:     constant.DefaultSessionTitle,
			CreatedAt: time.Now(),
		}
		err = uow.ChatSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		messages := []*entity.ChatMessage{
			{
				Id:            uuid.New(),
				ChatSessionId: session.Id,
				Role:          constant.ChatMessageRoleUser,
				Text:          "find the migration plan",
				CreatedAt:     time.Now(),
			},
			{
				Id:            uuid.New(),
				ChatSessionId: session.Id,
				Role:          constant.ChatMessageRoleBot,
				Text:          "I found 1 file matching \"migration plan\".",
				Sources:       datatypes.JSON([]byte(`[{"id":"f1","name":"migration-plan.docx"}]`)),
				CreatedAt:     time.Now().Add(time.Millisecond),
			},
		}
		err = uow.ChatMessageRepository().CreateBatch(ctx, messages)
		assert.NoError(t, err)

		found, err := uow.ChatMessageRepository().FindAll(ctx,
			specification.ByChatSessionID{ChatSessionID: session.Id},
			specification.OrderBy{Field: "created_at", Desc: false},
		)
		assert.NoError(t, err)
		assert.Len(t, found, 2)
		assert.Equal(t, constant.ChatMessageRoleUser, found[0].Role)

		report := &entity.GeneratedReport{
			Id:           uuid.New(),
			UserId:       user.Id,
			DocumentName: "CR-1042 Payment Gateway Migration.docx",
			CRNumber:     "CR-1042",
			FormData:     datatypes.JSON([]byte(`{"cr_number":"CR-1042"}`)),
			CreatedAt:    time.Now(),
		}
		err = uow.ReportRepository().Create(ctx, report)
		assert.NoError(t, err)

		count, err := uow.ReportRepository().Count(ctx, specification.ByCRNumber{CRNumber: "CR-1042"})
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, count, int64(1))
	})
}
