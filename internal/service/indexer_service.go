package service

import (
	"context"
	"encoding/json"
	"log"

	"drive-assistant-be/internal/dto"
	"drive-assistant-be/internal/repository/memory"
	"drive-assistant-be/pkg/events"
	pktNats "drive-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IIndexerService interface {
	Consume(ctx context.Context) error
}

// indexerService consumes upload events and mirrors fresh uploads into
// the recent-uploads fallback of every live session the uploader owns.
// The backend search index lags behind uploads; this keeps just-uploaded
// files findable in conversation immediately.
type indexerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	sessionRepo *memory.SessionRepository
	publisher   *pktNats.Publisher
}

func NewIndexerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sessionRepo *memory.SessionRepository,
	publisher *pktNats.Publisher,
) IIndexerService {
	return &indexerService{
		pubSub:      pubSub,
		topicName:   topicName,
		sessionRepo: sessionRepo,
		publisher:   publisher,
	}
}

func (is *indexerService) Consume(ctx context.Context) error {
	messages, err := is.pubSub.Subscribe(ctx, is.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			is.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (is *indexerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishFileUploadedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal upload message: %v", err)
		msg.Ack()
		return
	}

	states := is.sessionRepo.ForUser(payload.UserId.String())
	for _, state := range states {
		state.AddRecentUpload(payload.File)
		is.sessionRepo.Save(state)
	}

	if is.publisher != nil {
		event := events.NewFileIndexed(payload.UserId.String(), payload.File.Id)
		if err := is.publisher.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish FILE_INDEXED event: %v", err)
		}
	}

	log.Printf("[INFO] Indexed upload %s into %d live sessions", payload.File.Name, len(states))
	msg.Ack()
}
