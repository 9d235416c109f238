package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"drive-assistant-be/internal/model"
	"drive-assistant-be/internal/pkg/logger"
	"drive-assistant-be/internal/repository"
	"drive-assistant-be/pkg/events"
	pktNats "drive-assistant-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery pushes real-time updates, implemented by the
// websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

// notificationTemplate maps an event type code to the rendered
// notification. Placeholders reference payload keys.
type notificationTemplate struct {
	Title    string
	Template string
}

var notificationRegistry = map[string]notificationTemplate{
	events.TypeFileUploaded:  {Title: "File uploaded", Template: "{file_name} was uploaded to your drive."},
	events.TypeFileIndexed:   {Title: "File ready", Template: "Your upload is now searchable in conversations."},
	events.TypeChatStarted:   {Title: "New conversation", Template: "A new assistant conversation was started."},
	events.TypeReportCreated: {Title: "Report ready", Template: "Impact analysis for {document_name} ({cr_number}) is ready."},
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("assistant.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to assistant.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects carry the stream prefix, the registry keys do not
	typeCode := strings.TrimPrefix(event.EventType(), "assistant.")

	tmpl, ok := notificationRegistry[typeCode]
	if !ok {
		s.logger.Debug("NotificationService", fmt.Sprintf("No notification configured for event %q", typeCode), nil)
		return nil
	}

	userID, ok := recipientOf(event)
	if !ok {
		s.logger.Warn("NotificationService", fmt.Sprintf("Event %s has no user_id, skipping", typeCode), nil)
		return nil
	}

	notif := s.buildNotification(userID, typeCode, tmpl, event)

	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", fmt.Sprintf("Error saving notification for user %s", userID), map[string]interface{}{"error": err})
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(userID, notif)
	}

	return nil
}

func recipientOf(event events.Event) (uuid.UUID, bool) {
	uidStr, ok := event.Payload()["user_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	uid, err := uuid.Parse(uidStr)
	if err != nil {
		return uuid.Nil, false
	}
	return uid, true
}

func (s *NotificationService) buildNotification(userID uuid.UUID, typeCode string, tmpl notificationTemplate, event events.Event) model.Notification {
	msg := tmpl.Template
	payload := event.Payload()

	for k, v := range payload {
		placeholder := fmt.Sprintf("{%s}", k)
		msg = strings.ReplaceAll(msg, placeholder, fmt.Sprintf("%v", v))
	}

	metaJSON, _ := json.Marshal(payload)

	return model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		TypeCode:  typeCode,
		Title:     tmpl.Title,
		Message:   msg,
		Metadata:  datatypes.JSON(metaJSON),
		CreatedAt: time.Now(),
		IsRead:    false,
	}
}

// GetNotifications fetches notifications for a user.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

// GetUnreadCount fetches unread count.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkAsRead marks a notification as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
