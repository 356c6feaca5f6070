package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-mesh/internal/events"
)

// AuditService writes authentication events to the audit log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service. Entries are tagged with a "component"
// field so they can be filtered from request logs.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("component", "audit")),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserRegistered)
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
	a.dispatcher.Subscribe(events.EventTokenRejected, a.handleTokenRejected)
}

func (a *AuditService) handleUserRegistered(ctx context.Context, event events.Event) error {
	a.logger.Info("UserRegistered", eventFields(event)...)
	return nil
}

func (a *AuditService) handleLoginSucceeded(ctx context.Context, event events.Event) error {
	a.logger.Info("LoginSucceeded", eventFields(event)...)
	return nil
}

func (a *AuditService) handleLoginFailed(ctx context.Context, event events.Event) error {
	a.logger.Warn("LoginFailed", eventFields(event)...)
	return nil
}

func (a *AuditService) handleTokenRejected(ctx context.Context, event events.Event) error {
	a.logger.Info("TokenRejected", eventFields(event)...)
	return nil
}

func eventFields(event events.Event) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.SubjectID != "" {
		fields = append(fields, zap.String("subject_id", event.SubjectID))
	}
	if event.Username != "" {
		fields = append(fields, zap.String("username", event.Username))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	return fields
}
