package usecase

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// NotificationOutbox abstracts the notification outbox so use cases stay
// storage-agnostic. Publishing is best-effort from the caller's point of
// view: task writes never roll back because a notification failed.
type NotificationOutbox interface {
	Publish(ctx context.Context, notification *domain.Notification) error
}
