package repository

import (
	"context"
	"time"

	"github.com/taskforge/backend/domain"
)

type NotificationFilter struct {
	StaffID    string
	UnreadOnly bool
	Limit      int
	Offset     int
}

type NotificationRepository interface {
	List(ctx context.Context, filter NotificationFilter) ([]domain.Notification, error)
	Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
	MarkRead(ctx context.Context, id, staffID string) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
