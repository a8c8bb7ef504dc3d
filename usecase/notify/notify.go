package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type UseCase struct {
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

func New(notifications repository.NotificationRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{notifications: notifications, logger: logger}
}

func (uc *UseCase) List(ctx context.Context, staffID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	return uc.notifications.List(ctx, repository.NotificationFilter{
		StaffID:    staffID,
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     offset,
	})
}

func (uc *UseCase) MarkRead(ctx context.Context, id, staffID string) error {
	return uc.notifications.MarkRead(ctx, id, staffID)
}
