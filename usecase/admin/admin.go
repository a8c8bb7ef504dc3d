// Package admin covers staff management: listing members and changing
// role flags. Role changes are admin-only and self-demotion is blocked.
package admin

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type UseCase struct {
	staff  repository.StaffRepository
	logger *zap.Logger
}

func New(staff repository.StaffRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{staff: staff, logger: logger}
}

func (uc *UseCase) ListStaff(ctx context.Context) ([]domain.Staff, error) {
	return uc.staff.List(ctx)
}

// RoleChange is the target flag set for a staff member.
type RoleChange struct {
	IsManager  bool
	IsAdmin    bool
	Department string
}

// SetRole applies a role change. The acting admin may not strip their
// own admin flag; another admin has to do it.
func (uc *UseCase) SetRole(ctx context.Context, actor *domain.Staff, targetID string, change RoleChange) (*domain.Staff, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}
	if actor.ID == targetID && !change.IsAdmin {
		return nil, domain.ErrSelfDemotion
	}

	target, err := uc.staff.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	target.IsManager = change.IsManager
	target.IsAdmin = change.IsAdmin
	if change.Department != "" {
		target.Department = change.Department
	}

	if err := uc.staff.Update(ctx, target); err != nil {
		return nil, err
	}

	uc.logger.Info("staff role updated",
		zap.String("actor_id", actor.ID),
		zap.String("staff_id", target.ID),
		zap.String("role", target.Role()))
	return target, nil
}
