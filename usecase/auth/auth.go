// Package auth resolves caller identities to staff records and enforces
// the role floor for guarded operations.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type UseCase struct {
	staff    repository.StaffRepository
	sessions repository.SessionRepository
	logger   *zap.Logger
}

func New(staff repository.StaffRepository, sessions repository.SessionRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		staff:    staff,
		sessions: sessions,
		logger:   logger,
	}
}

// Resolve maps an external auth identity to its staff record.
// An empty identity is unauthenticated; a valid identity without a staff
// row is rejected before any query-bearing operation runs.
func (uc *UseCase) Resolve(ctx context.Context, authUID string) (*domain.Staff, error) {
	if authUID == "" {
		return nil, domain.ErrUnauthenticated
	}
	staff, err := uc.staff.GetByAuthUID(ctx, authUID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNoStaffRecord) || domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrNoStaffRecord
		}
		return nil, domain.WrapDataAccess("resolving staff identity", err)
	}
	return staff, nil
}

// RequireReporter resolves the identity and enforces the manager-or-admin
// floor shared by the report and admin-read endpoints.
func (uc *UseCase) RequireReporter(ctx context.Context, authUID string) (*domain.Staff, error) {
	staff, err := uc.Resolve(ctx, authUID)
	if err != nil {
		return nil, err
	}
	if !staff.CanViewReports() {
		return nil, domain.ErrForbidden
	}
	return staff, nil
}

// RequireAdmin resolves the identity and enforces the admin floor.
func (uc *UseCase) RequireAdmin(ctx context.Context, authUID string) (*domain.Staff, error) {
	staff, err := uc.Resolve(ctx, authUID)
	if err != nil {
		return nil, err
	}
	if !staff.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return staff, nil
}

// CreateSession issues a cached session for a resolved identity.
func (uc *UseCase) CreateSession(ctx context.Context, authUID string, ttl time.Duration) (*domain.Session, error) {
	staff, err := uc.Resolve(ctx, authUID)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		StaffID:   staff.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}
