package project

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type UseCase struct {
	projects repository.ProjectRepository
	logger   *zap.Logger
	clock    func() time.Time
}

func New(projects repository.ProjectRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		projects: projects,
		logger:   logger,
		clock:    time.Now,
	}
}

func (uc *UseCase) List(ctx context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	return uc.projects.List(ctx, filter)
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.Project, error) {
	return uc.projects.GetByID(ctx, id)
}

func (uc *UseCase) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil || project.Name == "" || project.OwnerID == "" {
		return nil, domain.ErrInvalidPayload
	}
	return uc.projects.Create(ctx, project)
}

func (uc *UseCase) Update(ctx context.Context, actor *domain.Staff, project *domain.Project) (*domain.Project, error) {
	if project == nil || project.ID == "" {
		return nil, domain.ErrInvalidPayload
	}

	existing, err := uc.projects.GetByID(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if !existing.IsOwnedBy(actor.ID) && !actor.CanViewReports() {
		return nil, domain.ErrForbidden
	}

	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (uc *UseCase) Delete(ctx context.Context, actor *domain.Staff, id string) error {
	existing, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.IsOwnedBy(actor.ID) && !actor.CanViewReports() {
		return domain.ErrForbidden
	}
	return uc.projects.SoftDelete(ctx, id, uc.clock())
}
