package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/httpcontext"
	"github.com/taskforge/backend/repository"
	authUC "github.com/taskforge/backend/usecase/auth"
	projectUC "github.com/taskforge/backend/usecase/project"
)

type ProjectHandler struct {
	baseHandler
	auth *authUC.UseCase
	uc   *projectUC.UseCase
}

func NewProjectHandler(uc *projectUC.UseCase, auth *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		baseHandler: newBaseHandler(adapter, logger),
		auth:        auth,
		uc:          uc,
	}
}

// @Summary List projects
// @Tags projects
// @Router /api/v1/projects [get]
func (h *ProjectHandler) GetProjects(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.auth.Resolve(stdCtx, h.authUID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}

	filter := repository.ProjectFilter{
		OwnerID: string(ctx.QueryArgs().Peek("owner_id")),
		Status:  string(ctx.QueryArgs().Peek("status")),
		Limit:   parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:  parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	projects, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, projects)
}

// @Summary Get project
// @Tags projects
// @Router /api/v1/projects/{id} [get]
func (h *ProjectHandler) GetProject(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.auth.Resolve(stdCtx, h.authUID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}

	id, _ := ctx.UserValue("id").(string)
	project, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, project)
}

// @Summary Create project
// @Tags projects
// @Router /api/v1/projects [post]
func (h *ProjectHandler) CreateProject(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	staff, err := h.auth.Resolve(stdCtx, h.authUID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	project, ok := h.parseProject(ctx)
	if !ok {
		return
	}
	project.OwnerID = staff.ID

	created, err := h.uc.Create(stdCtx, project)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update project
// @Tags projects
// @Router /api/v1/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	staff, err := h.auth.Resolve(stdCtx, h.authUID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	project, ok := h.parseProject(ctx)
	if !ok {
		return
	}
	if project.ID == "" {
		if id, ok := ctx.UserValue("id").(string); ok {
			project.ID = id
		}
	}

	updated, err := h.uc.Update(stdCtx, staff, project)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Soft-delete project
// @Tags projects
// @Router /api/v1/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	staff, err := h.auth.Resolve(stdCtx, h.authUID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing project id")
		return
	}

	if err := h.uc.Delete(stdCtx, staff, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *ProjectHandler) parseProject(ctx *fasthttp.RequestCtx) (*domain.Project, bool) {
	var req transport.ProjectRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}
	return &domain.Project{
		ID:       req.ID,
		Name:     req.Name,
		Status:   req.Status,
		Priority: req.Priority,
	}, true
}
