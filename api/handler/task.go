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
	taskUC "github.com/taskforge/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	auth *authUC.UseCase
	uc   *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, auth *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		auth:        auth,
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.auth.Resolve(stdCtx, h.authUID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}

	filter := repository.TaskFilter{
		ProjectID: string(ctx.QueryArgs().Peek("project_id")),
		Status:    string(ctx.QueryArgs().Peek("status")),
		CreatedBy: string(ctx.QueryArgs().Peek("created_by")),
		Limit:     parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:    parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	tasks, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.auth.Resolve(stdCtx, h.authUID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}

	id, _ := ctx.UserValue("id").(string)
	task, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	staff, err := h.auth.Resolve(stdCtx, h.authUID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	task, ok := h.parseTask(ctx)
	if !ok {
		return
	}
	task.CreatedBy = staff.ID

	created, err := h.uc.Create(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.auth.Resolve(stdCtx, h.authUID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}

	task, ok := h.parseTask(ctx)
	if !ok {
		return
	}
	if task.ID == "" {
		if id, ok := ctx.UserValue("id").(string); ok {
			task.ID = id
		}
	}

	existing, err := h.uc.Get(stdCtx, task.ID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	task.CreatedBy = existing.CreatedBy
	task.CompletedAt = existing.CompletedAt

	updated, err := h.uc.Update(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Soft-delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.auth.Resolve(stdCtx, h.authUID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	if err := h.uc.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Complete task, spawning the next occurrence for recurring tasks
// @Tags tasks
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.auth.Resolve(stdCtx, h.authUID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}

	id, _ := ctx.UserValue("id").(string)
	result, err := h.uc.Complete(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// @Summary Add task assignee
// @Tags tasks
// @Router /api/v1/tasks/{id}/assignees [post]
func (h *TaskHandler) AddAssignee(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	staff, err := h.auth.Resolve(stdCtx, h.authUID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	var req transport.AssignRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.StaffID == "" {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	taskID, _ := ctx.UserValue("id").(string)
	if err := h.uc.Assign(stdCtx, taskID, req.StaffID, staff.ID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, nil)
}

// @Summary Remove task assignee
// @Tags tasks
// @Router /api/v1/tasks/{id}/assignees/{staffId} [delete]
func (h *TaskHandler) RemoveAssignee(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	staff, err := h.auth.Resolve(stdCtx, h.authUID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	taskID, _ := ctx.UserValue("id").(string)
	staffID, _ := ctx.UserValue("staffId").(string)
	if err := h.uc.RemoveAssignee(stdCtx, staff, taskID, staffID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx) (*domain.Task, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	// unparseable dates degrade to absent, recurrence falls back later
	start, _ := parseDate(req.StartDate)
	due, _ := parseDate(req.DueDate)

	task := &domain.Task{
		ID:              req.ID,
		Title:           req.Title,
		Notes:           req.Notes,
		Status:          req.Status,
		Priority:        req.Priority,
		ProjectID:       req.ProjectID,
		RepeatFrequency: req.RepeatFrequency,
		StartDate:       start,
		DueDate:         due,
	}

	if task.Status == "" {
		task.Status = domain.StatusNotStarted
	}
	if task.RepeatFrequency == "" {
		task.RepeatFrequency = domain.RepeatNever
	}

	return task, true
}
