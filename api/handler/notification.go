package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/pkg/httpcontext"
	authUC "github.com/taskforge/backend/usecase/auth"
	notifyUC "github.com/taskforge/backend/usecase/notify"
)

type NotificationHandler struct {
	baseHandler
	auth *authUC.UseCase
	uc   *notifyUC.UseCase
}

func NewNotificationHandler(uc *notifyUC.UseCase, auth *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		auth:        auth,
		uc:          uc,
	}
}

// @Summary List the caller's notifications
// @Tags notifications
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) GetNotifications(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	staff, err := h.auth.Resolve(stdCtx, h.authUID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	unreadOnly := string(ctx.QueryArgs().Peek("unread")) == "true"
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)
	offset := parseInt(string(ctx.QueryArgs().Peek("offset")), 0)

	notifications, err := h.uc.List(stdCtx, staff.ID, unreadOnly, limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, notifications)
}

// @Summary Mark a notification read
// @Tags notifications
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	staff, err := h.auth.Resolve(stdCtx, h.authUID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if err := h.uc.MarkRead(stdCtx, id, staff.ID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
