package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/pkg/httpcontext"
	adminUC "github.com/taskforge/backend/usecase/admin"
	authUC "github.com/taskforge/backend/usecase/auth"
)

type AdminHandler struct {
	baseHandler
	auth *authUC.UseCase
	uc   *adminUC.UseCase
}

func NewAdminHandler(uc *adminUC.UseCase, auth *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		baseHandler: newBaseHandler(adapter, logger),
		auth:        auth,
		uc:          uc,
	}
}

// @Summary List staff
// @Tags admin
// @Router /api/v1/admin/staff [get]
func (h *AdminHandler) GetStaff(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.auth.RequireReporter(stdCtx, h.authUID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}

	staff, err := h.uc.ListStaff(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, staff)
}

// @Summary Change a staff member's role flags
// @Tags admin
// @Router /api/v1/admin/staff/{id}/role [put]
func (h *AdminHandler) SetRole(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	actor, err := h.auth.RequireAdmin(stdCtx, h.authUID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	var req transport.RoleRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	targetID, _ := ctx.UserValue("id").(string)
	updated, err := h.uc.SetRole(stdCtx, actor, targetID, adminUC.RoleChange{
		IsManager:  req.IsManager,
		IsAdmin:    req.IsAdmin,
		Department: req.Department,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}
