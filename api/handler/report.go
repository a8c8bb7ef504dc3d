package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/pkg/httpcontext"
	authUC "github.com/taskforge/backend/usecase/auth"
	reportUC "github.com/taskforge/backend/usecase/report"
)

type ReportHandler struct {
	baseHandler
	auth    *authUC.UseCase
	reports *reportUC.UseCase
}

func NewReportHandler(reports *reportUC.UseCase, auth *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		baseHandler: newBaseHandler(adapter, logger),
		auth:        auth,
		reports:     reports,
	}
}

// @Summary Task completion report
// @Tags reports
// @Router /api/v1/reports/completion [get]
func (h *ReportHandler) Completion(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	// role check runs before any report query
	if _, err := h.auth.RequireReporter(stdCtx, h.authUID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}

	filters, ok := h.parseFilters(ctx)
	if !ok {
		return
	}

	report, err := h.reports.Completion(stdCtx, filters)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}

// @Summary Logged time report
// @Tags reports
// @Router /api/v1/reports/time [get]
func (h *ReportHandler) Time(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.auth.RequireReporter(stdCtx, h.authUID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}

	filters, ok := h.parseFilters(ctx)
	if !ok {
		return
	}
	filters.Grouping = string(ctx.QueryArgs().Peek("grouping"))
	filters.Department = string(ctx.QueryArgs().Peek("department"))

	report, err := h.reports.Time(stdCtx, filters)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}

func (h *ReportHandler) parseFilters(ctx *fasthttp.RequestCtx) (reportUC.Filters, bool) {
	filters := reportUC.Filters{
		UserID:    string(ctx.QueryArgs().Peek("user_id")),
		ProjectID: string(ctx.QueryArgs().Peek("project_id")),
	}

	start, err := parseDate(string(ctx.QueryArgs().Peek("start_date")))
	if err != nil {
		h.respondInvalid(ctx, "malformed start_date")
		return filters, false
	}
	end, err := parseDate(string(ctx.QueryArgs().Peek("end_date")))
	if err != nil {
		h.respondInvalid(ctx, "malformed end_date")
		return filters, false
	}
	if start != nil && end != nil && end.Before(*start) {
		h.respondInvalid(ctx, "end_date precedes start_date")
		return filters, false
	}

	filters.StartDate = start
	filters.EndDate = end
	return filters, true
}
