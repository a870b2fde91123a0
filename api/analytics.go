package api

import (
	"fmt"
	"log"
	"net/http"

	"fintrack/config"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// AnalyticsHandler 月度统计处理器
type AnalyticsHandler struct {
	cfg       *config.Config
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler 创建统计处理器
func NewAnalyticsHandler(cfg *config.Config, analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{cfg: cfg, analytics: analytics}
}

type analyticsQuery struct {
	userID uint
	year   int
	month  int
	txType models.CategoryType
}

func (h *AnalyticsHandler) parseQuery(c *gin.Context) (analyticsQuery, bool) {
	year, month, ok := periodFromQuery(c)
	if !ok {
		BadRequest(c, service.ErrInvalidPeriod.Error())
		return analyticsQuery{}, false
	}
	return analyticsQuery{
		userID: middleware.GetCurrentUserID(c),
		year:   year,
		month:  month,
		txType: typeFromQuery(c, models.CategoryTypeExpense),
	}, true
}

// locale 星期名称语言：优先 lang 参数，其次 Accept-Language，最后是配置的默认语言
func (h *AnalyticsHandler) locale(c *gin.Context) language.Tag {
	fallback := h.cfg.Analytics.DefaultLocale
	if lang := c.Query("lang"); lang != "" {
		return service.MatchLocale("", lang)
	}
	return service.MatchLocale(c.GetHeader("Accept-Language"), fallback)
}

// Monthly 月度统计
// @Summary 月度统计
// @Description 整月逐日流水（含累计）和按类别汇总（按金额降序）
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param year query int false "年份，默认当前年"
// @Param month query int false "月份，默认当前月"
// @Param type query string false "类型 income/expense，默认 expense"
// @Success 200 {object} Response{data=service.MonthlyAnalytics} "获取成功"
// @Failure 503 {object} Response "无法获取数据"
// @Router /api/v1/analytics/monthly [get]
func (h *AnalyticsHandler) Monthly(c *gin.Context) {
	q, ok := h.parseQuery(c)
	if !ok {
		return
	}
	result, err := h.analytics.MonthlyAnalytics(c.Request.Context(), q.userID, q.year, q.month, q.txType)
	if err != nil {
		respondError(c, err, "获取统计失败")
		return
	}
	Success(c, result)
}

// ByDay 按天分组的交易
// @Summary 按天分组的交易
// @Description 仅包含有交易的日期，按日期倒序，星期名称按 Accept-Language 本地化
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param year query int false "年份"
// @Param month query int false "月份"
// @Param type query string false "类型 income/expense"
// @Param lang query string false "星期名称语言 zh/en/pt-BR"
// @Success 200 {object} Response{data=[]service.DayGroup} "获取成功"
// @Router /api/v1/analytics/by-day [get]
func (h *AnalyticsHandler) ByDay(c *gin.Context) {
	q, ok := h.parseQuery(c)
	if !ok {
		return
	}
	days, err := h.analytics.TransactionsByDay(c.Request.Context(), q.userID, q.year, q.month, q.txType, h.locale(c))
	if err != nil {
		respondError(c, err, "获取交易失败")
		return
	}
	Success(c, days)
}

// MonthView 统计页数据
// @Summary 统计页数据
// @Description 一次返回月度统计和按天分组的交易
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param year query int false "年份"
// @Param month query int false "月份"
// @Param type query string false "类型 income/expense"
// @Success 200 {object} Response{data=service.MonthView} "获取成功"
// @Router /api/v1/analytics/month-view [get]
func (h *AnalyticsHandler) MonthView(c *gin.Context) {
	q, ok := h.parseQuery(c)
	if !ok {
		return
	}
	view, err := h.analytics.MonthView(c.Request.Context(), q.userID, q.year, q.month, q.txType, h.locale(c))
	if err != nil {
		respondError(c, err, "获取统计失败")
		return
	}
	Success(c, view)
}

// Export 导出月度统计 Excel
// @Summary 导出月度统计
// @Tags 统计
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param year query int false "年份"
// @Param month query int false "月份"
// @Param type query string false "类型 income/expense"
// @Success 200 {file} file "xlsx 文件"
// @Router /api/v1/analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	q, ok := h.parseQuery(c)
	if !ok {
		return
	}
	result, err := h.analytics.MonthlyAnalytics(c.Request.Context(), q.userID, q.year, q.month, q.txType)
	if err != nil {
		respondError(c, err, "获取统计失败")
		return
	}

	buf, err := service.BuildMonthlyReport(result)
	if err != nil {
		log.Printf("生成月度报表失败: user=%d err=%v", q.userID, err)
		InternalError(c, SafeErrorMessage(err, "生成报表失败"))
		return
	}

	filename := fmt.Sprintf("report_%s_%04d%02d.xlsx", q.txType, q.year, q.month)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
