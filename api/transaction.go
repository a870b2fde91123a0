package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionReader 交易的查询与删除
type TransactionReader interface {
	GetTransaction(ctx context.Context, userID uint, id string) (*models.Transaction, error)
	FetchDayTransactions(ctx context.Context, userID uint, date string) ([]models.TransactionRow, error)
	DeleteTransaction(ctx context.Context, userID uint, id string) error
}

// TransactionHandler 交易处理器
type TransactionHandler struct {
	reader       TransactionReader
	transactions *service.TransactionService
}

// NewTransactionHandler 创建交易处理器
func NewTransactionHandler(reader TransactionReader, transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{reader: reader, transactions: transactions}
}

// TransactionRequest 创建/更新交易请求
type TransactionRequest struct {
	Name             string              `json:"name" binding:"required,max=100" example:"午餐"`
	Type             models.CategoryType `json:"type" binding:"required" example:"expense"`
	Amount           decimal.Decimal     `json:"amount" swaggertype:"number" example:"25.5"`
	Date             string              `json:"date" binding:"required" example:"2024-03-15"`
	CategoryID       string              `json:"category_id" binding:"required"`
	IncomeCategoryID *string             `json:"income_category_id,omitempty"` // 仅支出，资金来源的收入类别
	Observation      *string             `json:"observation,omitempty" binding:"omitempty,max=500"`
}

func (r *TransactionRequest) input() service.TransactionInput {
	return service.TransactionInput{
		Name:             r.Name,
		Type:             r.Type,
		Amount:           r.Amount,
		Date:             r.Date,
		CategoryID:       r.CategoryID,
		IncomeCategoryID: r.IncomeCategoryID,
		Observation:      r.Observation,
	}
}

func dateFromQuery(c *gin.Context) (string, bool) {
	date := c.DefaultQuery("date", time.Now().Format(models.DateLayout))
	if _, err := models.ParseDate(date); err != nil {
		return "", false
	}
	return date, true
}

// Create 创建交易
// @Summary 创建交易
// @Description 支出会先校验类别当月预算，超出时返回 400 并在 data 中给出预算校验结果，记录不会保存
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response{data=service.BudgetValidation} "参数错误或超出预算"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	tx, err := h.transactions.Create(c.Request.Context(), middleware.GetCurrentUserID(c), req.input())
	if err != nil {
		var exceeded *service.BudgetExceededError
		if errors.As(err, &exceeded) {
			c.JSON(http.StatusBadRequest, Response{
				Code:    http.StatusBadRequest,
				Message: exceeded.Error(),
				Data:    exceeded.Validation,
			})
			return
		}
		respondError(c, err, "创建交易失败")
		return
	}

	SuccessWithMessage(c, "创建成功", tx)
}

// List 获取某天的交易
// @Summary 获取某天的交易
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param date query string false "日期 YYYY-MM-DD，默认今天"
// @Success 200 {object} Response{data=[]models.TransactionRow} "获取成功"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	date, ok := dateFromQuery(c)
	if !ok {
		BadRequest(c, service.ErrInvalidDate.Error())
		return
	}

	rows, err := h.reader.FetchDayTransactions(c.Request.Context(), middleware.GetCurrentUserID(c), date)
	if err != nil {
		respondError(c, err, "获取交易失败")
		return
	}
	if rows == nil {
		rows = []models.TransactionRow{}
	}
	Success(c, rows)
}

// Summary 某天的收支汇总
// @Summary 单日收支汇总
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param date query string false "日期 YYYY-MM-DD，默认今天"
// @Success 200 {object} Response{data=service.DaySummary} "获取成功"
// @Router /api/v1/transactions/summary [get]
func (h *TransactionHandler) Summary(c *gin.Context) {
	date, ok := dateFromQuery(c)
	if !ok {
		BadRequest(c, service.ErrInvalidDate.Error())
		return
	}

	rows, err := h.reader.FetchDayTransactions(c.Request.Context(), middleware.GetCurrentUserID(c), date)
	if err != nil {
		respondError(c, err, "获取交易失败")
		return
	}
	Success(c, service.SummarizeDay(date, rows))
}

// Get 获取交易详情
// @Summary 获取交易详情
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path string true "交易ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 404 {object} Response "交易不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	tx, err := h.reader.GetTransaction(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "获取交易失败")
		return
	}
	Success(c, tx)
}

// Update 更新交易
// @Summary 更新交易
// @Description 修改不做预算拦截，已支出金额会随之调整
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "交易ID"
// @Param request body TransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	tx, err := h.transactions.Update(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err, "更新交易失败")
		return
	}
	SuccessWithMessage(c, "更新成功", tx)
}

// Delete 删除交易
// @Summary 删除交易
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path string true "交易ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	if err := h.reader.DeleteTransaction(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id")); err != nil {
		respondError(c, err, "删除交易失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
