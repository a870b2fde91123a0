package api

import (
	"fmt"
	"strconv"

	"fintrack/middleware"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetHandler 预算校验处理器
type BudgetHandler struct {
	validator *service.BudgetValidator
	sequencer *service.Sequencer
}

// NewBudgetHandler 创建预算校验处理器
func NewBudgetHandler(validator *service.BudgetValidator, sequencer *service.Sequencer) *BudgetHandler {
	return &BudgetHandler{validator: validator, sequencer: sequencer}
}

// ValidateResponse 预算校验响应
// 客户端按 seq 递增发起校验，stale=true 表示已有更新的请求，应丢弃本结果
type ValidateResponse struct {
	service.BudgetValidation
	Seq   int64 `json:"seq,omitempty"`
	Stale bool  `json:"stale"`
}

// Validate 校验支出是否超出预算
// @Summary 预算校验
// @Description 按交易日期所在月份校验类别剩余预算，只给出结论不拦截
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param category_id query string true "类别ID"
// @Param amount query number true "金额"
// @Param date query string true "日期 YYYY-MM-DD"
// @Param seq query int false "请求序号"
// @Success 200 {object} Response{data=ValidateResponse} "校验结果"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 503 {object} Response "无法获取预算"
// @Router /api/v1/budgets/validate [get]
func (h *BudgetHandler) Validate(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	categoryID := c.Query("category_id")
	if categoryID == "" {
		BadRequest(c, "缺少 category_id")
		return
	}
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		BadRequest(c, service.ErrInvalidAmount.Error())
		return
	}
	var seq int64
	if v := c.Query("seq"); v != "" {
		if seq, err = strconv.ParseInt(v, 10, 64); err != nil {
			BadRequest(c, "seq 必须为整数")
			return
		}
	}

	key := fmt.Sprintf("%d", userID)
	h.sequencer.Observe(key, seq)

	result, err := h.validator.Validate(c.Request.Context(), userID, categoryID, amount, c.Query("date"))
	if err != nil {
		respondError(c, err, "预算校验失败")
		return
	}

	Success(c, ValidateResponse{
		BudgetValidation: result,
		Seq:              seq,
		Stale:            !h.sequencer.IsLatest(key, seq),
	})
}
