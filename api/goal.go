package api

import (
	"context"
	"strings"
	"time"

	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GoalStore 储蓄目标的存储操作
type GoalStore interface {
	ListGoals(ctx context.Context, userID uint) ([]models.Goal, error)
	GetGoal(ctx context.Context, userID uint, id string) (*models.Goal, error)
	CreateGoal(ctx context.Context, g *models.Goal) error
	UpdateGoal(ctx context.Context, g *models.Goal) error
	AddGoalBalance(ctx context.Context, userID uint, id string, amount decimal.Decimal) (*models.Goal, error)
	DeleteGoal(ctx context.Context, userID uint, id string) error
}

// GoalHandler 储蓄目标处理器
type GoalHandler struct {
	store GoalStore
	now   func() time.Time
}

// NewGoalHandler 创建储蓄目标处理器
func NewGoalHandler(store GoalStore) *GoalHandler {
	return &GoalHandler{store: store, now: time.Now}
}

// GoalRequest 创建/更新目标请求
type GoalRequest struct {
	Name          string              `json:"name" binding:"required,max=100" example:"旅行基金"`
	TargetAmount  decimal.NullDecimal `json:"target_amount" swaggertype:"number" example:"5000"`
	CurrentAmount decimal.Decimal     `json:"current_amount" swaggertype:"number" example:"0"`
	Color         string              `json:"color" example:"#3b82f6"`
	Icon          string              `json:"icon" example:"plane"`
	Deadline      *string             `json:"deadline,omitempty" example:"2024-12-31"`
	IsCompleted   bool                `json:"is_completed"`
}

func (r *GoalRequest) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "目标名称不能为空"
	}
	if r.TargetAmount.Valid && r.TargetAmount.Decimal.IsNegative() {
		return "目标金额不能为负数"
	}
	if r.CurrentAmount.IsNegative() {
		return "当前金额不能为负数"
	}
	if r.Deadline != nil && *r.Deadline != "" {
		if _, err := models.ParseDate(*r.Deadline); err != nil {
			return service.ErrInvalidDate.Error()
		}
	}
	return ""
}

func (r *GoalRequest) apply(g *models.Goal) {
	g.Name = strings.TrimSpace(r.Name)
	g.TargetAmount = r.TargetAmount
	g.CurrentAmount = r.CurrentAmount
	g.Color = r.Color
	g.Icon = r.Icon
	g.Deadline = r.Deadline
	if g.Deadline != nil && *g.Deadline == "" {
		g.Deadline = nil
	}
	g.IsCompleted = r.IsCompleted
}

// BalanceRequest 调整目标金额请求，amount 为负表示取出
type BalanceRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"number" example:"200"`
}

// List 获取储蓄目标列表
// @Summary 获取储蓄目标
// @Description 未完成的排在前面，附带进度、剩余金额和剩余天数
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]service.GoalWithProgress} "获取成功"
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.store.ListGoals(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondError(c, err, "获取目标失败")
		return
	}

	now := h.now()
	result := make([]service.GoalWithProgress, 0, len(goals))
	for _, g := range goals {
		result = append(result, service.GoalProgress(g, now))
	}
	Success(c, result)
}

// Get 获取目标详情
// @Summary 获取目标详情
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Param id path string true "目标ID"
// @Success 200 {object} Response{data=service.GoalWithProgress} "获取成功"
// @Router /api/v1/goals/{id} [get]
func (h *GoalHandler) Get(c *gin.Context) {
	goal, err := h.store.GetGoal(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "获取目标失败")
		return
	}
	Success(c, service.GoalProgress(*goal, h.now()))
}

// Create 创建目标
// @Summary 创建储蓄目标
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GoalRequest true "目标信息"
// @Success 200 {object} Response{data=service.GoalWithProgress} "创建成功"
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		BadRequest(c, msg)
		return
	}

	goal := models.Goal{UserID: middleware.GetCurrentUserID(c)}
	req.apply(&goal)
	if err := h.store.CreateGoal(c.Request.Context(), &goal); err != nil {
		respondError(c, err, "创建目标失败")
		return
	}
	SuccessWithMessage(c, "创建成功", service.GoalProgress(goal, h.now()))
}

// Update 更新目标
// @Summary 更新储蓄目标
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "目标ID"
// @Param request body GoalRequest true "目标信息"
// @Success 200 {object} Response{data=service.GoalWithProgress} "更新成功"
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		BadRequest(c, msg)
		return
	}

	ctx := c.Request.Context()
	goal, err := h.store.GetGoal(ctx, middleware.GetCurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "获取目标失败")
		return
	}
	req.apply(goal)
	if err := h.store.UpdateGoal(ctx, goal); err != nil {
		respondError(c, err, "更新目标失败")
		return
	}
	SuccessWithMessage(c, "更新成功", service.GoalProgress(*goal, h.now()))
}

// AddBalance 存入或取出金额
// @Summary 调整目标金额
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "目标ID"
// @Param request body BalanceRequest true "金额"
// @Success 200 {object} Response{data=service.GoalWithProgress} "调整成功"
// @Router /api/v1/goals/{id}/balance [post]
func (h *GoalHandler) AddBalance(c *gin.Context) {
	var req BalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if req.Amount.IsZero() {
		BadRequest(c, "金额不能为0")
		return
	}

	goal, err := h.store.AddGoalBalance(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"), req.Amount.Round(2))
	if err != nil {
		respondError(c, err, "调整金额失败")
		return
	}
	SuccessWithMessage(c, "调整成功", service.GoalProgress(*goal, h.now()))
}

// Delete 删除目标
// @Summary 删除储蓄目标
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Param id path string true "目标ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteGoal(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id")); err != nil {
		respondError(c, err, "删除目标失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
