package api

import (
	"context"
	"strings"

	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CategoryStore 类别相关的存储操作
type CategoryStore interface {
	ListCategories(ctx context.Context, userID uint, txType models.CategoryType) ([]models.Category, error)
	GetCategory(ctx context.Context, userID uint, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, userID uint, id string) error
	BudgetsForPeriod(ctx context.Context, userID uint, year, month int) ([]models.CategoryBudget, error)
	FetchBudget(ctx context.Context, userID uint, categoryID string, year, month int) (*models.CategoryBudget, error)
}

// CategoryHandler 类别处理器
type CategoryHandler struct {
	store CategoryStore
}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler(store CategoryStore) *CategoryHandler {
	return &CategoryHandler{store: store}
}

// CategoryRequest 创建/更新类别请求
type CategoryRequest struct {
	Name          string              `json:"name" binding:"required,max=50" example:"餐饮"`
	Type          models.CategoryType `json:"type" example:"expense"` // 更新时忽略
	Icon          string              `json:"icon" example:"utensils"`
	Color         string              `json:"color" example:"#ef4444"`
	MonthlyBudget decimal.NullDecimal `json:"monthly_budget" swaggertype:"number" example:"1500"`
}

func (r *CategoryRequest) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "类别名称不能为空"
	}
	if r.MonthlyBudget.Valid && r.MonthlyBudget.Decimal.IsNegative() {
		return "月预算不能为负数"
	}
	return ""
}

// List 获取类别列表及当期预算
// @Summary 获取类别列表
// @Description 返回启用中的类别，支出类别附带指定月份的预算、已支出和剩余金额
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param type query string false "类型 income/expense"
// @Param year query int false "年份，默认当前年"
// @Param month query int false "月份，默认当前月"
// @Success 200 {object} Response{data=[]service.CategoryWithBudget} "获取成功"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	year, month, ok := periodFromQuery(c)
	if !ok {
		BadRequest(c, service.ErrInvalidPeriod.Error())
		return
	}
	txType := typeFromQuery(c, "")
	if txType != "" && !txType.Valid() {
		BadRequest(c, service.ErrInvalidType.Error())
		return
	}

	ctx := c.Request.Context()
	categories, err := h.store.ListCategories(ctx, userID, txType)
	if err != nil {
		respondError(c, err, "获取类别失败")
		return
	}
	budgets, err := h.store.BudgetsForPeriod(ctx, userID, year, month)
	if err != nil {
		respondError(c, err, "获取预算失败")
		return
	}

	Success(c, service.AttachBudgets(categories, budgets))
}

// Create 创建类别
// @Summary 创建类别
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		BadRequest(c, msg)
		return
	}
	if !req.Type.Valid() {
		BadRequest(c, service.ErrInvalidType.Error())
		return
	}

	category := models.Category{
		UserID:        middleware.GetCurrentUserID(c),
		Name:          strings.TrimSpace(req.Name),
		Type:          req.Type,
		Icon:          req.Icon,
		Color:         req.Color,
		MonthlyBudget: req.MonthlyBudget,
	}
	if err := h.store.CreateCategory(c.Request.Context(), &category); err != nil {
		respondError(c, err, "创建类别失败")
		return
	}

	SuccessWithMessage(c, "创建成功", category)
}

// Update 更新类别
// @Summary 更新类别
// @Description 类型不可修改；修改月预算会同步到当月预算
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "类别ID"
// @Param request body CategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		BadRequest(c, msg)
		return
	}

	ctx := c.Request.Context()
	category, err := h.store.GetCategory(ctx, middleware.GetCurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "获取类别失败")
		return
	}

	category.Name = strings.TrimSpace(req.Name)
	category.Icon = req.Icon
	if req.Color != "" {
		category.Color = req.Color
	}
	category.MonthlyBudget = req.MonthlyBudget
	if category.Type == models.CategoryTypeIncome {
		category.MonthlyBudget = decimal.NullDecimal{}
	}

	if err := h.store.UpdateCategory(ctx, category); err != nil {
		respondError(c, err, "更新类别失败")
		return
	}

	SuccessWithMessage(c, "更新成功", category)
}

// Delete 删除类别
// @Summary 删除类别
// @Description 仅停用类别，历史交易不受影响
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path string true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteCategory(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id")); err != nil {
		respondError(c, err, "删除类别失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Budget 获取单个类别某月的预算使用情况
// @Summary 类别月度预算
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path string true "类别ID"
// @Param year query int false "年份"
// @Param month query int false "月份"
// @Success 200 {object} Response{data=service.CategoryWithBudget} "获取成功"
// @Router /api/v1/categories/{id}/budget [get]
func (h *CategoryHandler) Budget(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	year, month, ok := periodFromQuery(c)
	if !ok || month < 1 || month > 12 {
		BadRequest(c, service.ErrInvalidPeriod.Error())
		return
	}

	ctx := c.Request.Context()
	category, err := h.store.GetCategory(ctx, userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "获取类别失败")
		return
	}
	budget, err := h.store.FetchBudget(ctx, userID, category.ID, year, month)
	if err != nil {
		respondError(c, err, "获取预算失败")
		return
	}

	var budgets []models.CategoryBudget
	if budget != nil {
		budgets = append(budgets, *budget)
	}
	Success(c, service.AttachBudgets([]models.Category{*category}, budgets)[0])
}
