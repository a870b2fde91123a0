package service

import (
	"context"
	"fmt"
	"log"

	"fintrack/models"

	"github.com/shopspring/decimal"
)

// BudgetFetcher 按 (类别, 年, 月) 读取预算快照
// 未配置预算时返回 nil, nil
type BudgetFetcher interface {
	FetchBudget(ctx context.Context, userID uint, categoryID string, year, month int) (*models.CategoryBudget, error)
}

// BudgetValidation 预算校验结果，不持久化
type BudgetValidation struct {
	IsValid         bool             `json:"isValid"`
	BudgetAmount    *decimal.Decimal `json:"budget_amount,omitempty"`
	SpentAmount     *decimal.Decimal `json:"spent_amount,omitempty"`
	RemainingAmount *decimal.Decimal `json:"remaining_amount,omitempty"`
	WouldExceed     bool             `json:"would_exceed"`
	ErrorMessage    string           `json:"error_message,omitempty"`
}

// BudgetValidator 校验一笔支出是否会超出类别当月剩余预算
// 只读取快照并给出结论，是否拦截由调用方决定
type BudgetValidator struct {
	budgets BudgetFetcher
}

// NewBudgetValidator 创建预算校验器
func NewBudgetValidator(budgets BudgetFetcher) *BudgetValidator {
	return &BudgetValidator{budgets: budgets}
}

// Validate 校验支出。预算周期取 date 所在的年月，而不是当前时间
func (v *BudgetValidator) Validate(ctx context.Context, userID uint, categoryID string, amount decimal.Decimal, date string) (BudgetValidation, error) {
	if userID == 0 {
		return BudgetValidation{}, ErrNotAuthenticated
	}
	// 与入库时一致，按分计算
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return BudgetValidation{}, ErrInvalidAmount
	}
	d, err := models.ParseDate(date)
	if err != nil {
		return BudgetValidation{}, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}

	budget, err := v.budgets.FetchBudget(ctx, userID, categoryID, d.Year(), int(d.Month()))
	if err != nil {
		log.Printf("校验预算失败: category=%s period=%d-%02d err=%v", categoryID, d.Year(), d.Month(), err)
		return BudgetValidation{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	// 未配置预算视为不限额
	if budget == nil || !budget.BudgetAmount.Valid || budget.BudgetAmount.Decimal.IsZero() {
		return BudgetValidation{IsValid: true}, nil
	}

	return evaluateBudget(budget.BudgetAmount.Decimal, budget.Spent(), amount), nil
}

// evaluateBudget 严格大于才算超出，恰好用完预算是允许的
func evaluateBudget(budgetAmount, spent, amount decimal.Decimal) BudgetValidation {
	remaining := budgetAmount.Sub(spent)
	wouldExceed := spent.Add(amount).GreaterThan(budgetAmount)

	result := BudgetValidation{
		IsValid:         !wouldExceed,
		BudgetAmount:    &budgetAmount,
		SpentAmount:     &spent,
		RemainingAmount: &remaining,
		WouldExceed:     wouldExceed,
	}
	if wouldExceed {
		result.ErrorMessage = fmt.Sprintf("本次支出 %s 将超出预算：本月已支出 %s，预算为 %s",
			amount.StringFixed(2), spent.StringFixed(2), budgetAmount.StringFixed(2))
	}
	return result
}
