package service

import (
	"fintrack/models"

	"github.com/shopspring/decimal"
)

// CategoryWithBudget 类别及其当期预算使用情况
type CategoryWithBudget struct {
	models.Category
	CurrentBudget    *models.CategoryBudget `json:"current_budget,omitempty"`
	SpentAmount      *decimal.Decimal       `json:"spent_amount,omitempty"`
	RemainingAmount  *decimal.Decimal       `json:"remaining_amount,omitempty"`
	BudgetPercentage *float64               `json:"budget_percentage,omitempty"`
}

// AttachBudgets 将同一周期的预算快照挂到对应类别上
func AttachBudgets(categories []models.Category, budgets []models.CategoryBudget) []CategoryWithBudget {
	byCategory := make(map[string]*models.CategoryBudget, len(budgets))
	for i := range budgets {
		byCategory[budgets[i].CategoryID] = &budgets[i]
	}

	result := make([]CategoryWithBudget, 0, len(categories))
	for _, c := range categories {
		item := CategoryWithBudget{Category: c}
		if b, ok := byCategory[c.ID]; ok {
			spent := b.Spent()
			item.CurrentBudget = b
			item.SpentAmount = &spent
			if b.BudgetAmount.Valid {
				remaining := b.BudgetAmount.Decimal.Sub(spent)
				item.RemainingAmount = &remaining
				if b.BudgetAmount.Decimal.IsPositive() {
					pct := spent.Div(b.BudgetAmount.Decimal).Mul(decimal.NewFromInt(100)).InexactFloat64()
					item.BudgetPercentage = &pct
				}
			}
		}
		result = append(result, item)
	}
	return result
}
