package service

import (
	"fintrack/models"

	"github.com/shopspring/decimal"
)

// DaySummary 单日收支汇总
type DaySummary struct {
	Date              string          `json:"date"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpense      decimal.Decimal `json:"total_expense"`
	Balance           decimal.Decimal `json:"balance"`
	TransactionsCount int             `json:"transactions_count"`
}

// SummarizeDay 汇总当天的收入、支出和结余
func SummarizeDay(date string, rows []models.TransactionRow) DaySummary {
	income, expense := decimal.Zero, decimal.Zero
	for _, r := range rows {
		switch r.Type {
		case models.CategoryTypeIncome:
			income = income.Add(r.Amount)
		case models.CategoryTypeExpense:
			expense = expense.Add(r.Amount)
		}
	}
	return DaySummary{
		Date:              date,
		TotalIncome:       income,
		TotalExpense:      expense,
		Balance:           income.Sub(expense),
		TransactionsCount: len(rows),
	}
}
