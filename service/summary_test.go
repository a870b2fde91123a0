package service

import (
	"testing"

	"fintrack/models"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeDay(t *testing.T) {
	income := row("1", "2024-03-01", "1000", "salary", "工资")
	income.Type = models.CategoryTypeIncome
	rows := []models.TransactionRow{
		income,
		row("2", "2024-03-01", "30.5", "food", "餐饮"),
		row("3", "2024-03-01", "19.5", "bus", "交通"),
	}

	s := SummarizeDay("2024-03-01", rows)
	assert.Equal(t, "2024-03-01", s.Date)
	assert.True(t, s.TotalIncome.Equal(dec("1000")))
	assert.True(t, s.TotalExpense.Equal(dec("50")))
	assert.True(t, s.Balance.Equal(dec("950")))
	assert.Equal(t, 3, s.TransactionsCount)
}

func TestSummarizeDay_Empty(t *testing.T) {
	s := SummarizeDay("2024-03-02", nil)
	assert.True(t, s.Balance.IsZero())
	assert.Equal(t, 0, s.TransactionsCount)
}
