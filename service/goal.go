package service

import (
	"math"
	"time"

	"fintrack/models"

	"github.com/shopspring/decimal"
)

// GoalWithProgress 储蓄目标及进度
type GoalWithProgress struct {
	models.Goal
	ProgressPercentage *float64         `json:"progress_percentage,omitempty"`
	RemainingAmount    *decimal.Decimal `json:"remaining_amount,omitempty"`
	DaysRemaining      *int             `json:"days_remaining,omitempty"`
	IsOverdue          bool             `json:"is_overdue"`
}

// GoalProgress 计算目标进度；没有目标金额或截止日期时对应字段为空
func GoalProgress(goal models.Goal, now time.Time) GoalWithProgress {
	g := GoalWithProgress{Goal: goal}

	if goal.TargetAmount.Valid && goal.TargetAmount.Decimal.IsPositive() {
		target := goal.TargetAmount.Decimal
		pct := goal.CurrentAmount.Div(target).Mul(decimal.NewFromInt(100)).InexactFloat64()
		pct = math.Min(pct, 100)
		remaining := decimal.Max(target.Sub(goal.CurrentAmount), decimal.Zero)
		g.ProgressPercentage = &pct
		g.RemainingAmount = &remaining
	}

	if goal.Deadline != nil {
		if deadline, err := models.ParseDate(*goal.Deadline); err == nil {
			days := int(math.Ceil(deadline.Sub(now).Hours() / 24))
			g.DaysRemaining = &days
			g.IsOverdue = days < 0 && !goal.IsCompleted
		}
	}
	return g
}
