package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"fintrack/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// TransactionFetcher 按用户、类型和日期区间读取已关联类别的交易
// 结果按日期升序，同一天内按创建先后
type TransactionFetcher interface {
	FetchTransactions(ctx context.Context, userID uint, txType models.CategoryType, from, to string) ([]models.TransactionRow, error)
}

// DailyFlow 某一天的金额及月初至当天的累计
type DailyFlow struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Accumulated decimal.Decimal `json:"accumulated"`
}

// CategoryOverview 类别汇总
type CategoryOverview struct {
	CategoryID       string          `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	CategoryColor    string          `json:"category_color"`
	CategoryIcon     string          `json:"category_icon"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Percentage       float64         `json:"percentage"`
	TransactionCount int             `json:"transaction_count"`
}

// DayGroup 按天分组的交易
type DayGroup struct {
	Date         string                  `json:"date"`
	DayName      string                  `json:"day_name"`
	Total        decimal.Decimal         `json:"total"`
	Transactions []models.TransactionRow `json:"transactions"`
}

// MonthlyAnalytics 月度统计
type MonthlyAnalytics struct {
	Year             int                 `json:"year"`
	Month            int                 `json:"month"`
	Type             models.CategoryType `json:"type"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	DailyFlow        []DailyFlow         `json:"daily_flow"`
	CategoryOverview []CategoryOverview  `json:"category_overview"`
}

// MonthView 统计页一次性所需的数据
type MonthView struct {
	Analytics *MonthlyAnalytics `json:"analytics"`
	ByDay     []DayGroup        `json:"by_day"`
}

// DaysInMonth 返回某月天数（下月1日的前一天），已考虑闰年
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DailyFlowSeries 生成整月逐日流水，没有交易的日期金额为 0
// rows 需已按 (年, 月, 类型) 过滤
func DailyFlowSeries(rows []models.TransactionRow, year, month int) []DailyFlow {
	byDate := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		byDate[r.Date] = byDate[r.Date].Add(r.Amount)
	}

	lastDay := DaysInMonth(year, month)
	series := make([]DailyFlow, 0, lastDay)
	accumulated := decimal.Zero
	for day := 1; day <= lastDay; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		amount := byDate[date]
		accumulated = accumulated.Add(amount)
		series = append(series, DailyFlow{
			Date:        date,
			Amount:      amount,
			Accumulated: accumulated,
		})
	}
	return series
}

// CategoryBreakdown 按类别汇总，按金额降序；金额相同时保持首次出现的顺序
func CategoryBreakdown(rows []models.TransactionRow) []CategoryOverview {
	index := make(map[string]int)
	overview := make([]CategoryOverview, 0)
	grandTotal := decimal.Zero

	for _, r := range rows {
		grandTotal = grandTotal.Add(r.Amount)
		if i, ok := index[r.CategoryID]; ok {
			overview[i].TotalAmount = overview[i].TotalAmount.Add(r.Amount)
			overview[i].TransactionCount++
			continue
		}
		index[r.CategoryID] = len(overview)
		overview = append(overview, CategoryOverview{
			CategoryID:       r.CategoryID,
			CategoryName:     r.CategoryName,
			CategoryColor:    r.CategoryColor,
			CategoryIcon:     r.CategoryIcon,
			TotalAmount:      r.Amount,
			TransactionCount: 1,
		})
	}

	hundred := decimal.NewFromInt(100)
	for i := range overview {
		if grandTotal.IsPositive() {
			overview[i].Percentage = overview[i].TotalAmount.Div(grandTotal).Mul(hundred).InexactFloat64()
		}
	}

	sort.SliceStable(overview, func(i, j int) bool {
		return overview[i].TotalAmount.GreaterThan(overview[j].TotalAmount)
	})
	return overview
}

// GroupByDay 只包含有交易的日期，按日期倒序
func GroupByDay(rows []models.TransactionRow, locale language.Tag) []DayGroup {
	index := make(map[string]int)
	groups := make([]DayGroup, 0)

	for _, r := range rows {
		i, ok := index[r.Date]
		if !ok {
			i = len(groups)
			index[r.Date] = i
			groups = append(groups, DayGroup{Date: r.Date, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(r.Amount)
		groups[i].Transactions = append(groups[i].Transactions, r)
	}

	for i := range groups {
		if d, err := models.ParseDate(groups[i].Date); err == nil {
			groups[i].DayName = WeekdayName(d.Weekday(), locale)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date > groups[j].Date
	})
	return groups
}

// AnalyticsService 月度统计
type AnalyticsService struct {
	transactions TransactionFetcher
}

// NewAnalyticsService 创建统计服务
func NewAnalyticsService(transactions TransactionFetcher) *AnalyticsService {
	return &AnalyticsService{transactions: transactions}
}

func (s *AnalyticsService) fetchMonth(ctx context.Context, userID uint, year, month int, txType models.CategoryType) ([]models.TransactionRow, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	if month < 1 || month > 12 || year < 1 {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidPeriod, year, month)
	}
	if !txType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, txType)
	}

	from, to := models.MonthRange(year, month)
	rows, err := s.transactions.FetchTransactions(ctx, userID, txType, from, to)
	if err != nil {
		log.Printf("查询月度交易失败: user=%d period=%d-%02d type=%s err=%v", userID, year, month, txType, err)
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return rows, nil
}

// MonthlyAnalytics 逐日流水和类别汇总
func (s *AnalyticsService) MonthlyAnalytics(ctx context.Context, userID uint, year, month int, txType models.CategoryType) (*MonthlyAnalytics, error) {
	rows, err := s.fetchMonth(ctx, userID, year, month, txType)
	if err != nil {
		return nil, err
	}
	return buildMonthlyAnalytics(rows, year, month, txType), nil
}

// TransactionsByDay 按天分组的交易列表
func (s *AnalyticsService) TransactionsByDay(ctx context.Context, userID uint, year, month int, txType models.CategoryType, locale language.Tag) ([]DayGroup, error) {
	rows, err := s.fetchMonth(ctx, userID, year, month, txType)
	if err != nil {
		return nil, err
	}
	return GroupByDay(newestFirst(rows), locale), nil
}

// newestFirst 将升序结果倒过来，使同一天内最新的交易排在前面
func newestFirst(rows []models.TransactionRow) []models.TransactionRow {
	reversed := make([]models.TransactionRow, len(rows))
	for i, r := range rows {
		reversed[len(rows)-1-i] = r
	}
	return reversed
}

// MonthView 并发执行两次独立查询，任一失败则取消另一个
func (s *AnalyticsService) MonthView(ctx context.Context, userID uint, year, month int, txType models.CategoryType, locale language.Tag) (*MonthView, error) {
	var view MonthView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.MonthlyAnalytics(gctx, userID, year, month, txType)
		view.Analytics = a
		return err
	})
	g.Go(func() error {
		days, err := s.TransactionsByDay(gctx, userID, year, month, txType, locale)
		view.ByDay = days
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &view, nil
}

func buildMonthlyAnalytics(rows []models.TransactionRow, year, month int, txType models.CategoryType) *MonthlyAnalytics {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return &MonthlyAnalytics{
		Year:             year,
		Month:            month,
		Type:             txType,
		TotalAmount:      total,
		DailyFlow:        DailyFlowSeries(rows, year, month),
		CategoryOverview: CategoryBreakdown(rows),
	}
}
