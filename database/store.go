package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/models"
	"fintrack/service"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 基于 gorm 的数据存储，所有查询都按用户隔离
type Store struct {
	db *gorm.DB
}

// NewStore 创建数据存储
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB 返回底层连接
func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return service.ErrNotFound
	}
	return err
}

// ===== 预算 =====

// FetchBudget 读取 (类别, 年, 月) 的预算快照，没有记录时返回 nil, nil
func (s *Store) FetchBudget(ctx context.Context, userID uint, categoryID string, year, month int) (*models.CategoryBudget, error) {
	var budget models.CategoryBudget
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ? AND year = ? AND month = ?", userID, categoryID, year, month).
		Take(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// BudgetsForPeriod 某月所有类别的预算快照
func (s *Store) BudgetsForPeriod(ctx context.Context, userID uint, year, month int) ([]models.CategoryBudget, error) {
	var budgets []models.CategoryBudget
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		Find(&budgets).Error
	return budgets, err
}

// ensureBudgetRow 确保 (类别, 年, 月) 的快照存在
// 新建时预算取类别当前的月预算，已支出按该月已有的支出记录汇总
func ensureBudgetRow(tx *gorm.DB, userID uint, categoryID string, year, month int) (*models.CategoryBudget, error) {
	var budget models.CategoryBudget
	err := tx.Where("category_id = ? AND year = ? AND month = ?", categoryID, year, month).Take(&budget).Error
	if err == nil {
		return &budget, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var category models.Category
	if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).Take(&category).Error; err != nil {
		return nil, notFound(err)
	}

	from, to := models.MonthRange(year, month)
	spent := decimal.Zero
	if err := tx.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date <= ?",
			userID, categoryID, models.CategoryTypeExpense, from, to).
		Row().Scan(&spent); err != nil {
		return nil, err
	}

	budget = models.CategoryBudget{
		UserID:      userID,
		CategoryID:  categoryID,
		Year:        year,
		Month:       month,
		SpentAmount: decimal.NewNullDecimal(spent),
	}
	if category.HasBudget() {
		budget.BudgetAmount = category.MonthlyBudget
	}
	// 并发的首笔支出可能同时建行，冲突时读取对方已提交的那一行
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&budget)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var existing models.CategoryBudget
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("category_id = ? AND year = ? AND month = ?", categoryID, year, month).
			Take(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	return &budget, nil
}

// adjustSpent 按交易金额增减对应月份的已支出，收入记录不影响预算
func adjustSpent(tx *gorm.DB, t *models.Transaction, reverse bool) error {
	if t.Type != models.CategoryTypeExpense {
		return nil
	}
	d, err := models.ParseDate(t.Date)
	if err != nil {
		return err
	}

	delta := t.Amount
	if reverse {
		delta = delta.Neg()
	}

	return tx.Model(&models.CategoryBudget{}).
		Where("category_id = ? AND year = ? AND month = ?", t.CategoryID, d.Year(), int(d.Month())).
		Update("spent_amount", gorm.Expr("COALESCE(spent_amount, 0) + ?", delta)).Error
}

// ===== 交易 =====

const transactionRowColumns = "t.id, t.name, t.type, t.amount, t.date, t.category_id, " +
	"c.name AS category_name, COALESCE(c.color, '') AS category_color, COALESCE(c.icon, '') AS category_icon"

func (s *Store) transactionRows(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("transactions AS t").
		Select(transactionRowColumns).
		Joins("JOIN categories AS c ON c.id = t.category_id")
}

// FetchTransactions 读取日期区间内某类型的交易并关联类别信息，按日期和创建时间升序
func (s *Store) FetchTransactions(ctx context.Context, userID uint, txType models.CategoryType, from, to string) ([]models.TransactionRow, error) {
	var rows []models.TransactionRow
	err := s.transactionRows(ctx).
		Where("t.user_id = ? AND t.type = ? AND t.date >= ? AND t.date <= ?", userID, txType, from, to).
		Order("t.date ASC, t.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

// FetchDayTransactions 读取某一天的全部交易
func (s *Store) FetchDayTransactions(ctx context.Context, userID uint, date string) ([]models.TransactionRow, error) {
	var rows []models.TransactionRow
	err := s.transactionRows(ctx).
		Where("t.user_id = ? AND t.date = ?", userID, date).
		Order("t.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// GetTransaction 获取单条交易
func (s *Store) GetTransaction(ctx context.Context, userID uint, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// CreateTransaction 新增交易，支出同时累加当月预算快照的已支出
func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.prepareBudget(tx, t); err != nil {
			return err
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		return adjustSpent(tx, t, false)
	})
}

// UpdateTransaction 修改交易，先撤销旧记录对预算的影响再应用新记录
func (s *Store) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", t.ID, t.UserID).Take(&old).Error; err != nil {
			return notFound(err)
		}
		// 旧记录所在月份的快照需先存在，否则撤销会丢失
		if err := s.prepareBudget(tx, &old); err != nil {
			return err
		}
		if err := adjustSpent(tx, &old, true); err != nil {
			return err
		}
		if err := s.prepareBudget(tx, t); err != nil {
			return err
		}
		t.CreatedAt = old.CreatedAt
		if err := tx.Save(t).Error; err != nil {
			return err
		}
		return adjustSpent(tx, t, false)
	})
}

// DeleteTransaction 删除交易并撤销其对预算的影响
func (s *Store) DeleteTransaction(ctx context.Context, userID uint, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", id, userID).Take(&old).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Delete(&old).Error; err != nil {
			return err
		}
		return adjustSpent(tx, &old, true)
	})
}

func (s *Store) prepareBudget(tx *gorm.DB, t *models.Transaction) error {
	if t.Type != models.CategoryTypeExpense {
		return nil
	}
	d, err := models.ParseDate(t.Date)
	if err != nil {
		return err
	}
	_, err = ensureBudgetRow(tx, t.UserID, t.CategoryID, d.Year(), int(d.Month()))
	return err
}

// ===== 类别 =====

// ListCategories 启用中的类别，txType 为空时返回全部类型
func (s *Store) ListCategories(ctx context.Context, userID uint, txType models.CategoryType) ([]models.Category, error) {
	query := s.db.WithContext(ctx).Where("user_id = ? AND is_active = ?", userID, true)
	if txType != "" {
		query = query.Where("type = ?", txType)
	}
	var categories []models.Category
	err := query.Order("name").Find(&categories).Error
	return categories, err
}

// GetCategory 获取启用中的类别
func (s *Store) GetCategory(ctx context.Context, userID uint, id string) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		Take(&category).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// CreateCategory 新增类别，收入类别不保存月预算
func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.Type == models.CategoryTypeIncome {
		c.MonthlyBudget = decimal.NullDecimal{}
	}
	if c.Color == "" {
		c.Color = models.DefaultCategoryColor
	}
	c.IsActive = true
	return s.db.WithContext(ctx).Create(c).Error
}

// UpdateCategory 修改类别，同步刷新当月预算快照的预算金额
func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Category{}).
			Where("id = ? AND user_id = ? AND is_active = ?", c.ID, c.UserID, true).
			Updates(map[string]interface{}{
				"name":           c.Name,
				"icon":           c.Icon,
				"color":          c.Color,
				"monthly_budget": c.MonthlyBudget,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return service.ErrNotFound
		}

		now := time.Now()
		budget := decimal.NullDecimal{}
		if c.Type == models.CategoryTypeExpense {
			budget = c.MonthlyBudget
		}
		return tx.Model(&models.CategoryBudget{}).
			Where("category_id = ? AND year = ? AND month = ?", c.ID, now.Year(), int(now.Month())).
			Update("budget_amount", budget).Error
	})
}

// DeleteCategory 停用类别，历史交易仍可引用
func (s *Store) DeleteCategory(ctx context.Context, userID uint, id string) error {
	result := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}

// 新用户的默认类别
var defaultCategories = []struct {
	Name  string
	Type  models.CategoryType
	Icon  string
	Color string
}{
	{"餐饮", models.CategoryTypeExpense, "utensils", "#ef4444"},
	{"交通", models.CategoryTypeExpense, "bus", "#3b82f6"},
	{"购物", models.CategoryTypeExpense, "shopping-bag", "#a855f7"},
	{"娱乐", models.CategoryTypeExpense, "film", "#ec4899"},
	{"医疗", models.CategoryTypeExpense, "heart-pulse", "#10b981"},
	{"住房", models.CategoryTypeExpense, "home", "#14b8a6"},
	{"工资", models.CategoryTypeIncome, "wallet", "#10b981"},
	{"奖金", models.CategoryTypeIncome, "gift", "#3b82f6"},
	{"理财", models.CategoryTypeIncome, "trending-up", "#a855f7"},
}

// SeedDefaultCategories 为新用户创建默认类别（仅当该用户还没有类别时）
func (s *Store) SeedDefaultCategories(ctx context.Context, userID uint) error {
	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := make([]models.Category, 0, len(defaultCategories))
	for _, item := range defaultCategories {
		categories = append(categories, models.Category{
			UserID:   userID,
			Name:     item.Name,
			Type:     item.Type,
			Icon:     item.Icon,
			Color:    item.Color,
			IsActive: true,
		})
	}
	if err := db.Create(&categories).Error; err != nil {
		return fmt.Errorf("创建默认类别失败: %w", err)
	}
	return nil
}

// ===== 储蓄目标 =====

// ListGoals 未完成的排在前面，同组内按创建时间倒序
func (s *Store) ListGoals(ctx context.Context, userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_completed ASC, created_at DESC").
		Find(&goals).Error
	return goals, err
}

// GetGoal 获取单个目标
func (s *Store) GetGoal(ctx context.Context, userID uint, id string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&goal).Error; err != nil {
		return nil, notFound(err)
	}
	return &goal, nil
}

// CreateGoal 新增目标
func (s *Store) CreateGoal(ctx context.Context, g *models.Goal) error {
	return s.db.WithContext(ctx).Create(g).Error
}

// UpdateGoal 修改目标
func (s *Store) UpdateGoal(ctx context.Context, g *models.Goal) error {
	result := s.db.WithContext(ctx).Model(&models.Goal{}).
		Where("id = ? AND user_id = ?", g.ID, g.UserID).
		Updates(map[string]interface{}{
			"name":           g.Name,
			"target_amount":  g.TargetAmount,
			"current_amount": g.CurrentAmount,
			"color":          g.Color,
			"icon":           g.Icon,
			"deadline":       g.Deadline,
			"is_completed":   g.IsCompleted,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}

// AddGoalBalance 原子地增加目标当前金额，amount 可以为负
func (s *Store) AddGoalBalance(ctx context.Context, userID uint, id string, amount decimal.Decimal) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Goal{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("current_amount", gorm.Expr("current_amount + ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return service.ErrNotFound
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Take(&goal).Error
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// DeleteGoal 删除目标
func (s *Store) DeleteGoal(ctx context.Context, userID uint, id string) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Goal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}
