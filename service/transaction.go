package service

import (
	"context"
	"fmt"
	"strings"

	"fintrack/models"

	"github.com/shopspring/decimal"
)

// TransactionStore 交易创建流程需要的存储操作
type TransactionStore interface {
	GetCategory(ctx context.Context, userID uint, id string) (*models.Category, error)
	GetTransaction(ctx context.Context, userID uint, id string) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
}

// TransactionInput 新增或修改交易的参数
type TransactionInput struct {
	Name             string
	Type             models.CategoryType
	Amount           decimal.Decimal
	Date             string
	CategoryID       string
	IncomeCategoryID *string
	Observation      *string
}

// BudgetExceededError 支出超出预算，附带校验结果
type BudgetExceededError struct {
	Validation BudgetValidation
}

func (e *BudgetExceededError) Error() string {
	return e.Validation.ErrorMessage
}

// Unwrap 使 errors.Is(err, ErrBudgetExceeded) 成立
func (e *BudgetExceededError) Unwrap() error {
	return ErrBudgetExceeded
}

// TransactionService 交易的创建与修改
type TransactionService struct {
	store     TransactionStore
	validator *BudgetValidator
}

// NewTransactionService 创建交易服务
func NewTransactionService(store TransactionStore, validator *BudgetValidator) *TransactionService {
	return &TransactionService{store: store, validator: validator}
}

// Create 新增交易。支出会先做预算校验，超出时返回 *BudgetExceededError 且不写入
func (s *TransactionService) Create(ctx context.Context, userID uint, in TransactionInput) (*models.Transaction, error) {
	t, err := s.build(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	if t.Type == models.CategoryTypeExpense {
		validation, err := s.validator.Validate(ctx, userID, t.CategoryID, t.Amount, t.Date)
		if err != nil {
			return nil, err
		}
		if !validation.IsValid {
			return nil, &BudgetExceededError{Validation: validation}
		}
	}

	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("保存交易失败: %w", err)
	}
	return t, nil
}

// Update 修改交易，不做预算拦截
func (s *TransactionService) Update(ctx context.Context, userID uint, id string, in TransactionInput) (*models.Transaction, error) {
	if _, err := s.store.GetTransaction(ctx, userID, id); err != nil {
		return nil, err
	}
	t, err := s.build(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	t.ID = id
	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("更新交易失败: %w", err)
	}
	return t, nil
}

// build 校验参数并组装交易记录
// 资金来源只允许出现在支出上，且必须是当前用户启用中的收入类别
func (s *TransactionService) build(ctx context.Context, userID uint, in TransactionInput) (*models.Transaction, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, in.Type)
	}
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if _, err := models.ParseDate(in.Date); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, in.Date)
	}

	category, err := s.store.GetCategory(ctx, userID, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Type != in.Type {
		return nil, fmt.Errorf("%w: 类别类型与交易类型不一致", ErrNotFound)
	}

	incomeCategoryID := in.IncomeCategoryID
	if incomeCategoryID != nil && strings.TrimSpace(*incomeCategoryID) == "" {
		incomeCategoryID = nil
	}
	if incomeCategoryID != nil {
		if in.Type != models.CategoryTypeExpense {
			return nil, fmt.Errorf("%w: 只有支出可以指定资金来源", ErrInvalidIncomeCategory)
		}
		source, err := s.store.GetCategory(ctx, userID, *incomeCategoryID)
		if err != nil || source.Type != models.CategoryTypeIncome {
			return nil, ErrInvalidIncomeCategory
		}
	}

	return &models.Transaction{
		UserID:           userID,
		Name:             strings.TrimSpace(in.Name),
		Type:             in.Type,
		Amount:           amount,
		Date:             in.Date,
		CategoryID:       in.CategoryID,
		IncomeCategoryID: incomeCategoryID,
		Observation:      in.Observation,
	}, nil
}
