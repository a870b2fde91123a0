package service

import "errors"

var (
	// ErrNotAuthenticated 当前请求没有登录用户，不会访问数据存储
	ErrNotAuthenticated = errors.New("用户未登录")
	// ErrFetch 数据存储查询失败
	ErrFetch = errors.New("无法获取数据")
	// ErrInvalidDate 日期格式错误
	ErrInvalidDate = errors.New("日期格式错误")
	// ErrInvalidPeriod 年月参数不合法
	ErrInvalidPeriod = errors.New("年月参数不合法")
	// ErrInvalidAmount 金额必须大于0
	ErrInvalidAmount = errors.New("金额必须大于0")
	// ErrInvalidType 类型必须为 income 或 expense
	ErrInvalidType = errors.New("类型必须为 income 或 expense")
	// ErrBudgetExceeded 支出超出类别当月预算
	ErrBudgetExceeded = errors.New("超出预算")
	// ErrNotFound 记录不存在或不属于当前用户
	ErrNotFound = errors.New("记录不存在")
	// ErrInvalidIncomeCategory 资金来源必须是当前用户启用中的收入类别
	ErrInvalidIncomeCategory = errors.New("资金来源类别无效")
)
