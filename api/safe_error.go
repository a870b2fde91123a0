package api

import (
	"errors"

	"fintrack/config"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// respondError 将服务层错误映射为响应码，未识别的错误按 500 处理
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		Unauthorized(c, service.ErrNotAuthenticated.Error())
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidType),
		errors.Is(err, service.ErrInvalidIncomeCategory),
		errors.Is(err, service.ErrBudgetExceeded):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrFetch):
		ServiceUnavailable(c, SafeErrorMessage(err, fallback))
	default:
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
