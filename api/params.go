package api

import (
	"strconv"
	"time"

	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// periodFromQuery 读取 year/month 查询参数，缺省为当前年月
func periodFromQuery(c *gin.Context) (int, int, bool) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		month = m
	}
	return year, month, true
}

// typeFromQuery 读取 type 查询参数，缺省为 fallback
func typeFromQuery(c *gin.Context, fallback models.CategoryType) models.CategoryType {
	if v := c.Query("type"); v != "" {
		return models.CategoryType(v)
	}
	return fallback
}
