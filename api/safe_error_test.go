package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/config"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"未登录", service.ErrNotAuthenticated, http.StatusUnauthorized},
		{"不存在", fmt.Errorf("查询类别: %w", service.ErrNotFound), http.StatusNotFound},
		{"日期错误", fmt.Errorf("%w: 2024/01/01", service.ErrInvalidDate), http.StatusBadRequest},
		{"查询失败", fmt.Errorf("%w: timeout", service.ErrFetch), http.StatusServiceUnavailable},
		{"未知错误", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tt.err, "操作失败")
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestRespondError_ReleaseHidesDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "release"}}
	defer func() { config.GlobalConfig = nil }()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"), "操作失败")

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "操作失败", resp.Message)
}
