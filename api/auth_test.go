package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"fintrack/config"
	"fintrack/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock, func() {
		sqlDB.Close()
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	return cfg
}

type fakeMailer struct {
	to, code string
	err      error
}

func (m *fakeMailer) SendRecoveryCode(toEmail, username, code string) error {
	m.to, m.code = toEmail, code
	return m.err
}

type fakeSeeder struct {
	userID uint
}

func (s *fakeSeeder) SeedDefaultCategories(ctx context.Context, userID uint) error {
	s.userID = userID
	return nil
}

var userColumns = []string{"id", "username", "password", "email", "created_at", "updated_at", "deleted_at"}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	// 检查用户名不存在：SELECT 返回无记录
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("newuser").
		WillReturnRows(sqlmock.NewRows([]string{}))

	// GORM Create 使用事务
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	seeder := &fakeSeeder{}
	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg, db, &fakeMailer{}, seeder).Register)

	w := postJSON(router, "/register", `{"username":"newuser","password":"password123","email":"test@example.com"}`)

	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, float64(200), resp["code"])
	assert.Equal(t, "注册成功", resp["message"])
	assert.Equal(t, uint(7), seeder.userID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_UsernameExists(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("existinguser").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "existinguser", "hash", "e@x.com", time.Now(), time.Now(), nil))

	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg, db, &fakeMailer{}, nil).Register)

	w := postJSON(router, "/register", `{"username":"existinguser","password":"password123"}`)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "用户名已存在", decodeResponse(t, w)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	// SELECT 用户（username OR email）
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("loginuser", "loginuser").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "loginuser", string(hashed), "login@x.com", time.Now(), time.Now(), nil))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `refresh_tokens`").
		WithArgs(uint(1), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg, db, &fakeMailer{}, nil).Login)

	w := postJSON(router, "/login", `{"username":"loginuser","password":"password123"}`)

	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	token := data["token"].(string)
	require.NotEmpty(t, token)
	assert.Len(t, data["refresh_token"], 64)

	claims, err := middleware.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "loginuser", string(hashed), "login@x.com", time.Now(), time.Now(), nil))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg, db, &fakeMailer{}, nil).Login)

	w := postJSON(router, "/login", `{"username":"loginuser","password":"wrong"}`)
	assert.Equal(t, 401, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_UserNotFound(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("nouser", "nouser").
		WillReturnRows(sqlmock.NewRows([]string{}))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg, db, &fakeMailer{}, nil).Login)

	w := postJSON(router, "/login", `{"username":"nouser","password":"any"}`)
	assert.Equal(t, 401, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_RequestRecovery_UnknownEmail(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{}))

	mailer := &fakeMailer{}
	router := gin.New()
	router.POST("/reset", NewAuthHandler(cfg, db, mailer, nil).RequestRecovery)

	w := postJSON(router, "/reset", `{"email":"nobody@example.com"}`)
	assert.Equal(t, 200, w.Code)
	assert.Empty(t, mailer.code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_RequestRecovery_SendsCode(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "alice", "hash", "alice@example.com", time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT .* FROM `password_resets`").
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `password_resets`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	mailer := &fakeMailer{}
	router := gin.New()
	router.POST("/reset", NewAuthHandler(cfg, db, mailer, nil).RequestRecovery)

	w := postJSON(router, "/reset", `{"email":"alice@example.com"}`)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "alice@example.com", mailer.to)
	assert.Len(t, mailer.code, 6)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_RequestRecovery_MailFailure(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "alice", "hash", "alice@example.com", time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT .* FROM `password_resets`").
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `password_resets`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	// 发送失败后软删除验证码
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `password_resets` SET `deleted_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/reset", NewAuthHandler(cfg, db, &fakeMailer{err: errors.New("smtp down")}, nil).RequestRecovery)

	w := postJSON(router, "/reset", `{"email":"alice@example.com"}`)
	assert.Equal(t, 500, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func captureLog(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestAuthHandler_RequestRecovery_StaleCodeInvalidateFails(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()
	logs := captureLog(t)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "alice", "hash", "alice@example.com", time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT .* FROM `password_resets`").
		WillReturnRows(sqlmock.NewRows(resetColumns).
			AddRow(7, 3, "111111", "alice@example.com", time.Now().Add(8*time.Minute), false, time.Now().Add(-2*time.Minute), nil))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `password_resets` SET `used`").
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `password_resets`").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	mailer := &fakeMailer{}
	router := gin.New()
	router.POST("/reset", NewAuthHandler(cfg, db, mailer, nil).RequestRecovery)

	w := postJSON(router, "/reset", `{"email":"alice@example.com"}`)
	assert.Equal(t, 200, w.Code)
	assert.Len(t, mailer.code, 6)
	assert.Contains(t, logs.String(), "作废旧验证码失败")
	assert.Contains(t, logs.String(), "lock wait timeout")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_RequestRecovery_MailFailureCleanupFails(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()
	logs := captureLog(t)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "alice", "hash", "alice@example.com", time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT .* FROM `password_resets`").
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `password_resets`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `password_resets` SET `deleted_at`").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	router := gin.New()
	router.POST("/reset", NewAuthHandler(cfg, db, &fakeMailer{err: errors.New("smtp down")}, nil).RequestRecovery)

	w := postJSON(router, "/reset", `{"email":"alice@example.com"}`)
	assert.Equal(t, 500, w.Code)
	assert.Contains(t, logs.String(), "删除未发出的验证码失败")
	assert.Contains(t, logs.String(), "connection reset")
	assert.Contains(t, logs.String(), "smtp down")
	require.NoError(t, mock.ExpectationsWereMet())
}

var resetColumns = []string{"id", "user_id", "code", "email", "expires_at", "used", "created_at", "deleted_at"}

func TestAuthHandler_ResetPassword(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `password_resets`").
		WithArgs("alice@example.com", "123456").
		WillReturnRows(sqlmock.NewRows(resetColumns).
			AddRow(1, 3, "123456", "alice@example.com", time.Now().Add(5*time.Minute), false, time.Now(), nil))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET `password`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `password_resets` SET `used`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `refresh_tokens` WHERE user_id = \\?").
		WithArgs(uint(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/reset", NewAuthHandler(cfg, db, &fakeMailer{}, nil).ResetPassword)

	w := postJSON(router, "/reset", `{"email":"alice@example.com","code":"123456","new_password":"newpass123"}`)
	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_ResetPassword_Expired(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `password_resets`").
		WillReturnRows(sqlmock.NewRows(resetColumns).
			AddRow(1, 3, "123456", "alice@example.com", time.Now().Add(-time.Minute), false, time.Now(), nil))

	router := gin.New()
	router.POST("/reset", NewAuthHandler(cfg, db, &fakeMailer{}, nil).ResetPassword)

	w := postJSON(router, "/reset", `{"email":"alice@example.com","code":"123456","new_password":"newpass123"}`)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "验证码已过期，请重新获取", decodeResponse(t, w)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

var refreshColumns = []string{"id", "user_id", "token", "expires_at", "created_at"}

func authRouter(h *AuthHandler, userID uint) *gin.Engine {
	router := gin.New()
	router.POST("/refresh", h.Refresh)
	router.POST("/password/verify", h.VerifyRecoveryCode)

	authorized := router.Group("", setUserIDMiddleware(userID))
	authorized.POST("/logout", h.Logout)
	authorized.PUT("/profile", h.UpdateProfile)
	authorized.DELETE("/account", h.DeleteAccount)
	return router
}

func TestAuthHandler_Refresh(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `refresh_tokens` WHERE token = \\?").
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows(refreshColumns).
			AddRow(5, 3, "abc123", time.Now().Add(24*time.Hour), time.Now()))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "alice", "hash", "alice@example.com", time.Now(), time.Now(), nil))

	w := postJSON(authRouter(NewAuthHandler(cfg, db, nil, nil), 0), "/refresh", `{"refresh_token":"abc123"}`)
	require.Equal(t, 200, w.Code)

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "abc123", data["refresh_token"])
	claims, err := middleware.ParseToken(data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Refresh_Expired(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `refresh_tokens`").
		WillReturnRows(sqlmock.NewRows(refreshColumns).
			AddRow(5, 3, "abc123", time.Now().Add(-time.Hour), time.Now().Add(-8*24*time.Hour)))
	// 过期令牌顺带删除
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `refresh_tokens`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := postJSON(authRouter(NewAuthHandler(cfg, db, nil, nil), 0), "/refresh", `{"refresh_token":"abc123"}`)
	assert.Equal(t, 401, w.Code)
	assert.Equal(t, "刷新令牌已过期，请重新登录", decodeResponse(t, w)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Refresh_Unknown(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `refresh_tokens`").
		WillReturnRows(sqlmock.NewRows(refreshColumns))

	router := authRouter(NewAuthHandler(cfg, db, nil, nil), 0)
	w := postJSON(router, "/refresh", `{"refresh_token":"nope"}`)
	assert.Equal(t, 401, w.Code)

	w = postJSON(router, "/refresh", `{}`)
	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Logout(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	// 指定刷新令牌
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `refresh_tokens` WHERE user_id = \\? AND token = \\?").
		WithArgs(uint(3), "abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	// 未指定时注销全部会话
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `refresh_tokens` WHERE user_id = \\?$").
		WithArgs(uint(3)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	router := authRouter(NewAuthHandler(cfg, db, nil, nil), 3)

	w := postJSON(router, "/logout", `{"refresh_token":"abc123"}`)
	assert.Equal(t, 200, w.Code)

	w = doRequest(router, "POST", "/logout", "")
	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "alice", "hash", "alice@example.com", time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE \\(username = \\? AND id <> \\?\\)").
		WithArgs("alice2", uint(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := authRouter(NewAuthHandler(cfg, db, nil, nil), 3)
	w := doRequest(router, "PUT", "/profile", `{"username":"alice2","email":"a2@example.com"}`)
	require.Equal(t, 200, w.Code)

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "alice2", data["username"])
	assert.Equal(t, "a2@example.com", data["email"])
	assert.NotContains(t, w.Body.String(), "hash")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_UpdateProfile_UsernameTaken(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "alice", "hash", "alice@example.com", time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	router := authRouter(NewAuthHandler(cfg, db, nil, nil), 3)
	w := doRequest(router, "PUT", "/profile", `{"username":"bob"}`)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "用户名已存在", decodeResponse(t, w)["message"])

	w = doRequest(router, "PUT", "/profile", `{"email":"not-an-email"}`)
	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_DeleteAccount(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "alice", string(hashed), "alice@example.com", time.Now(), time.Now(), nil))
	mock.ExpectBegin()
	for _, table := range []string{"transactions", "category_budgets", "goals", "categories", "password_resets", "refresh_tokens"} {
		mock.ExpectExec("DELETE FROM `" + table + "` WHERE user_id = \\?").
			WithArgs(uint(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec("DELETE FROM `users` WHERE `users`.`id` = \\?").
		WithArgs(uint(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := authRouter(NewAuthHandler(cfg, db, nil, nil), 3)
	w := doRequest(router, "DELETE", "/account", `{"password":"password123"}`)
	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_DeleteAccount_WrongPassword(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "alice", string(hashed), "alice@example.com", time.Now(), time.Now(), nil))

	router := authRouter(NewAuthHandler(cfg, db, nil, nil), 3)
	w := doRequest(router, "DELETE", "/account", `{"password":"guess"}`)
	assert.Equal(t, 401, w.Code)
	// 未开启事务，数据原样保留
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_DeleteAccount_RollsBack(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "alice", string(hashed), "alice@example.com", time.Now(), time.Now(), nil))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `transactions`").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM `category_budgets`").
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	router := authRouter(NewAuthHandler(cfg, db, nil, nil), 3)
	w := doRequest(router, "DELETE", "/account", `{"password":"password123"}`)
	assert.Equal(t, 500, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_VerifyRecoveryCode(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := testConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `password_resets` WHERE \\(email = \\? AND code = \\? AND used = \\? AND expires_at > \\?\\)").
		WithArgs("alice@example.com", "123456", false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(resetColumns).
			AddRow(1, 3, "123456", "alice@example.com", time.Now().Add(5*time.Minute), false, time.Now(), nil))
	mock.ExpectQuery("SELECT .* FROM `password_resets`").
		WillReturnRows(sqlmock.NewRows(resetColumns))

	router := authRouter(NewAuthHandler(cfg, db, nil, nil), 0)

	w := postJSON(router, "/password/verify", `{"email":"alice@example.com","code":"123456"}`)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, true, decodeResponse(t, w)["data"].(map[string]interface{})["valid"])

	w = postJSON(router, "/password/verify", `{"email":"alice@example.com","code":"654321"}`)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "验证码无效或已过期", decodeResponse(t, w)["message"])

	w = postJSON(router, "/password/verify", `{"email":"alice@example.com","code":"12"}`)
	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
