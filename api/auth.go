package api

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"fintrack/config"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RecoveryMailer 发送密码找回验证码
type RecoveryMailer interface {
	SendRecoveryCode(toEmail, username, code string) error
}

// CategorySeeder 为新用户初始化默认类别
type CategorySeeder interface {
	SeedDefaultCategories(ctx context.Context, userID uint) error
}

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg    *config.Config
	db     *gorm.DB
	mailer RecoveryMailer
	seeder CategorySeeder
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, db *gorm.DB, mailer RecoveryMailer, seeder CategorySeeder) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		db:     db,
		mailer: mailer,
		seeder: seeder,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"testuser"`
	Password string `json:"password" binding:"required,min=6,max=50" example:"password123"`
	Email    string `json:"email" binding:"omitempty,email" example:"test@example.com"`
}

// LoginRequest 登录请求（支持用户名或邮箱）
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"testuser"` // 可为用户名或邮箱
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	UserInfo     models.User `json:"user_info"`
}

// 未配置时刷新令牌有效期
const defaultRefreshTTL = 7 * 24 * time.Hour

func (h *AuthHandler) refreshTTL() time.Duration {
	if h.cfg.JWT.RefreshExpireTime > 0 {
		return h.cfg.JWT.RefreshExpireTime
	}
	return defaultRefreshTTL
}

// issueTokens 签发访问 token 并保存一枚新的刷新令牌
func (h *AuthHandler) issueTokens(db *gorm.DB, user *models.User) (*LoginResponse, error) {
	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	value, err := models.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	refresh := models.RefreshToken{
		UserID:    user.ID,
		Token:     value,
		ExpiresAt: time.Now().Add(h.refreshTTL()),
	}
	if err := db.Create(&refresh).Error; err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, RefreshToken: value, UserInfo: *user}, nil
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号，并初始化一组默认收支类别
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=models.User} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	db := h.db.WithContext(c.Request.Context())

	// 检查用户名是否已存在
	var existingUser models.User
	if err := db.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		BadRequest(c, "用户名已存在")
		return
	}

	// 加密密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	user := models.User{
		Username: req.Username,
		Password: string(hashedPassword),
		Email:    req.Email,
	}
	if err := db.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建用户失败"))
		return
	}

	// 默认类别创建失败不影响注册
	if h.seeder != nil {
		if err := h.seeder.SeedDefaultCategories(c.Request.Context(), user.ID); err != nil {
			log.Printf("初始化默认类别失败: user=%d err=%v", user.ID, err)
		}
	}

	SuccessWithMessage(c, "注册成功", user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 用户登录获取 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "用户名或密码错误"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	db := h.db.WithContext(c.Request.Context())

	// 查找用户（支持用户名或邮箱）
	var user models.User
	if err := db.Where("username = ? OR email = ?", req.Username, req.Username).
		First(&user).Error; err != nil {
		Unauthorized(c, "用户名或密码错误")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "用户名或密码错误")
		return
	}

	resp, err := h.issueTokens(db, &user)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "生成 token 失败"))
		return
	}

	Success(c, resp)
}

// RefreshRequest 刷新访问 token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
}

// RefreshResponse 刷新结果，刷新令牌保持不变
type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Refresh 使用刷新令牌换取新的访问 token
// @Summary 刷新访问 token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "刷新令牌"
// @Success 200 {object} Response{data=RefreshResponse} "刷新成功"
// @Failure 401 {object} Response "刷新令牌无效或已过期"
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var refresh models.RefreshToken
	if err := db.Where("token = ?", req.RefreshToken).First(&refresh).Error; err != nil {
		Unauthorized(c, "刷新令牌无效")
		return
	}
	if refresh.IsExpired() {
		if err := db.Delete(&refresh).Error; err != nil {
			log.Printf("删除过期刷新令牌失败: user=%d err=%v", refresh.UserID, err)
		}
		Unauthorized(c, "刷新令牌已过期，请重新登录")
		return
	}

	var user models.User
	if err := db.First(&user, refresh.UserID).Error; err != nil {
		Unauthorized(c, "用户不存在")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, RefreshResponse{Token: token, RefreshToken: refresh.Token})
}

// LogoutRequest 退出登录，未指定刷新令牌时注销该用户全部会话
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout 退出登录
// @Summary 退出登录
// @Description 删除刷新令牌。请求体为空时删除当前用户的全部刷新令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LogoutRequest false "刷新令牌"
// @Success 200 {object} Response "已退出登录"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID := middleware.GetCurrentUserID(c)
	query := h.db.WithContext(c.Request.Context()).Where("user_id = ?", userID)
	if req.RefreshToken != "" {
		query = query.Where("token = ?", req.RefreshToken)
	}
	if err := query.Delete(&models.RefreshToken{}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "退出登录失败"))
		return
	}

	SuccessWithMessage(c, "已退出登录", nil)
}

// GetProfile 获取用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	Success(c, user)
}

// UpdateProfileRequest 修改用户信息，留空的字段不修改
type UpdateProfileRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=50" example:"newname"`
	Email    string `json:"email" binding:"omitempty,email" example:"new@example.com"`
}

// UpdateProfile 修改当前用户信息
// @Summary 修改当前用户信息
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "用户信息"
// @Success 200 {object} Response{data=models.User} "修改成功"
// @Failure 400 {object} Response "请求参数错误或用户名已存在"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID := middleware.GetCurrentUserID(c)
	db := h.db.WithContext(c.Request.Context())

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	updates := map[string]interface{}{}
	if req.Username != "" && req.Username != user.Username {
		var count int64
		if err := db.Model(&models.User{}).
			Where("username = ? AND id <> ?", req.Username, userID).
			Count(&count).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "检查用户名失败"))
			return
		}
		if count > 0 {
			BadRequest(c, "用户名已存在")
			return
		}
		updates["username"] = req.Username
	}
	if req.Email != "" && req.Email != user.Email {
		updates["email"] = req.Email
	}
	if len(updates) == 0 {
		Success(c, user)
		return
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新用户信息失败"))
		return
	}
	if v, ok := updates["username"]; ok {
		user.Username = v.(string)
	}
	if v, ok := updates["email"]; ok {
		user.Email = v.(string)
	}

	SuccessWithMessage(c, "修改成功", user)
}

// DeleteAccountRequest 注销账号需再次输入密码
type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required" example:"password123"`
}

// DeleteAccount 注销账号并删除该用户的全部数据
// @Summary 注销账号
// @Description 校验密码后删除交易、预算快照、储蓄目标、类别、验证码、刷新令牌和用户本身
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteAccountRequest true "当前密码"
// @Success 200 {object} Response "账号已注销"
// @Failure 401 {object} Response "密码错误"
// @Router /api/v1/auth/account [delete]
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请输入当前密码")
		return
	}

	userID := middleware.GetCurrentUserID(c)
	db := h.db.WithContext(c.Request.Context())

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "密码错误")
		return
	}

	// 交易引用类别，需先于类别删除
	owned := []interface{}{
		&models.Transaction{},
		&models.CategoryBudget{},
		&models.Goal{},
		&models.Category{},
		&models.PasswordReset{},
		&models.RefreshToken{},
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, model := range owned {
			if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(&user).Error
	})
	if err != nil {
		log.Printf("注销账号失败: user=%d err=%v", user.ID, err)
		InternalError(c, SafeErrorMessage(err, "注销账号失败"))
		return
	}

	SuccessWithMessage(c, "账号已注销", nil)
}

// RequestRecoveryRequest 请求密码找回验证码
type RequestRecoveryRequest struct {
	Email string `json:"email" binding:"required,email" example:"test@example.com"`
}

// RequestRecovery 发送密码找回验证码
// @Summary 请求密码找回
// @Description 通过邮箱发送6位数字验证码，10分钟内有效
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RequestRecoveryRequest true "邮箱"
// @Success 200 {object} Response "验证码已发送"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 429 {object} Response "请求过于频繁"
// @Router /api/v1/auth/password/request-reset [post]
func (h *AuthHandler) RequestRecovery(c *gin.Context) {
	var req RequestRecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请输入有效的邮箱地址")
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// 不暴露邮箱是否注册
		SuccessWithMessage(c, "如果该邮箱已注册，您将收到密码找回验证码", nil)
		return
	}

	// 一分钟内只发送一次
	var existing models.PasswordReset
	if err := db.Where("user_id = ? AND used = ? AND expires_at > ?", user.ID, false, time.Now()).
		Order("created_at DESC").First(&existing).Error; err == nil {
		if time.Since(existing.CreatedAt) < time.Minute {
			Error(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			return
		}
		if err := db.Model(&existing).Update("used", true).Error; err != nil {
			log.Printf("作废旧验证码失败: user=%d reset=%d err=%v", user.ID, existing.ID, err)
		}
	}

	code, err := models.GenerateRecoveryCode()
	if err != nil {
		InternalError(c, "生成验证码失败")
		return
	}

	reset := models.PasswordReset{
		UserID:    user.ID,
		Code:      code,
		Email:     req.Email,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	if err := db.Create(&reset).Error; err != nil {
		InternalError(c, "保存验证码失败")
		return
	}

	if err := h.mailer.SendRecoveryCode(req.Email, user.Username, code); err != nil {
		if delErr := db.Delete(&reset).Error; delErr != nil {
			log.Printf("删除未发出的验证码失败: user=%d reset=%d err=%v", user.ID, reset.ID, delErr)
		}
		log.Printf("发送找回密码邮件失败: user=%d err=%v", user.ID, err)
		InternalError(c, SafeErrorMessage(err, "邮件发送失败"))
		return
	}

	SuccessWithMessage(c, "验证码已发送，请查收邮件", nil)
}

// VerifyCodeRequest 校验找回密码验证码
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email" example:"test@example.com"`
	Code  string `json:"code" binding:"required,len=6" example:"123456"`
}

// VerifyRecoveryCode 校验验证码是否可用，不消耗验证码
// @Summary 校验找回密码验证码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "邮箱和验证码"
// @Success 200 {object} Response "验证码有效"
// @Failure 400 {object} Response "验证码无效或已过期"
// @Router /api/v1/auth/password/verify [post]
func (h *AuthHandler) VerifyRecoveryCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误")
		return
	}

	var reset models.PasswordReset
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ? AND code = ? AND used = ? AND expires_at > ?", req.Email, req.Code, false, time.Now()).
		Order("created_at DESC").
		First(&reset).Error; err != nil {
		BadRequest(c, "验证码无效或已过期")
		return
	}

	SuccessWithMessage(c, "验证码有效", gin.H{"valid": true})
}

// ResetPasswordRequest 使用验证码重置密码
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email" example:"test@example.com"`
	Code        string `json:"code" binding:"required,len=6" example:"123456"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50" example:"newpassword123"`
}

// ResetPassword 使用验证码重置密码
// @Summary 重置密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "重置密码请求"
// @Success 200 {object} Response "密码重置成功"
// @Failure 400 {object} Response "验证码错误或已过期"
// @Router /api/v1/auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误")
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var reset models.PasswordReset
	if err := db.Where("email = ? AND code = ?", req.Email, req.Code).First(&reset).Error; err != nil {
		BadRequest(c, "验证码错误")
		return
	}
	if !reset.IsValid() {
		if reset.Used {
			BadRequest(c, "验证码已被使用")
		} else {
			BadRequest(c, "验证码已过期，请重新获取")
		}
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).
			Update("password", string(hashedPassword)).Error; err != nil {
			return err
		}
		// 使该用户所有未使用的验证码失效
		if err := tx.Model(&models.PasswordReset{}).
			Where("user_id = ? AND used = ?", reset.UserID, false).
			Update("used", true).Error; err != nil {
			return err
		}
		// 已登录的会话全部失效
		return tx.Where("user_id = ?", reset.UserID).Delete(&models.RefreshToken{}).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "更新密码失败"))
		return
	}

	SuccessWithMessage(c, "密码重置成功，请使用新密码登录", nil)
}
