// Package docs 接口文档，由 swag 注解整理
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/auth/register": {
            "post": {"tags": ["认证"], "summary": "用户注册", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.RegisterRequest"}}],
                "responses": {"200": {"description": "注册成功", "schema": {"$ref": "#/definitions/api.Response"}}}}
        },
        "/api/v1/auth/login": {
            "post": {"tags": ["认证"], "summary": "用户登录", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.LoginRequest"}}],
                "responses": {"200": {"description": "登录成功", "schema": {"$ref": "#/definitions/api.Response"}}, "401": {"description": "用户名或密码错误"}}}
        },
        "/api/v1/auth/password/request-reset": {
            "post": {"tags": ["认证"], "summary": "请求密码找回", "produces": ["application/json"],
                "responses": {"200": {"description": "验证码已发送"}, "429": {"description": "请求过于频繁"}}}
        },
        "/api/v1/auth/password/verify": {
            "post": {"tags": ["认证"], "summary": "校验找回密码验证码", "produces": ["application/json"],
                "responses": {"200": {"description": "验证码有效"}, "400": {"description": "验证码无效或已过期"}}}
        },
        "/api/v1/auth/password/reset": {
            "post": {"tags": ["认证"], "summary": "重置密码", "produces": ["application/json"],
                "responses": {"200": {"description": "密码重置成功"}, "400": {"description": "验证码错误或已过期"}}}
        },
        "/api/v1/auth/refresh": {
            "post": {"tags": ["认证"], "summary": "刷新访问 token", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "刷新成功"}, "401": {"description": "刷新令牌无效或已过期"}}}
        },
        "/api/v1/auth/logout": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["认证"], "summary": "退出登录", "produces": ["application/json"],
                "responses": {"200": {"description": "已退出登录"}, "401": {"description": "未授权"}}}
        },
        "/api/v1/auth/profile": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["认证"], "summary": "获取当前用户信息", "produces": ["application/json"],
                "responses": {"200": {"description": "获取成功"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["认证"], "summary": "修改当前用户信息", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "修改成功"}, "400": {"description": "请求参数错误或用户名已存在"}}}
        },
        "/api/v1/auth/account": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["认证"], "summary": "注销账号", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "账号已注销"}, "401": {"description": "密码错误"}}}
        },
        "/api/v1/categories": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["类别"], "summary": "获取类别列表",
                "parameters": [
                    {"type": "string", "name": "type", "in": "query"},
                    {"type": "integer", "name": "year", "in": "query"},
                    {"type": "integer", "name": "month", "in": "query"}],
                "responses": {"200": {"description": "获取成功"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["类别"], "summary": "创建类别",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.CategoryRequest"}}],
                "responses": {"200": {"description": "创建成功"}}}
        },
        "/api/v1/categories/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["类别"], "summary": "更新类别",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.CategoryRequest"}}],
                "responses": {"200": {"description": "更新成功"}, "404": {"description": "类别不存在"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["类别"], "summary": "删除类别",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "删除成功"}}}
        },
        "/api/v1/categories/{id}/budget": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["类别"], "summary": "类别月度预算",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "获取成功"}}}
        },
        "/api/v1/transactions": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["交易"], "summary": "获取某天的交易",
                "parameters": [{"type": "string", "name": "date", "in": "query"}],
                "responses": {"200": {"description": "获取成功"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["交易"], "summary": "创建交易",
                "description": "支出会先校验类别当月预算，超出时返回 400 且不保存",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.TransactionRequest"}}],
                "responses": {"200": {"description": "创建成功"}, "400": {"description": "参数错误或超出预算"}}}
        },
        "/api/v1/transactions/summary": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["交易"], "summary": "单日收支汇总",
                "parameters": [{"type": "string", "name": "date", "in": "query"}],
                "responses": {"200": {"description": "获取成功"}}}
        },
        "/api/v1/transactions/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["交易"], "summary": "获取交易详情",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "获取成功"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["交易"], "summary": "更新交易",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.TransactionRequest"}}],
                "responses": {"200": {"description": "更新成功"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["交易"], "summary": "删除交易",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "删除成功"}}}
        },
        "/api/v1/budgets/validate": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["预算"], "summary": "预算校验",
                "parameters": [
                    {"type": "string", "name": "category_id", "in": "query", "required": true},
                    {"type": "number", "name": "amount", "in": "query", "required": true},
                    {"type": "string", "name": "date", "in": "query", "required": true},
                    {"type": "integer", "name": "seq", "in": "query"}],
                "responses": {"200": {"description": "校验结果"}, "503": {"description": "无法获取预算"}}}
        },
        "/api/v1/analytics/monthly": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["统计"], "summary": "月度统计",
                "parameters": [
                    {"type": "integer", "name": "year", "in": "query"},
                    {"type": "integer", "name": "month", "in": "query"},
                    {"type": "string", "name": "type", "in": "query"}],
                "responses": {"200": {"description": "获取成功"}}}
        },
        "/api/v1/analytics/by-day": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["统计"], "summary": "按天分组的交易",
                "parameters": [
                    {"type": "integer", "name": "year", "in": "query"},
                    {"type": "integer", "name": "month", "in": "query"},
                    {"type": "string", "name": "type", "in": "query"},
                    {"type": "string", "name": "lang", "in": "query"}],
                "responses": {"200": {"description": "获取成功"}}}
        },
        "/api/v1/analytics/month-view": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["统计"], "summary": "统计页数据",
                "responses": {"200": {"description": "获取成功"}}}
        },
        "/api/v1/analytics/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["统计"], "summary": "导出月度统计",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "responses": {"200": {"description": "xlsx 文件", "schema": {"type": "file"}}}}
        },
        "/api/v1/goals": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["储蓄目标"], "summary": "获取储蓄目标",
                "responses": {"200": {"description": "获取成功"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["储蓄目标"], "summary": "创建储蓄目标",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.GoalRequest"}}],
                "responses": {"200": {"description": "创建成功"}}}
        },
        "/api/v1/goals/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["储蓄目标"], "summary": "获取目标详情",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "获取成功"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["储蓄目标"], "summary": "更新储蓄目标",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.GoalRequest"}}],
                "responses": {"200": {"description": "更新成功"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["储蓄目标"], "summary": "删除储蓄目标",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "删除成功"}}}
        },
        "/api/v1/goals/{id}/balance": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["储蓄目标"], "summary": "调整目标金额",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.BalanceRequest"}}],
                "responses": {"200": {"description": "调整成功"}}}
        }
    },
    "definitions": {
        "api.Response": {"type": "object", "properties": {
            "code": {"type": "integer"}, "message": {"type": "string"}, "data": {}}},
        "api.RegisterRequest": {"type": "object", "required": ["username", "password"], "properties": {
            "username": {"type": "string", "example": "testuser"},
            "password": {"type": "string", "example": "password123"},
            "email": {"type": "string", "example": "test@example.com"}}},
        "api.LoginRequest": {"type": "object", "required": ["username", "password"], "properties": {
            "username": {"type": "string", "example": "testuser"},
            "password": {"type": "string", "example": "password123"}}},
        "api.CategoryRequest": {"type": "object", "required": ["name"], "properties": {
            "name": {"type": "string", "example": "餐饮"},
            "type": {"type": "string", "example": "expense"},
            "icon": {"type": "string", "example": "utensils"},
            "color": {"type": "string", "example": "#ef4444"},
            "monthly_budget": {"type": "number", "example": 1500}}},
        "api.TransactionRequest": {"type": "object", "required": ["name", "type", "date", "category_id"], "properties": {
            "name": {"type": "string", "example": "午餐"},
            "type": {"type": "string", "example": "expense"},
            "amount": {"type": "number", "example": 25.5},
            "date": {"type": "string", "example": "2024-03-15"},
            "category_id": {"type": "string"},
            "income_category_id": {"type": "string"},
            "observation": {"type": "string"}}},
        "api.GoalRequest": {"type": "object", "required": ["name"], "properties": {
            "name": {"type": "string", "example": "旅行基金"},
            "target_amount": {"type": "number", "example": 5000},
            "current_amount": {"type": "number", "example": 0},
            "color": {"type": "string"},
            "icon": {"type": "string"},
            "deadline": {"type": "string", "example": "2024-12-31"},
            "is_completed": {"type": "boolean"}}},
        "api.BalanceRequest": {"type": "object", "properties": {
            "amount": {"type": "number", "example": 200}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "记账系统 API",
	Description:      "个人记账 API：收支类别、交易、类别月度预算校验、月度统计和储蓄目标",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
