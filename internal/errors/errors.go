// Package errors 定义应用程序统一的错误码体系
// 校验类和权限类错误在边界处转换为用户提示，存储类错误视为当前操作的致命错误
package errors

import (
	"fmt"

	"github.com/jbmillenial/file-share/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess        ErrorCode = 0    // 成功
	ErrInternalServer ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams  ErrorCode = 1001 // 参数错误
	ErrUnauthorized   ErrorCode = 1002 // 未授权
	ErrForbidden      ErrorCode = 1003 // 禁止访问
	ErrNotFound       ErrorCode = 1004 // 资源未找到

	// 文件与存储错误码 (2000-2999)
	// ErrFileNotFound同时覆盖"记录不存在"和"记录不属于请求者"两种情况，
	// 对调用方刻意不可区分，避免泄露他人文件的存在性
	ErrFileNotFound       ErrorCode = 2000 // 文件不存在（或无权访问）
	ErrFileSizeTooLarge   ErrorCode = 2001 // 文件大小超限
	ErrFileTypeNotAllowed ErrorCode = 2002 // 文件类型不允许
	ErrFileUploadFailed   ErrorCode = 2003 // 文件上传失败
	ErrFileDeleteFailed   ErrorCode = 2004 // 文件删除失败（blob删除失败，记录保留）
	ErrStoragePut         ErrorCode = 2005 // 存储写入失败
	ErrStorageGet         ErrorCode = 2006 // 存储读取失败
	ErrStorageDelete      ErrorCode = 2007 // 存储删除失败

	// 分享链接错误码 (3000-3999)
	ErrShareInvalid        ErrorCode = 3000 // 分享令牌无效
	ErrShareExpired        ErrorCode = 3001 // 分享链接已过期（与无效是两种不同的用户状态）
	ErrShareTokenCollision ErrorCode = 3002 // 令牌冲突（内部重试，不对外暴露）

	// 用户相关错误码 (4000-4999)
	ErrEmailAlreadyExists    ErrorCode = 4000 // 邮箱已被注册
	ErrUsernameAlreadyExists ErrorCode = 4001 // 用户名已被占用
	ErrInvalidCredentials    ErrorCode = 4002 // 用户名或密码错误
	ErrUserNotFound          ErrorCode = 4003 // 用户不存在

	// 数据库相关错误码 (5000-5999)
	ErrDatabaseQuery  ErrorCode = 5000 // 数据库查询错误
	ErrDatabaseInsert ErrorCode = 5001 // 数据库插入错误
	ErrDatabaseDelete ErrorCode = 5002 // 数据库删除错误
)

// AppError 应用错误结构体
// @Description 应用程序统一错误格式
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误，支持errors.Is/As链式判断
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// New 创建新的应用错误，消息取自i18n语言包
func New(code ErrorCode) *AppError {
	return &AppError{
		Code:    code,
		Message: GetErrorMessage(code),
	}
}

// NewWithDetails 创建带详细信息的应用错误
func NewWithDetails(code ErrorCode, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: GetErrorMessage(code),
		Details: details,
	}
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       GetErrorMessage(code),
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 从错误中提取应用错误
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// IsCode 判断错误是否为指定错误码的应用错误
func IsCode(err error, code ErrorCode) bool {
	if appErr, ok := GetAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:        "success",
	ErrInternalServer: "internal_server_error",
	ErrInvalidParams:  "invalid_params",
	ErrUnauthorized:   "unauthorized",
	ErrForbidden:      "forbidden",
	ErrNotFound:       "not_found",

	ErrFileNotFound:       "file_not_found",
	ErrFileSizeTooLarge:   "file_size_too_large",
	ErrFileTypeNotAllowed: "file_type_not_allowed",
	ErrFileUploadFailed:   "file_upload_failed",
	ErrFileDeleteFailed:   "file_delete_failed",
	ErrStoragePut:         "storage_put_failed",
	ErrStorageGet:         "storage_get_failed",
	ErrStorageDelete:      "storage_delete_failed",

	ErrShareInvalid:        "share_invalid",
	ErrShareExpired:        "share_expired",
	ErrShareTokenCollision: "share_token_collision",

	ErrEmailAlreadyExists:    "email_already_exists",
	ErrUsernameAlreadyExists: "username_already_exists",
	ErrInvalidCredentials:    "invalid_credentials",
	ErrUserNotFound:          "user_not_found",

	ErrDatabaseQuery:  "database_query",
	ErrDatabaseInsert: "database_insert",
	ErrDatabaseDelete: "database_delete",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}
	return i18n.GetInstance().Translate(key, lang)
}
