// Package handler 实现HTTP接口层
// 处理器只做参数绑定和响应转换，业务规则全部下沉到service层
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/jbmillenial/file-share/internal/errors"
	"github.com/jbmillenial/file-share/internal/response"
)

// 错误码到HTTP状态码的映射
// 未列出的错误码（存储、数据库类）一律按500处理
var codeToHTTPStatus = map[apperrors.ErrorCode]int{
	apperrors.ErrInvalidParams: http.StatusBadRequest,
	apperrors.ErrUnauthorized:  http.StatusUnauthorized,
	apperrors.ErrForbidden:     http.StatusForbidden,
	apperrors.ErrNotFound:      http.StatusNotFound,

	apperrors.ErrFileNotFound:       http.StatusNotFound,
	apperrors.ErrFileSizeTooLarge:   http.StatusBadRequest,
	apperrors.ErrFileTypeNotAllowed: http.StatusBadRequest,

	apperrors.ErrShareInvalid: http.StatusNotFound,
	apperrors.ErrShareExpired: http.StatusGone,

	apperrors.ErrEmailAlreadyExists:    http.StatusBadRequest,
	apperrors.ErrUsernameAlreadyExists: http.StatusBadRequest,
	apperrors.ErrInvalidCredentials:    http.StatusUnauthorized,
	apperrors.ErrUserNotFound:          http.StatusNotFound,
}

// respondError 把业务错误转换为统一的错误响应
// 5xx错误不向客户端透出内部细节，Details只进日志
func respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.GetAppError(err)
	if !ok {
		response.InternalServerError(c, apperrors.New(apperrors.ErrInternalServer).Message)
		return
	}

	status, mapped := codeToHTTPStatus[appErr.Code]
	if !mapped {
		status = http.StatusInternalServerError
	}

	message := appErr.Message
	if status < http.StatusInternalServerError && appErr.Details != "" {
		message = appErr.Message + ": " + appErr.Details
	}
	response.Error(c, status, int(appErr.Code), message)
}
