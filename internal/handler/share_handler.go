package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jbmillenial/file-share/internal/logger"
	fileservice "github.com/jbmillenial/file-share/internal/service/file"
)

// ShareHandler 匿名分享下载处理器
// 该入口不要求登录，令牌本身就是访问凭证
type ShareHandler struct {
	files fileservice.FileService
}

// NewShareHandler 创建分享下载处理器实例
func NewShareHandler(files fileservice.FileService) *ShareHandler {
	return &ShareHandler{files: files}
}

// Download 分享链接下载
// @Summary 分享链接下载
// @Description 通过分享令牌匿名下载文件，响应为附件形式的文件流
// @Tags 分享下载
// @Produce octet-stream
// @Param token path string true "分享令牌"
// @Success 200 {file} binary "文件内容"
// @Failure 404 {object} response.Response "分享令牌无效"
// @Failure 410 {object} response.Response "分享链接已过期"
// @Router /s/{token} [get]
func (h *ShareHandler) Download(c *gin.Context) {
	token := c.Param("token")

	record, content, err := h.files.OpenSharedContent(token)
	if err != nil {
		respondError(c, err)
		return
	}
	defer content.Close()

	contentType := mime.TypeByExtension("." + record.FileFormat)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Length", strconv.FormatInt(record.FileSize, 10))
	// 原始文件名可能包含非ASCII字符，按RFC 6266同时给出两种形式
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s",
		record.OriginalFilename, urlEscape(record.OriginalFilename)))
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, content); err != nil {
		// 响应头已发出，只能记录，无法再改写状态码
		logger.Warnf("Streaming shared file %d aborted: %v", record.ID, err)
	}
}

// urlEscape 对文件名做RFC 5987百分号编码
func urlEscape(s string) string {
	const hex = "0123456789ABCDEF"
	var buf []byte
	for i := 0; i < len(s); i++ {
		b := s[i]
		if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') ||
			b == '-' || b == '.' || b == '_' || b == '~' {
			buf = append(buf, b)
		} else {
			buf = append(buf, '%', hex[b>>4], hex[b&0x0f])
		}
	}
	return string(buf)
}
