// Package validator 提供上传文件的策略校验
// 纯函数实现，无副作用：检查文件大小上限和扩展名白名单
package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jbmillenial/file-share/config"
	apperrors "github.com/jbmillenial/file-share/internal/errors"
)

// Policy 上传策略
// 由config.UploadConfig构建，持有大小上限和扩展名白名单
type Policy struct {
	maxFileSize int64
	ordered     []string
	allowed     map[string]struct{}
}

// NewPolicy 根据上传配置创建校验策略
func NewPolicy(cfg config.UploadConfig) Policy {
	ordered := make([]string, 0, len(cfg.AllowedExtensions))
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		normalized := strings.ToLower(strings.TrimPrefix(ext, "."))
		if _, exists := allowed[normalized]; exists {
			continue
		}
		ordered = append(ordered, normalized)
		allowed[normalized] = struct{}{}
	}
	return Policy{
		maxFileSize: cfg.MaxFileSize,
		ordered:     ordered,
		allowed:     allowed,
	}
}

// MaxFileSize 返回策略允许的单文件最大字节数
func (p Policy) MaxFileSize() int64 {
	return p.maxFileSize
}

// Validate 校验文件名和申报大小是否符合策略
// 返回nil表示通过；否则返回携带具体原因的应用错误：
//   - 大小超限时错误详情包含实际大小和允许上限，便于用户展示
//   - 扩展名缺失或不在白名单内时拒绝
func (p Policy) Validate(filename string, sizeBytes int64) *apperrors.AppError {
	if err := p.ValidateSize(sizeBytes); err != nil {
		return err
	}
	return p.ValidateExtension(filename)
}

// ValidateSize 校验文件大小
func (p Policy) ValidateSize(sizeBytes int64) *apperrors.AppError {
	if sizeBytes > p.maxFileSize {
		return apperrors.NewWithDetails(apperrors.ErrFileSizeTooLarge,
			fmt.Sprintf("文件大小%.2fMB，超过允许上限%.2fMB",
				float64(sizeBytes)/(1024*1024), float64(p.maxFileSize)/(1024*1024)))
	}
	return nil
}

// ValidateExtension 校验文件扩展名
// 从文件名派生小写后缀，必须是白名单成员；无扩展名或未知扩展名均拒绝
func (p Policy) ValidateExtension(filename string) *apperrors.AppError {
	ext := Extension(filename)
	if ext == "" {
		return apperrors.NewWithDetails(apperrors.ErrFileTypeNotAllowed, "文件缺少扩展名")
	}
	if _, ok := p.allowed[ext]; !ok {
		return apperrors.NewWithDetails(apperrors.ErrFileTypeNotAllowed,
			fmt.Sprintf("不支持的文件类型 .%s，允许的类型: %s", ext, strings.Join(p.AllowedExtensions(), ", ")))
	}
	return nil
}

// AllowedExtensions 返回白名单扩展名列表（配置顺序，用于错误提示）
func (p Policy) AllowedExtensions() []string {
	return p.ordered
}

// Extension 提取文件名的小写扩展名（不带点），无扩展名时返回空字符串
func Extension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return strings.TrimPrefix(ext, ".")
}
