// Package database 定义了上传文件相关的数据库模型
package database

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// UploadedFile 上传文件元数据模型
// 每条记录对应一个用户上传的文件，文件内容由Blob存储保管，
// 此处只保存元数据和用于匿名访问的分享令牌
type UploadedFile struct {
	ID               uint           `gorm:"primarykey" json:"id"`                              // 主键ID，自增
	OwnerID          uint           `gorm:"index;not null" json:"owner_id"`                    // 所属用户ID
	OriginalFilename string         `gorm:"not null;size:255" json:"original_filename"`        // 原始文件名称，最大255字符
	StorageKey       string         `gorm:"not null;size:500" json:"-"`                        // Blob存储中的对象键，对外不暴露
	FileSize         int64          `gorm:"not null" json:"file_size"`                         // 文件大小，单位为字节
	FileFormat       string         `gorm:"not null;size:50" json:"file_format"`               // 文件扩展名（小写，如：pdf、jpg）
	UploadedAt       time.Time      `gorm:"not null;<-:create" json:"uploaded_at"`             // 上传时间，创建后不可变
	ExpiresAt        *time.Time     `json:"expires_at"`                                        // 过期时间，nil表示永不过期
	ShareToken       string         `gorm:"uniqueIndex;not null;size:64" json:"share_token"`   // 分享令牌，全局唯一且不会重新分配
	CreatedAt        time.Time      `json:"created_at"`                                        // 记录创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                        // 记录最后更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间戳
}

// TableName 指定UploadedFile模型对应的数据库表名
func (UploadedFile) TableName() string {
	return "uploaded_files"
}

// IsExpired 判断文件在now时刻是否已过期
// ExpiresAt为nil时永不过期；过期的记录仍然保留，只是分享下载通道被关闭
func (f *UploadedFile) IsExpired(now time.Time) bool {
	return f.ExpiresAt != nil && now.After(*f.ExpiresAt)
}

// SizeInMB 返回用于展示的文件大小（MB，保留两位小数）
func (f *UploadedFile) SizeInMB() float64 {
	return math.Round(float64(f.FileSize)/(1024*1024)*100) / 100
}
