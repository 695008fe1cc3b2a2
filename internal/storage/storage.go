// Package storage 提供Blob存储适配层
// 上传文件的原始字节与元数据记录分离存放，本包只负责字节流的存取，
// 支持本地文件系统和阿里云OSS、腾讯云COS、七牛云Kodo三种对象存储后端
package storage

import (
	"errors"
	"io"

	"github.com/jbmillenial/file-share/config"
)

// ErrBlobNotFound 对象在存储中不存在
var ErrBlobNotFound = errors.New("blob not found")

// ErrUnsupportedProvider 不支持的存储提供商
var ErrUnsupportedProvider = errors.New("unsupported storage provider")

// BlobStorage Blob存储接口
// 调用方通过不透明的objectKey存取文件内容，对具体后端无感知
type BlobStorage interface {
	// Put 写入对象
	// 参数:
	//   objectKey - 对象键（由调用方生成的不透明标识）
	//   reader - 文件内容流
	//   contentType - 文件MIME类型（本地后端忽略）
	// 返回:
	//   error - 写入过程中的错误信息
	Put(objectKey string, reader io.Reader, contentType string) error

	// Get 读取对象内容流
	// 返回的ReadCloser由调用者负责关闭；对象不存在时返回ErrBlobNotFound
	Get(objectKey string) (io.ReadCloser, error)

	// Delete 删除对象
	// 对象不存在时返回ErrBlobNotFound，调用方可据此区分"删除失败"和"已经不在"
	Delete(objectKey string) error

	// Exists 检查对象是否存在
	Exists(objectKey string) (bool, error)
}

// New 根据存储配置创建Blob存储实例
// provider取值: local、aliyun、tencent、qiniu
func New(cfg config.StorageConfig) (BlobStorage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg.LocalPath)
	case "aliyun":
		return NewAliyunStorage(cfg)
	case "tencent":
		return NewTencentStorage(cfg)
	case "qiniu":
		return NewQiniuStorage(cfg)
	default:
		return nil, ErrUnsupportedProvider
	}
}
