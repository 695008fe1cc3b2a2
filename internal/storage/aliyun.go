// 本文件实现基于阿里云OSS（Object Storage Service）的Blob存储后端
package storage

import (
	"fmt"
	"io"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/jbmillenial/file-share/config"
	"github.com/jbmillenial/file-share/internal/logger"
)

// AliyunStorage 阿里云OSS存储后端
type AliyunStorage struct {
	client *oss.Client // 阿里云OSS客户端实例
	bucket *oss.Bucket // OSS存储桶实例
}

// NewAliyunStorage 创建阿里云OSS存储实例
// 根据配置信息初始化客户端和存储桶连接
// 参数:
//   - cfg: 存储配置，包含访问密钥、区域、存储桶等
//
// 返回:
//   - *AliyunStorage: 初始化完成的存储实例
//   - error: 初始化过程中的错误信息
func NewAliyunStorage(cfg config.StorageConfig) (*AliyunStorage, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://oss-%s.aliyuncs.com", cfg.Region)
	}

	client, err := oss.New(endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun oss client: %w", err)
	}

	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", cfg.Bucket, err)
	}

	logger.Infof("[阿里云OSS] 存储后端初始化成功, 存储桶: %s, 域名: %s", cfg.Bucket, endpoint)
	return &AliyunStorage{
		client: client,
		bucket: bucket,
	}, nil
}

// Put 上传对象到阿里云OSS
func (s *AliyunStorage) Put(objectKey string, reader io.Reader, contentType string) error {
	options := []oss.Option{}
	if contentType != "" {
		options = append(options, oss.ContentType(contentType))
	}

	if err := s.bucket.PutObject(objectKey, reader, options...); err != nil {
		logger.Errorf("[阿里云OSS] 上传对象失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload blob to aliyun oss: %w", err)
	}

	logger.Infof("[阿里云OSS] 成功上传对象: %s", objectKey)
	return nil
}

// Get 从阿里云OSS下载对象
func (s *AliyunStorage) Get(objectKey string) (io.ReadCloser, error) {
	exists, err := s.bucket.IsObjectExist(objectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check blob existence in aliyun oss: %w", err)
	}
	if !exists {
		return nil, ErrBlobNotFound
	}

	body, err := s.bucket.GetObject(objectKey)
	if err != nil {
		logger.Errorf("[阿里云OSS] 下载对象失败, 对象键: %s, 错误: %v", objectKey, err)
		return nil, fmt.Errorf("failed to download blob from aliyun oss: %w", err)
	}
	return body, nil
}

// Delete 删除阿里云OSS对象
func (s *AliyunStorage) Delete(objectKey string) error {
	exists, err := s.bucket.IsObjectExist(objectKey)
	if err != nil {
		return fmt.Errorf("failed to check blob existence in aliyun oss: %w", err)
	}
	if !exists {
		return ErrBlobNotFound
	}

	if err := s.bucket.DeleteObject(objectKey); err != nil {
		logger.Errorf("[阿里云OSS] 删除对象失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to delete blob from aliyun oss: %w", err)
	}

	logger.Infof("[阿里云OSS] 成功删除对象: %s", objectKey)
	return nil
}

// Exists 检查对象是否存在
func (s *AliyunStorage) Exists(objectKey string) (bool, error) {
	exists, err := s.bucket.IsObjectExist(objectKey)
	if err != nil {
		return false, fmt.Errorf("failed to check blob existence in aliyun oss: %w", err)
	}
	return exists, nil
}
