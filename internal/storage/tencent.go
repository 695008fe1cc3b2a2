// 本文件实现基于腾讯云COS的Blob存储后端
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jbmillenial/file-share/config"
	"github.com/jbmillenial/file-share/internal/logger"
	"github.com/tencentyun/cos-go-sdk-v5"
)

// TencentStorage 腾讯云COS存储后端
type TencentStorage struct {
	client *cos.Client
}

// NewTencentStorage 创建腾讯云COS存储实例
func NewTencentStorage(cfg config.StorageConfig) (*TencentStorage, error) {
	bucketURL := fmt.Sprintf("https://%s.cos.%s.myqcloud.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		bucketURL = cfg.Endpoint
	}

	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bucket URL: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		},
	})

	logger.Infof("[腾讯云COS] 存储后端初始化成功, 存储桶URL: %s", bucketURL)
	return &TencentStorage{client: client}, nil
}

// Put 上传对象到腾讯云COS
func (s *TencentStorage) Put(objectKey string, reader io.Reader, contentType string) error {
	options := &cos.ObjectPutOptions{}
	if contentType != "" {
		options.ObjectPutHeaderOptions = &cos.ObjectPutHeaderOptions{
			ContentType: contentType,
		}
	}

	if _, err := s.client.Object.Put(context.Background(), objectKey, reader, options); err != nil {
		logger.Errorf("[腾讯云COS] 上传对象失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload blob to tencent cos: %w", err)
	}

	logger.Infof("[腾讯云COS] 成功上传对象: %s", objectKey)
	return nil
}

// Get 从腾讯云COS下载对象
func (s *TencentStorage) Get(objectKey string) (io.ReadCloser, error) {
	resp, err := s.client.Object.Get(context.Background(), objectKey, nil)
	if err != nil {
		if cos.IsNotFoundError(err) {
			return nil, ErrBlobNotFound
		}
		logger.Errorf("[腾讯云COS] 下载对象失败, 对象键: %s, 错误: %v", objectKey, err)
		return nil, fmt.Errorf("failed to download blob from tencent cos: %w", err)
	}
	return resp.Body, nil
}

// Delete 删除腾讯云COS对象
func (s *TencentStorage) Delete(objectKey string) error {
	exists, err := s.Exists(objectKey)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBlobNotFound
	}

	if _, err := s.client.Object.Delete(context.Background(), objectKey); err != nil {
		logger.Errorf("[腾讯云COS] 删除对象失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to delete blob from tencent cos: %w", err)
	}

	logger.Infof("[腾讯云COS] 成功删除对象: %s", objectKey)
	return nil
}

// Exists 检查对象是否存在
func (s *TencentStorage) Exists(objectKey string) (bool, error) {
	if _, err := s.client.Object.Head(context.Background(), objectKey, nil); err != nil {
		if cos.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check blob existence in tencent cos: %w", err)
	}
	return true, nil
}
