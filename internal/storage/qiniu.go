// 本文件实现基于七牛云Kodo对象存储的Blob存储后端
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jbmillenial/file-share/config"
	"github.com/jbmillenial/file-share/internal/logger"
	"github.com/qiniu/go-sdk/v7/auth/qbox"
	qiniustorage "github.com/qiniu/go-sdk/v7/storage"
)

// QiniuStorage 七牛云Kodo存储后端
type QiniuStorage struct {
	mac          *qbox.Mac            // 七牛云认证凭证
	bucketName   string               // 存储桶名称
	bucketDomain string               // 存储桶域名，用于生成私有下载链接
	region       *qiniustorage.Region // 存储区域信息
}

// NewQiniuStorage 创建七牛云Kodo存储实例
// 根据配置初始化认证凭证、区域和下载域名
func NewQiniuStorage(cfg config.StorageConfig) (*QiniuStorage, error) {
	mac := qbox.NewMac(cfg.AccessKey, cfg.SecretKey)

	region, err := qiniustorage.GetRegion(cfg.AccessKey, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get qiniu region: %w", err)
	}

	bucketDomain := cfg.Endpoint
	if bucketDomain == "" {
		bucketDomain = fmt.Sprintf("%s.%s", cfg.Bucket, region.RsHost)
	}

	logger.Infof("[七牛云Kodo] 存储后端初始化成功, 存储桶: %s, 域名: %s", cfg.Bucket, bucketDomain)
	return &QiniuStorage{
		mac:          mac,
		bucketName:   cfg.Bucket,
		bucketDomain: bucketDomain,
		region:       region,
	}, nil
}

// Put 上传对象到七牛云Kodo
func (s *QiniuStorage) Put(objectKey string, reader io.Reader, contentType string) error {
	putPolicy := qiniustorage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", s.bucketName, objectKey),
	}
	upToken := putPolicy.UploadToken(s.mac)

	cfg := qiniustorage.Config{
		Region:   s.region,
		UseHTTPS: true,
	}

	formUploader := qiniustorage.NewFormUploader(&cfg)
	ret := qiniustorage.PutRet{}
	putExtra := qiniustorage.PutExtra{}
	if contentType != "" {
		putExtra.MimeType = contentType
	}

	if err := formUploader.Put(context.Background(), &ret, upToken, objectKey, reader, -1, &putExtra); err != nil {
		logger.Errorf("[七牛云Kodo] 上传对象失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload blob to qiniu kodo: %w", err)
	}

	logger.Infof("[七牛云Kodo] 成功上传对象: %s, 哈希: %s", objectKey, ret.Hash)
	return nil
}

// Get 从七牛云Kodo下载对象
// 生成私有下载链接并返回内容流
func (s *QiniuStorage) Get(objectKey string) (io.ReadCloser, error) {
	exists, err := s.Exists(objectKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrBlobNotFound
	}

	deadline := time.Now().Add(time.Hour).Unix()
	privateURL := qiniustorage.MakePrivateURL(s.mac, s.bucketDomain, objectKey, deadline)

	resp, err := http.Get(privateURL)
	if err != nil {
		logger.Errorf("[七牛云Kodo] 下载对象失败, 对象键: %s, 错误: %v", objectKey, err)
		return nil, fmt.Errorf("failed to download blob from qiniu kodo: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to download blob, status: %s", resp.Status)
	}

	return resp.Body, nil
}

// Delete 删除七牛云Kodo对象
func (s *QiniuStorage) Delete(objectKey string) error {
	exists, err := s.Exists(objectKey)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBlobNotFound
	}

	bucketManager := qiniustorage.NewBucketManager(s.mac, &qiniustorage.Config{
		Region: s.region,
	})

	if err := bucketManager.Delete(s.bucketName, objectKey); err != nil {
		logger.Errorf("[七牛云Kodo] 删除对象失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to delete blob from qiniu kodo: %w", err)
	}

	logger.Infof("[七牛云Kodo] 成功删除对象: %s", objectKey)
	return nil
}

// Exists 检查对象是否存在
func (s *QiniuStorage) Exists(objectKey string) (bool, error) {
	bucketManager := qiniustorage.NewBucketManager(s.mac, &qiniustorage.Config{
		Region: s.region,
	})

	if _, err := bucketManager.Stat(s.bucketName, objectKey); err != nil {
		if strings.Contains(err.Error(), "no such file or directory") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check blob existence in qiniu kodo: %w", err)
	}
	return true, nil
}
