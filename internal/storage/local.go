// 本文件实现基于本地文件系统的Blob存储后端
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jbmillenial/file-share/internal/logger"
)

// LocalStorage 本地文件系统存储
// 对象以objectKey为文件名平铺存放在根目录下
type LocalStorage struct {
	root string // 存储根目录
}

// NewLocalStorage 创建本地存储实例，根目录不存在时自动创建
func NewLocalStorage(root string) (*LocalStorage, error) {
	if root == "" {
		root = "data/blobs"
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", root, err)
	}
	logger.Infof("本地Blob存储初始化完成, 根目录: %s", root)
	return &LocalStorage{root: root}, nil
}

// Put 写入对象
// 先写入同目录下的临时文件再重命名到最终位置，避免出现写了一半的对象
func (s *LocalStorage) Put(objectKey string, reader io.Reader, contentType string) error {
	finalPath := s.path(objectKey)

	tempFile, err := os.CreateTemp(s.root, "put_*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := io.Copy(tempFile, reader); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write blob data: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move blob to final path: %w", err)
	}

	logger.Infof("本地存储写入对象成功: %s", objectKey)
	return nil
}

// Get 读取对象内容流
func (s *LocalStorage) Get(objectKey string) (io.ReadCloser, error) {
	file, err := os.Open(s.path(objectKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return file, nil
}

// Delete 删除对象
func (s *LocalStorage) Delete(objectKey string) error {
	if err := os.Remove(s.path(objectKey)); err != nil {
		if os.IsNotExist(err) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	logger.Infof("本地存储删除对象成功: %s", objectKey)
	return nil
}

// Exists 检查对象是否存在
func (s *LocalStorage) Exists(objectKey string) (bool, error) {
	if _, err := os.Stat(s.path(objectKey)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat blob: %w", err)
	}
	return true, nil
}

// path 计算对象的绝对路径
// objectKey由服务层生成（UUID+扩展名），取Base防止路径穿越
func (s *LocalStorage) path(objectKey string) string {
	return filepath.Join(s.root, filepath.Base(objectKey))
}
