// Package service 提供上传文件生命周期管理和访问控制的业务逻辑
// 上传流程：策略校验 → 过期时间计算 → 写入Blob存储 → 生成分享令牌 → 落库
// 每一步都是后一步的前置条件，落库失败时回删已写入的Blob（本地补偿，而非分布式事务）
package service

import (
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"time"

	"github.com/google/uuid"
	"github.com/jbmillenial/file-share/internal/database"
	apperrors "github.com/jbmillenial/file-share/internal/errors"
	"github.com/jbmillenial/file-share/internal/logger"
	"github.com/jbmillenial/file-share/internal/storage"
	"github.com/jbmillenial/file-share/internal/validator"
	"gorm.io/gorm"
)

// 令牌冲突时的最大重试次数
// UUID v4的随机空间足够大，实际几乎不可能用完重试次数
const maxTokenAttempts = 5

// OwnerStats 单个用户的文件统计信息（仪表盘展示用）
type OwnerStats struct {
	TotalFiles  int64   `json:"total_files"`   // 文件总数
	ActiveFiles int64   `json:"active_files"`  // 未过期文件数
	TotalSizeMB float64 `json:"total_size_mb"` // 占用空间（MB）
}

// FileService 文件服务接口
// 提供上传、列表、删除以及分享链接解析等核心能力，所有读写操作都以owner维度做访问控制
type FileService interface {
	// CreateUpload 处理一次完整的文件上传
	// 参数:
	//   ownerID - 上传者用户ID
	//   filename - 原始文件名
	//   data - 文件内容流（流式写入存储，不整体缓冲）
	//   declaredSize - 请求申报的文件大小（字节）
	//   expiryDays - 过期天数，大于0时计算expires_at，否则永不过期
	// 返回:
	//   *database.UploadedFile - 创建成功的文件记录
	//   error - 校验失败、存储失败或落库失败
	// 约束:
	//   - 校验失败时不产生任何存储或记录副作用
	//   - 落库失败时已写入的Blob会被补偿删除
	CreateUpload(ownerID uint, filename string, data io.Reader, declaredSize int64, expiryDays int) (*database.UploadedFile, error)

	// ListByOwner 获取指定用户的全部文件
	// 按uploaded_at降序排列，并以当前时间划分为未过期/已过期两组
	ListByOwner(ownerID uint) (active, expired []database.UploadedFile, err error)

	// DeleteFile 删除指定用户的指定文件（元数据记录和Blob都删除）
	// 记录不存在和记录不属于该用户返回同一个错误，不泄露他人文件的存在性；
	// Blob删除失败时记录保留并返回独立的删除失败错误
	DeleteFile(ownerID uint, fileID uint) error

	// ResolveShareToken 按分享令牌精确查找文件记录
	// 令牌区分大小写；查不到时返回ErrShareInvalid。
	// 注意此方法不做过期检查，过期的记录同样返回
	ResolveShareToken(token string) (*database.UploadedFile, error)

	// OpenSharedContent 匿名分享下载入口
	// 解析令牌并做过期检查，通过后返回记录和内容流（调用者负责关闭）。
	// 令牌无效和链接过期是两种不同的错误
	OpenSharedContent(token string) (*database.UploadedFile, io.ReadCloser, error)

	// OwnerStats 统计指定用户的文件数量和占用空间
	OwnerStats(ownerID uint) (*OwnerStats, error)
}

// fileService 文件服务实现
type fileService struct {
	db     *gorm.DB            // 元数据记录存储
	blobs  storage.BlobStorage // Blob存储适配器
	policy validator.Policy    // 上传策略
	now    func() time.Time    // 时钟，便于测试注入
}

// NewFileService 创建文件服务实例
// 记录存储和Blob存储通过参数显式注入，服务自身不持有任何全局状态
func NewFileService(db *gorm.DB, blobs storage.BlobStorage, policy validator.Policy) FileService {
	return &fileService{
		db:     db,
		blobs:  blobs,
		policy: policy,
		now:    time.Now,
	}
}

// countingReader 包装Reader并统计读取的字节数
// 用于在流式写入存储的同时获得实际文件大小
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// CreateUpload 处理一次完整的文件上传
func (s *fileService) CreateUpload(ownerID uint, filename string, data io.Reader, declaredSize int64, expiryDays int) (*database.UploadedFile, error) {
	logger.Infof("Starting file upload: %s (owner: %d, declared size: %d)", filename, ownerID, declaredSize)

	// 第一步：策略校验，失败时直接中止，无任何副作用
	if err := s.policy.Validate(filename, declaredSize); err != nil {
		logger.Warnf("Upload rejected by policy: %s, reason: %v", filename, err)
		return nil, err
	}

	// 第二步：计算过期时间，expiryDays<=0表示永不过期
	var expiresAt *time.Time
	if expiryDays > 0 {
		t := s.now().AddDate(0, 0, expiryDays)
		expiresAt = &t
		logger.Infof("File %s will expire at %s (%d days)", filename, t.Format(time.RFC3339), expiryDays)
	}

	// 第三步：流式写入Blob存储
	// 存储键用UUID+小写扩展名，防止多租户文件名冲突（与分享令牌相互独立）
	ext := validator.Extension(filename)
	storageKey := uuid.New().String() + "." + ext
	contentType := mime.TypeByExtension("." + ext)

	counter := &countingReader{r: io.LimitReader(data, s.policy.MaxFileSize()+1)}
	if err := s.blobs.Put(storageKey, counter, contentType); err != nil {
		logger.Errorf("Failed to write blob for %s: %v", filename, err)
		return nil, apperrors.Wrap(apperrors.ErrStoragePut, err)
	}

	// 落库前的第二道大小校验：以实际写入的字节数为准
	// 申报大小可以伪造，LimitReader保证超限的流最多多写一个字节就被截断
	if err := s.policy.ValidateSize(counter.n); err != nil {
		logger.Warnf("Streamed size %d of %s exceeds cap, removing blob %s", counter.n, filename, storageKey)
		s.compensateBlob(storageKey)
		return nil, err
	}

	// 第四步：生成全局唯一的分享令牌
	token, err := s.generateShareToken()
	if err != nil {
		s.compensateBlob(storageKey)
		return nil, err
	}

	// 第五步：持久化文件记录
	record := &database.UploadedFile{
		OwnerID:          ownerID,
		OriginalFilename: filename,
		StorageKey:       storageKey,
		FileSize:         counter.n,
		FileFormat:       ext,
		UploadedAt:       s.now(),
		ExpiresAt:        expiresAt,
		ShareToken:       token,
	}

	if err := s.db.Create(record).Error; err != nil {
		// 落库失败，补偿删除已写入的Blob，避免孤儿对象
		logger.Errorf("Failed to persist record for %s, cleaning up blob %s: %v", filename, storageKey, err)
		s.compensateBlob(storageKey)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseInsert, err)
	}

	logger.Infof("File upload completed: %s (id: %d, token: %s, size: %d)", filename, record.ID, token, counter.n)
	return record, nil
}

// generateShareToken 生成全局唯一的分享令牌
// 采用UUID v4（crypto/rand随机源），并对存储做冲突检查，冲突时重新生成。
// 检查使用Unscoped查询：已软删除记录的令牌同样被占用，令牌永不重新分配
func (s *fileService) generateShareToken() (string, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token := uuid.New().String()

		var count int64
		if err := s.db.Unscoped().Model(&database.UploadedFile{}).
			Where("share_token = ?", token).Count(&count).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
		}
		if count == 0 {
			return token, nil
		}

		logger.Warnf("Share token collision on attempt %d, regenerating", attempt+1)
	}

	// 理论上不可达；冲突错误只在内部使用，边界处呈现为通用上传失败
	return "", apperrors.New(apperrors.ErrShareTokenCollision)
}

// compensateBlob 补偿删除Blob，失败时只记录不再上抛
// 留下孤儿对象好过让用户看到二次错误，不一致通过日志暴露给运维
func (s *fileService) compensateBlob(storageKey string) {
	if err := s.blobs.Delete(storageKey); err != nil && !stderrors.Is(err, storage.ErrBlobNotFound) {
		logger.Errorf("INCONSISTENCY: orphaned blob %s could not be cleaned up: %v", storageKey, err)
	}
}

// ListByOwner 获取指定用户的全部文件并按过期状态分组
func (s *fileService) ListByOwner(ownerID uint) ([]database.UploadedFile, []database.UploadedFile, error) {
	var files []database.UploadedFile
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("uploaded_at DESC").Find(&files).Error; err != nil {
		logger.Errorf("Failed to list files for owner %d: %v", ownerID, err)
		return nil, nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	now := s.now()
	active := make([]database.UploadedFile, 0, len(files))
	expired := make([]database.UploadedFile, 0)
	for _, f := range files {
		if f.IsExpired(now) {
			expired = append(expired, f)
		} else {
			active = append(active, f)
		}
	}

	logger.Infof("Listed %d files for owner %d (%d active, %d expired)", len(files), ownerID, len(active), len(expired))
	return active, expired, nil
}

// DeleteFile 删除指定用户的指定文件
// 查询条件同时带id和owner_id：属主检查而非单纯的存在性检查
func (s *fileService) DeleteFile(ownerID uint, fileID uint) error {
	logger.Infof("Starting file deletion: id=%d, owner=%d", fileID, ownerID)

	var record database.UploadedFile
	if err := s.db.Where("id = ? AND owner_id = ?", fileID, ownerID).First(&record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			// 不存在和不属于当前用户故意返回同一个错误
			return apperrors.New(apperrors.ErrFileNotFound)
		}
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	// 先删Blob再删记录：Blob删除失败时保留记录并报独立错误，
	// 不允许静默产生无主Blob；Blob已不存在视为删除成功
	if err := s.blobs.Delete(record.StorageKey); err != nil && !stderrors.Is(err, storage.ErrBlobNotFound) {
		logger.Errorf("Failed to delete blob %s for file %d, record kept: %v", record.StorageKey, fileID, err)
		return apperrors.Wrap(apperrors.ErrFileDeleteFailed, err)
	}

	if err := s.db.Delete(&record).Error; err != nil {
		logger.Errorf("INCONSISTENCY: blob %s deleted but record %d remains: %v", record.StorageKey, fileID, err)
		return apperrors.Wrap(apperrors.ErrDatabaseDelete, err)
	}

	logger.Infof("File deletion completed: id=%d (%s)", fileID, record.OriginalFilename)
	return nil
}

// ResolveShareToken 按分享令牌精确查找文件记录
func (s *fileService) ResolveShareToken(token string) (*database.UploadedFile, error) {
	if token == "" {
		return nil, apperrors.New(apperrors.ErrShareInvalid)
	}

	var record database.UploadedFile
	if err := s.db.Where("share_token = ?", token).First(&record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrShareInvalid)
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	return &record, nil
}

// OpenSharedContent 匿名分享下载入口
// 匿名访问完全绕过属主检查，但过期检查仍然生效
func (s *fileService) OpenSharedContent(token string) (*database.UploadedFile, io.ReadCloser, error) {
	record, err := s.ResolveShareToken(token)
	if err != nil {
		return nil, nil, err
	}

	if record.IsExpired(s.now()) {
		logger.Infof("Share link expired for file %d (token: %s)", record.ID, token)
		return record, nil, apperrors.New(apperrors.ErrShareExpired)
	}

	content, err := s.blobs.Get(record.StorageKey)
	if err != nil {
		logger.Errorf("Failed to read blob %s for shared file %d: %v", record.StorageKey, record.ID, err)
		return record, nil, apperrors.Wrap(apperrors.ErrStorageGet, err)
	}

	return record, content, nil
}

// OwnerStats 统计指定用户的文件数量和占用空间
func (s *fileService) OwnerStats(ownerID uint) (*OwnerStats, error) {
	var stats struct {
		TotalFiles int64
		TotalSize  int64
	}
	if err := s.db.Model(&database.UploadedFile{}).
		Select("COUNT(*) as total_files, COALESCE(SUM(file_size), 0) as total_size").
		Where("owner_id = ?", ownerID).
		Scan(&stats).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	var activeFiles int64
	now := s.now()
	if err := s.db.Model(&database.UploadedFile{}).
		Where("owner_id = ? AND (expires_at IS NULL OR expires_at >= ?)", ownerID, now).
		Count(&activeFiles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	totalMB := float64(stats.TotalSize) / (1024 * 1024)
	return &OwnerStats{
		TotalFiles:  stats.TotalFiles,
		ActiveFiles: activeFiles,
		TotalSizeMB: float64(int64(totalMB*100+0.5)) / 100,
	}, nil
}

// 确保countingReader实现io.Reader
var _ io.Reader = (*countingReader)(nil)

// String 便于日志排查的统计信息文本
func (st *OwnerStats) String() string {
	return fmt.Sprintf("files=%d active=%d size=%.2fMB", st.TotalFiles, st.ActiveFiles, st.TotalSizeMB)
}
