package service

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jbmillenial/file-share/config"
	"github.com/jbmillenial/file-share/internal/database"
	apperrors "github.com/jbmillenial/file-share/internal/errors"
	"github.com/jbmillenial/file-share/internal/storage"
	"github.com/jbmillenial/file-share/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testMaxFileSize = 10 * 1024 * 1024

// testEnv 文件服务测试环境
type testEnv struct {
	svc      *fileService
	db       *gorm.DB
	blobs    storage.BlobStorage
	blobRoot string
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)

	blobRoot := t.TempDir()
	blobs, err := storage.NewLocalStorage(blobRoot)
	require.NoError(t, err)

	policy := validator.NewPolicy(config.UploadConfig{
		MaxFileSize:       testMaxFileSize,
		AllowedExtensions: []string{"pdf", "txt", "jpg", "zip"},
	})

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc := &fileService{
		db:     db,
		blobs:  blobs,
		policy: policy,
		now:    func() time.Time { return now },
	}

	return &testEnv{svc: svc, db: db, blobs: blobs, blobRoot: blobRoot, now: now}
}

// blobCount 统计存储根目录下的对象个数
func (e *testEnv) blobCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(e.blobRoot)
	require.NoError(t, err)
	return len(entries)
}

func (e *testEnv) recordCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&database.UploadedFile{}).Count(&count).Error)
	return count
}

func (e *testEnv) upload(t *testing.T, ownerID uint, filename, content string, expiryDays int) *database.UploadedFile {
	t.Helper()
	record, err := e.svc.CreateUpload(ownerID, filename, strings.NewReader(content), int64(len(content)), expiryDays)
	require.NoError(t, err)
	return record
}

func TestCreateUpload_Success(t *testing.T) {
	env := newTestEnv(t)

	record := env.upload(t, 1, "report.pdf", "pdf content", 0)

	assert.Equal(t, uint(1), record.OwnerID)
	assert.Equal(t, "report.pdf", record.OriginalFilename)
	assert.Equal(t, int64(len("pdf content")), record.FileSize)
	assert.Equal(t, "pdf", record.FileFormat)
	assert.Equal(t, env.now, record.UploadedAt.UTC())
	assert.Nil(t, record.ExpiresAt)

	// 分享令牌是合法UUID，存储键与令牌相互独立
	_, err := uuid.Parse(record.ShareToken)
	assert.NoError(t, err)
	assert.NotEqual(t, record.ShareToken, record.StorageKey)

	// Blob确实落盘且内容完整
	rc, err := env.blobs.Get(record.StorageKey)
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "pdf content", string(data))
}

func TestCreateUpload_ExpiryComputedFromDays(t *testing.T) {
	env := newTestEnv(t)

	record := env.upload(t, 1, "report.pdf", "x", 7)

	require.NotNil(t, record.ExpiresAt)
	assert.Equal(t, env.now.AddDate(0, 0, 7), record.ExpiresAt.UTC())
}

func TestCreateUpload_ZeroDaysMeansNoExpiry(t *testing.T) {
	env := newTestEnv(t)

	assert.Nil(t, env.upload(t, 1, "a.txt", "x", 0).ExpiresAt)
	assert.Nil(t, env.upload(t, 1, "b.txt", "x", -1).ExpiresAt)
}

func TestCreateUpload_RejectsOversizedDeclaration(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateUpload(1, "big.pdf", strings.NewReader("x"), testMaxFileSize+1, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrFileSizeTooLarge))

	// 校验失败无任何副作用
	assert.Equal(t, 0, env.blobCount(t))
	assert.Equal(t, int64(0), env.recordCount(t))
}

func TestCreateUpload_RejectsDisallowedType(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateUpload(1, "malware.exe", strings.NewReader("x"), 1, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrFileTypeNotAllowed))
	assert.Equal(t, 0, env.blobCount(t))
	assert.Equal(t, int64(0), env.recordCount(t))
}

func TestCreateUpload_StreamedSizeRecheck(t *testing.T) {
	env := newTestEnv(t)

	// 申报大小合法但实际字节流超限：落库前被二次校验拦下，已写入的Blob被清理
	oversized := strings.NewReader(strings.Repeat("a", testMaxFileSize+1))
	_, err := env.svc.CreateUpload(1, "liar.txt", oversized, 1024, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrFileSizeTooLarge))

	assert.Equal(t, 0, env.blobCount(t))
	assert.Equal(t, int64(0), env.recordCount(t))
}

func TestCreateUpload_TokensAreUnique(t *testing.T) {
	env := newTestEnv(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		record := env.upload(t, 1, "doc.txt", "content", 0)
		assert.False(t, seen[record.ShareToken], "duplicate token %s", record.ShareToken)
		seen[record.ShareToken] = true
	}
}

func TestListByOwner_PartitionsByExpiry(t *testing.T) {
	env := newTestEnv(t)

	fresh := env.upload(t, 1, "fresh.txt", "x", 7)
	forever := env.upload(t, 1, "forever.txt", "x", 0)
	stale := env.upload(t, 1, "stale.txt", "x", 1)

	// 把stale的过期时间改到过去
	past := env.now.Add(-time.Hour)
	require.NoError(t, env.db.Model(stale).Update("expires_at", past).Error)

	active, expired, err := env.svc.ListByOwner(1)
	require.NoError(t, err)

	require.Len(t, active, 2)
	require.Len(t, expired, 1)
	assert.Equal(t, "stale.txt", expired[0].OriginalFilename)

	names := []string{active[0].OriginalFilename, active[1].OriginalFilename}
	assert.Contains(t, names, fresh.OriginalFilename)
	assert.Contains(t, names, forever.OriginalFilename)
}

func TestListByOwner_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)

	env.upload(t, 1, "mine.txt", "x", 0)
	env.upload(t, 2, "theirs.txt", "x", 0)

	active, expired, err := env.svc.ListByOwner(1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Empty(t, expired)
	assert.Equal(t, "mine.txt", active[0].OriginalFilename)
}

func TestDeleteFile_RemovesRecordAndBlob(t *testing.T) {
	env := newTestEnv(t)

	record := env.upload(t, 1, "doc.txt", "x", 0)
	require.NoError(t, env.svc.DeleteFile(1, record.ID))

	// 记录和Blob都不在了
	active, expired, err := env.svc.ListByOwner(1)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Empty(t, expired)
	assert.Equal(t, 0, env.blobCount(t))

	// 删除后分享令牌随之失效
	_, err = env.svc.ResolveShareToken(record.ShareToken)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrShareInvalid))
}

func TestDeleteFile_NonOwnerIndistinguishableFromMissing(t *testing.T) {
	env := newTestEnv(t)

	record := env.upload(t, 1, "doc.txt", "x", 0)

	// 别人的文件和不存在的文件返回完全相同的错误
	errForeign := env.svc.DeleteFile(2, record.ID)
	errMissing := env.svc.DeleteFile(2, 99999)

	require.Error(t, errForeign)
	require.Error(t, errMissing)
	assert.True(t, apperrors.IsCode(errForeign, apperrors.ErrFileNotFound))
	assert.True(t, apperrors.IsCode(errMissing, apperrors.ErrFileNotFound))
	assert.Equal(t, errForeign.Error(), errMissing.Error())

	// 文件毫发无损
	assert.Equal(t, int64(1), env.recordCount(t))
	assert.Equal(t, 1, env.blobCount(t))
}

func TestDeleteFile_MissingBlobTreatedAsDeleted(t *testing.T) {
	env := newTestEnv(t)

	record := env.upload(t, 1, "doc.txt", "x", 0)
	require.NoError(t, env.blobs.Delete(record.StorageKey))

	// Blob已不在不阻止记录删除
	require.NoError(t, env.svc.DeleteFile(1, record.ID))
	active, _, err := env.svc.ListByOwner(1)
	require.NoError(t, err)
	assert.Empty(t, active)
}

// failingDeleteStorage 包装存储并让Delete固定失败
type failingDeleteStorage struct {
	storage.BlobStorage
}

func (f *failingDeleteStorage) Delete(objectKey string) error {
	return assert.AnError
}

func TestDeleteFile_BlobFailureKeepsRecord(t *testing.T) {
	env := newTestEnv(t)

	record := env.upload(t, 1, "doc.txt", "x", 0)

	env.svc.blobs = &failingDeleteStorage{BlobStorage: env.blobs}
	err := env.svc.DeleteFile(1, record.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrFileDeleteFailed))

	// 记录保留，列表里仍然可见
	assert.Equal(t, int64(1), env.recordCount(t))
}

func TestResolveShareToken(t *testing.T) {
	env := newTestEnv(t)

	record := env.upload(t, 1, "doc.txt", "x", 0)

	found, err := env.svc.ResolveShareToken(record.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)

	_, err = env.svc.ResolveShareToken("")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrShareInvalid))

	_, err = env.svc.ResolveShareToken(uuid.New().String())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrShareInvalid))
}

func TestResolveShareToken_ExpiredStillResolves(t *testing.T) {
	env := newTestEnv(t)

	record := env.upload(t, 1, "doc.txt", "x", 1)
	past := env.now.Add(-time.Hour)
	require.NoError(t, env.db.Model(record).Update("expires_at", past).Error)

	// 解析不做过期检查，过期的记录照常返回
	found, err := env.svc.ResolveShareToken(record.ShareToken)
	require.NoError(t, err)
	assert.True(t, found.IsExpired(env.now))
}

func TestOpenSharedContent_StreamsFile(t *testing.T) {
	env := newTestEnv(t)

	record := env.upload(t, 1, "doc.txt", "shared content", 7)

	found, rc, err := env.svc.OpenSharedContent(record.ShareToken)
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, record.ID, found.ID)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "shared content", string(data))
}

func TestOpenSharedContent_ExpiredVsInvalid(t *testing.T) {
	env := newTestEnv(t)

	record := env.upload(t, 1, "doc.txt", "x", 1)
	past := env.now.Add(-time.Hour)
	require.NoError(t, env.db.Model(record).Update("expires_at", past).Error)

	// 过期和无效是两种不同的错误
	_, _, err := env.svc.OpenSharedContent(record.ShareToken)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrShareExpired))

	_, _, err = env.svc.OpenSharedContent(uuid.New().String())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrShareInvalid))
}

func TestOwnerStats(t *testing.T) {
	env := newTestEnv(t)

	env.upload(t, 1, "a.txt", strings.Repeat("x", 1024*1024), 0)
	stale := env.upload(t, 1, "b.txt", strings.Repeat("y", 512*1024), 1)
	env.upload(t, 2, "other.txt", "z", 0)

	past := env.now.Add(-time.Hour)
	require.NoError(t, env.db.Model(stale).Update("expires_at", past).Error)

	stats, err := env.svc.OwnerStats(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalFiles)
	assert.Equal(t, int64(1), stats.ActiveFiles)
	assert.InDelta(t, 1.5, stats.TotalSizeMB, 0.01)
}
