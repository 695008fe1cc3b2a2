package validator

import (
	"testing"

	"github.com/jbmillenial/file-share/config"
	apperrors "github.com/jbmillenial/file-share/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() Policy {
	return NewPolicy(config.UploadConfig{
		MaxFileSize:       10 * 1024 * 1024,
		AllowedExtensions: []string{"pdf", "txt", "jpg", "zip"},
	})
}

func TestValidate_AcceptsFileWithinPolicy(t *testing.T) {
	p := testPolicy()

	assert.Nil(t, p.Validate("report.pdf", 1024))
	assert.Nil(t, p.Validate("notes.txt", 10*1024*1024)) // 正好等于上限
}

func TestValidateSize_RejectsOversizedFile(t *testing.T) {
	p := testPolicy()

	err := p.Validate("report.pdf", 10*1024*1024+1)
	require.NotNil(t, err)
	assert.Equal(t, apperrors.ErrFileSizeTooLarge, err.Code)
	assert.Contains(t, err.Details, "10.00MB")
}

func TestValidateExtension_RejectsUnknownType(t *testing.T) {
	p := testPolicy()

	err := p.Validate("malware.exe", 1024)
	require.NotNil(t, err)
	assert.Equal(t, apperrors.ErrFileTypeNotAllowed, err.Code)
	assert.Contains(t, err.Details, ".exe")
}

func TestValidateExtension_RejectsMissingExtension(t *testing.T) {
	p := testPolicy()

	err := p.Validate("README", 1024)
	require.NotNil(t, err)
	assert.Equal(t, apperrors.ErrFileTypeNotAllowed, err.Code)
}

func TestValidateExtension_CaseInsensitive(t *testing.T) {
	p := testPolicy()

	assert.Nil(t, p.Validate("PHOTO.JPG", 1024))
	assert.Nil(t, p.Validate("Archive.ZIP", 1024))
}

func TestValidate_SizeCheckedBeforeExtension(t *testing.T) {
	p := testPolicy()

	// 大小和扩展名都不合法时优先报大小错误
	err := p.Validate("malware.exe", 100*1024*1024)
	require.NotNil(t, err)
	assert.Equal(t, apperrors.ErrFileSizeTooLarge, err.Code)
}

func TestNewPolicy_NormalizesExtensions(t *testing.T) {
	p := NewPolicy(config.UploadConfig{
		MaxFileSize:       1024,
		AllowedExtensions: []string{".PDF", "pdf", "Txt"},
	})

	// 去重且统一小写，保持配置顺序
	assert.Equal(t, []string{"pdf", "txt"}, p.AllowedExtensions())
	assert.Nil(t, p.ValidateExtension("a.pdf"))
	assert.Nil(t, p.ValidateExtension("b.txt"))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "pdf", Extension("report.pdf"))
	assert.Equal(t, "gz", Extension("archive.tar.gz"))
	assert.Equal(t, "jpg", Extension("PHOTO.JPG"))
	assert.Equal(t, "", Extension("README"))
	assert.Equal(t, "", Extension(""))
}
