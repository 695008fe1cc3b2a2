package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jbmillenial/file-share/config"
	"github.com/jbmillenial/file-share/internal/database"
	fileservice "github.com/jbmillenial/file-share/internal/service/file"
	"github.com/jbmillenial/file-share/internal/storage"
	"github.com/jbmillenial/file-share/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// shareTestEnv 分享下载接口测试环境
type shareTestEnv struct {
	router *gin.Engine
	files  fileservice.FileService
	db     *gorm.DB
}

func newShareTestEnv(t *testing.T) *shareTestEnv {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)

	blobs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	policy := validator.NewPolicy(config.UploadConfig{
		MaxFileSize:       10 * 1024 * 1024,
		AllowedExtensions: []string{"pdf", "txt"},
	})
	files := fileservice.NewFileService(db, blobs, policy)

	r := gin.New()
	r.GET("/s/:token", NewShareHandler(files).Download)

	return &shareTestEnv{router: r, files: files, db: db}
}

func (e *shareTestEnv) get(token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/s/"+token, nil)
	e.router.ServeHTTP(w, req)
	return w
}

func TestDownload_Success(t *testing.T) {
	env := newShareTestEnv(t)

	record, err := env.files.CreateUpload(1, "report.pdf", strings.NewReader("pdf bytes"), 9, 0)
	require.NoError(t, err)

	w := env.get(record.ShareToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf bytes", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="report.pdf"`)
}

func TestDownload_InvalidTokenReturns404(t *testing.T) {
	env := newShareTestEnv(t)

	w := env.get(uuid.New().String())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownload_ExpiredTokenReturns410(t *testing.T) {
	env := newShareTestEnv(t)

	record, err := env.files.CreateUpload(1, "report.pdf", strings.NewReader("x"), 1, 1)
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, env.db.Model(&database.UploadedFile{}).
		Where("id = ?", record.ID).Update("expires_at", past).Error)

	// 过期是410 Gone，与无效令牌的404是两种不同的状态
	w := env.get(record.ShareToken)
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestDownload_AnonymousAccessAllowed(t *testing.T) {
	env := newShareTestEnv(t)

	record, err := env.files.CreateUpload(1, "notes.txt", strings.NewReader("text"), 4, 0)
	require.NoError(t, err)

	// 无Cookie无任何凭证，仅凭令牌即可下载
	w := env.get(record.ShareToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text", w.Body.String())
}

func TestDownload_NonASCIIFilename(t *testing.T) {
	env := newShareTestEnv(t)

	record, err := env.files.CreateUpload(1, "年度报告.pdf", strings.NewReader("x"), 1, 0)
	require.NoError(t, err)

	w := env.get(record.ShareToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filename*=UTF-8''")
}
