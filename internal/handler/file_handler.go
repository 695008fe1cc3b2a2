package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jbmillenial/file-share/internal/database"
	apperrors "github.com/jbmillenial/file-share/internal/errors"
	"github.com/jbmillenial/file-share/internal/middleware"
	"github.com/jbmillenial/file-share/internal/response"
	fileservice "github.com/jbmillenial/file-share/internal/service/file"
)

// FileHandler 文件上传、列表、删除处理器
type FileHandler struct {
	files fileservice.FileService
}

// NewFileHandler 创建文件处理器实例
func NewFileHandler(files fileservice.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// FileInfo 文件信息响应
type FileInfo struct {
	ID               uint       `json:"id" example:"1"`
	OriginalFilename string     `json:"original_filename" example:"report.pdf"`
	FileSize         int64      `json:"file_size" example:"204800"`
	SizeMB           float64    `json:"size_mb" example:"0.2"`
	FileFormat       string     `json:"file_format" example:"pdf"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	IsExpired        bool       `json:"is_expired" example:"false"`
	ShareURL         string     `json:"share_url" example:"/s/550e8400-e29b-41d4-a716-446655440000"`
}

// FileListResponse 文件列表响应，按过期状态分组
type FileListResponse struct {
	Active  []FileInfo `json:"active"`
	Expired []FileInfo `json:"expired"`
}

// toFileInfo 把文件记录转换为对外的文件信息
func toFileInfo(f *database.UploadedFile, now time.Time) FileInfo {
	return FileInfo{
		ID:               f.ID,
		OriginalFilename: f.OriginalFilename,
		FileSize:         f.FileSize,
		SizeMB:           f.SizeInMB(),
		FileFormat:       f.FileFormat,
		UploadedAt:       f.UploadedAt,
		ExpiresAt:        f.ExpiresAt,
		IsExpired:        f.IsExpired(now),
		ShareURL:         "/s/" + f.ShareToken,
	}
}

// Upload 上传文件
// @Summary 上传文件
// @Description 上传文件并生成分享链接，可选设置过期天数
// @Tags 文件管理
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "文件内容"
// @Param expiry_days formData int false "过期天数，0或缺省表示永不过期"
// @Success 201 {object} response.Response{data=FileInfo} "上传成功"
// @Failure 400 {object} response.Response "文件超限或类型不允许"
// @Failure 401 {object} response.Response "未登录"
// @Router /api/v1/files [post]
func (h *FileHandler) Upload(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.ErrUnauthorized))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperrors.NewWithDetails(apperrors.ErrInvalidParams, "missing file field"))
		return
	}

	expiryDays := 0
	if raw := c.PostForm("expiry_days"); raw != "" {
		expiryDays, err = strconv.Atoi(raw)
		if err != nil || expiryDays < 0 {
			respondError(c, apperrors.NewWithDetails(apperrors.ErrInvalidParams, "expiry_days must be a non-negative integer"))
			return
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrFileUploadFailed, err))
		return
	}
	defer src.Close()

	record, err := h.files.CreateUpload(userID, fileHeader.Filename, src, fileHeader.Size, expiryDays)
	if err != nil {
		respondError(c, err)
		return
	}

	info := toFileInfo(record, time.Now())
	response.Created(c, "uploaded", info)
}

// List 文件列表
// @Summary 文件列表
// @Description 返回当前用户的全部文件，按上传时间降序，分为未过期和已过期两组
// @Tags 文件管理
// @Produce json
// @Success 200 {object} response.Response{data=FileListResponse} "文件列表"
// @Failure 401 {object} response.Response "未登录"
// @Router /api/v1/files [get]
func (h *FileHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.ErrUnauthorized))
		return
	}

	active, expired, err := h.files.ListByOwner(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	resp := FileListResponse{
		Active:  make([]FileInfo, 0, len(active)),
		Expired: make([]FileInfo, 0, len(expired)),
	}
	for i := range active {
		resp.Active = append(resp.Active, toFileInfo(&active[i], now))
	}
	for i := range expired {
		resp.Expired = append(resp.Expired, toFileInfo(&expired[i], now))
	}

	response.Success(c, resp)
}

// Delete 删除文件
// @Summary 删除文件
// @Description 删除当前用户的指定文件，文件内容和分享链接一并失效
// @Tags 文件管理
// @Produce json
// @Param id path int true "文件ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 404 {object} response.Response "文件不存在或无权访问"
// @Failure 401 {object} response.Response "未登录"
// @Router /api/v1/files/{id} [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.ErrUnauthorized))
		return
	}

	fileID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, apperrors.NewWithDetails(apperrors.ErrInvalidParams, "invalid file id"))
		return
	}

	if err := h.files.DeleteFile(userID, uint(fileID)); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "deleted", nil)
}

// Dashboard 仪表盘统计
// @Summary 仪表盘统计
// @Description 返回当前用户的文件数量和占用空间统计
// @Tags 文件管理
// @Produce json
// @Success 200 {object} response.Response{data=service.OwnerStats} "统计信息"
// @Failure 401 {object} response.Response "未登录"
// @Router /api/v1/dashboard [get]
func (h *FileHandler) Dashboard(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.ErrUnauthorized))
		return
	}

	stats, err := h.files.OwnerStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, stats)
}
