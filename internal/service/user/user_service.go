// Package service 提供用户注册和登录认证的业务逻辑
package service

import (
	stderrors "errors"
	"strings"

	"github.com/jbmillenial/file-share/internal/database"
	apperrors "github.com/jbmillenial/file-share/internal/errors"
	"github.com/jbmillenial/file-share/internal/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 用户服务接口
type UserService interface {
	// Register 注册新用户
	// 用户名和邮箱都必须唯一，邮箱统一转为小写存储；
	// 密码经bcrypt哈希后存储，明文不落库
	Register(username, email, password string) (*database.User, error)

	// Authenticate 用户名密码登录
	// 用户不存在和密码错误返回同一个错误，不泄露账号是否存在
	Authenticate(username, password string) (*database.User, error)

	// GetByID 按ID查找用户
	GetByID(id uint) (*database.User, error)
}

// userService 用户服务实现
type userService struct {
	db *gorm.DB
}

// NewUserService 创建用户服务实例
func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

// Register 注册新用户
func (s *userService) Register(username, email, password string) (*database.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	// 注册量级下先查后插足够，唯一索引兜底并发窗口
	var count int64
	if err := s.db.Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	if count > 0 {
		logger.Warnf("Registration rejected, email already in use: %s", email)
		return nil, apperrors.New(apperrors.ErrEmailAlreadyExists)
	}

	if err := s.db.Model(&database.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	if count > 0 {
		logger.Warnf("Registration rejected, username already in use: %s", username)
		return nil, apperrors.New(apperrors.ErrUsernameAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &database.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(user).Error; err != nil {
		logger.Errorf("Failed to create user %s: %v", username, err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseInsert, err)
	}

	logger.Infof("User registered: %s (id: %d)", username, user.ID)
	return user, nil
}

// Authenticate 用户名密码登录
func (s *userService) Authenticate(username, password string) (*database.User, error) {
	var user database.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			// 即使用户不存在也执行一次哈希比较，拉平响应时间
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uqJL1Zw0L0eGfrNqPvnQ1b1bIgyE5PS"), []byte(password))
			return nil, apperrors.New(apperrors.ErrInvalidCredentials)
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warnf("Failed login attempt for user: %s", username)
		return nil, apperrors.New(apperrors.ErrInvalidCredentials)
	}

	logger.Infof("User authenticated: %s (id: %d)", username, user.ID)
	return &user, nil
}

// GetByID 按ID查找用户
func (s *userService) GetByID(id uint) (*database.User, error) {
	var user database.User
	if err := s.db.First(&user, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrUserNotFound)
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return &user, nil
}
