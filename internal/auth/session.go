// Package auth 提供基于加密Cookie的会话管理
// 会话数据经AES-256-GCM加密后存放在浏览器Cookie中，服务端不保存会话状态
package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName 会话Cookie名称
const SessionCookieName = "fileshare_session"

// SessionMaxAge 会话Cookie最大有效期（24小时）
const SessionMaxAge = 24 * 60 * 60

// ErrSessionInvalid 会话不存在、已过期或被篡改
var ErrSessionInvalid = errors.New("session invalid")

// SessionData 会话数据，加密后存放在Cookie中
type SessionData struct {
	// UserID 已登录用户的ID
	UserID uint `json:"user_id"`
	// Username 用户名，用于展示
	Username string `json:"username"`
	// ExpiresAt 会话过期时间（Unix时间戳）
	ExpiresAt int64 `json:"expires_at"`
}

// IsExpired 检查会话是否已过期
func (s *SessionData) IsExpired() bool {
	return time.Now().Unix() >= s.ExpiresAt
}

// SessionManager 会话管理器
// 负责SessionData与HTTP Cookie之间的加解密转换
type SessionManager struct {
	gcm    cipher.AEAD // AEAD cipher
	secure bool        // Cookie是否仅通过HTTPS传输
}

// NewSessionManager 创建会话管理器
// 参数:
//   - key: base64编码的32字节密钥；为空时随机生成（重启后现有会话全部失效）
//   - secure: 是否为Cookie设置Secure标志
func NewSessionManager(key string, secure bool) (*SessionManager, error) {
	var keyBytes []byte

	if key == "" {
		keyBytes = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, keyBytes); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
	} else {
		var err error
		keyBytes, err = base64.StdEncoding.DecodeString(key)
		if err != nil || len(keyBytes) != 32 {
			// 非base64或长度不符时，用SHA-256把任意字符串拉伸成32字节
			sum := sha256.Sum256([]byte(key))
			keyBytes = sum[:]
		}
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &SessionManager{
		gcm:    gcm,
		secure: secure,
	}, nil
}

// Encrypt 加密会话数据并返回base64字符串
func (sm *SessionManager) Encrypt(data *SessionData) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session data: %w", err)
	}

	// 每次加密生成唯一nonce，并前置到密文
	nonce := make([]byte, sm.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := sm.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

// Decrypt 解密base64字符串恢复会话数据
// 密文被篡改时GCM认证失败，返回ErrSessionInvalid
func (sm *SessionManager) Decrypt(encrypted string) (*SessionData, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	nonceSize := sm.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrSessionInvalid
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := sm.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	var data SessionData
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, ErrSessionInvalid
	}

	return &data, nil
}

// SetSession 为已登录用户写入会话Cookie
func (sm *SessionManager) SetSession(c *gin.Context, userID uint, username string) error {
	data := &SessionData{
		UserID:    userID,
		Username:  username,
		ExpiresAt: time.Now().Add(SessionMaxAge * time.Second).Unix(),
	}

	encrypted, err := sm.Encrypt(data)
	if err != nil {
		return err
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    encrypted,
		Path:     "/",
		MaxAge:   SessionMaxAge,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// GetSession 从请求Cookie中读取并验证会话
func (sm *SessionManager) GetSession(c *gin.Context) (*SessionData, error) {
	cookie, err := c.Request.Cookie(SessionCookieName)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	data, err := sm.Decrypt(cookie.Value)
	if err != nil {
		return nil, err
	}

	if data.IsExpired() {
		return nil, ErrSessionInvalid
	}

	return data, nil
}

// ClearSession 清除会话Cookie（登出）
func (sm *SessionManager) ClearSession(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
