package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestManager(t *testing.T) *SessionManager {
	sm, err := NewSessionManager("", false)
	require.NoError(t, err)
	return sm
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	sm := newTestManager(t)

	data := &SessionData{
		UserID:    42,
		Username:  "alice",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	encrypted, err := sm.Encrypt(data)
	require.NoError(t, err)
	assert.NotContains(t, encrypted, "alice") // 明文不可见

	decrypted, err := sm.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, uint(42), decrypted.UserID)
	assert.Equal(t, "alice", decrypted.Username)
}

func TestDecrypt_RejectsTamperedCiphertext(t *testing.T) {
	sm := newTestManager(t)

	encrypted, err := sm.Encrypt(&SessionData{UserID: 1, ExpiresAt: time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(encrypted)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.URLEncoding.EncodeToString(raw)

	_, err = sm.Decrypt(tampered)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestDecrypt_RejectsGarbage(t *testing.T) {
	sm := newTestManager(t)

	_, err := sm.Decrypt("not-base64!!!")
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, err = sm.Decrypt(base64.URLEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestDecrypt_DifferentKeyFails(t *testing.T) {
	sm1 := newTestManager(t)
	sm2 := newTestManager(t)

	encrypted, err := sm1.Encrypt(&SessionData{UserID: 1, ExpiresAt: time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	_, err = sm2.Decrypt(encrypted)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestNewSessionManager_StretchesArbitraryKey(t *testing.T) {
	// 任意字符串密钥经SHA-256拉伸，同一密钥的两个实例可以互相解密
	sm1, err := NewSessionManager("my-secret-passphrase", false)
	require.NoError(t, err)
	sm2, err := NewSessionManager("my-secret-passphrase", false)
	require.NoError(t, err)

	encrypted, err := sm1.Encrypt(&SessionData{UserID: 7, ExpiresAt: time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	data, err := sm2.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, uint(7), data.UserID)
}

func TestSetAndGetSession(t *testing.T) {
	sm := newTestManager(t)

	// 写Cookie
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, sm.SetSession(c, 42, "alice"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	// 带Cookie的后续请求可恢复会话
	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/files", nil)
	c2.Request.AddCookie(cookie)

	session, err := sm.GetSession(c2)
	require.NoError(t, err)
	assert.Equal(t, uint(42), session.UserID)
	assert.Equal(t, "alice", session.Username)
}

func TestGetSession_MissingCookie(t *testing.T) {
	sm := newTestManager(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/files", nil)

	_, err := sm.GetSession(c)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestGetSession_ExpiredSession(t *testing.T) {
	sm := newTestManager(t)

	encrypted, err := sm.Encrypt(&SessionData{
		UserID:    1,
		Username:  "alice",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/files", nil)
	c.Request.AddCookie(&http.Cookie{Name: SessionCookieName, Value: encrypted})

	_, err = sm.GetSession(c)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestClearSession(t *testing.T) {
	sm := newTestManager(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/logout", nil)
	sm.ClearSession(c)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, "", cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
