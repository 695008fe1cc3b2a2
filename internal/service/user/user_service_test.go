package service

import (
	"path/filepath"
	"testing"

	"github.com/jbmillenial/file-share/config"
	"github.com/jbmillenial/file-share/internal/database"
	apperrors "github.com/jbmillenial/file-share/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) UserService {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	return NewUserService(db)
}

func TestRegister_Success(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register("alice", "Alice@Example.com", "secret-password")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email) // 邮箱统一小写
	assert.NotEqual(t, "secret-password", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register("alice", "alice@example.com", "secret-password")
	require.NoError(t, err)

	// 大小写不同视为同一个邮箱
	_, err = svc.Register("bob", "ALICE@EXAMPLE.COM", "another-password")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrEmailAlreadyExists))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register("alice", "alice@example.com", "secret-password")
	require.NoError(t, err)

	_, err = svc.Register("alice", "alice2@example.com", "another-password")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUsernameAlreadyExists))
}

func TestAuthenticate_Success(t *testing.T) {
	svc := newTestService(t)

	registered, err := svc.Register("alice", "alice@example.com", "secret-password")
	require.NoError(t, err)

	user, err := svc.Authenticate("alice", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestAuthenticate_WrongPasswordAndUnknownUserIndistinguishable(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register("alice", "alice@example.com", "secret-password")
	require.NoError(t, err)

	// 密码错误和用户不存在返回完全相同的错误
	_, errWrongPass := svc.Authenticate("alice", "wrong-password")
	_, errNoUser := svc.Authenticate("nobody", "whatever")

	require.Error(t, errWrongPass)
	require.Error(t, errNoUser)
	assert.True(t, apperrors.IsCode(errWrongPass, apperrors.ErrInvalidCredentials))
	assert.True(t, apperrors.IsCode(errNoUser, apperrors.ErrInvalidCredentials))
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
}

func TestGetByID(t *testing.T) {
	svc := newTestService(t)

	registered, err := svc.Register("alice", "alice@example.com", "secret-password")
	require.NoError(t, err)

	user, err := svc.GetByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.GetByID(99999)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUserNotFound))
}
