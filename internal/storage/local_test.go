package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/jbmillenial/file-share/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLocalStorage_PutAndGet(t *testing.T) {
	s := newTestLocalStorage(t)

	err := s.Put("key-1.txt", strings.NewReader("hello blob"), "text/plain")
	require.NoError(t, err)

	rc, err := s.Get("key-1.txt")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello blob", string(data))
}

func TestLocalStorage_GetMissingBlob(t *testing.T) {
	s := newTestLocalStorage(t)

	_, err := s.Get("missing.txt")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestLocalStorage_Delete(t *testing.T) {
	s := newTestLocalStorage(t)

	require.NoError(t, s.Put("key-1.txt", strings.NewReader("x"), ""))
	require.NoError(t, s.Delete("key-1.txt"))

	exists, err := s.Exists("key-1.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	// 重复删除返回ErrBlobNotFound
	assert.ErrorIs(t, s.Delete("key-1.txt"), ErrBlobNotFound)
}

func TestLocalStorage_Exists(t *testing.T) {
	s := newTestLocalStorage(t)

	exists, err := s.Exists("key-1.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Put("key-1.txt", strings.NewReader("x"), ""))

	exists, err = s.Exists("key-1.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorage_PutOverwritesExisting(t *testing.T) {
	s := newTestLocalStorage(t)

	require.NoError(t, s.Put("key-1.txt", strings.NewReader("old"), ""))
	require.NoError(t, s.Put("key-1.txt", strings.NewReader("new"), ""))

	rc, err := s.Get("key-1.txt")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "new", string(data))
}

func TestLocalStorage_PathTraversalNeutralized(t *testing.T) {
	s := newTestLocalStorage(t)

	// 带路径分隔符的objectKey被压平到根目录内
	require.NoError(t, s.Put("../escape.txt", strings.NewReader("x"), ""))

	exists, err := s.Exists("escape.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNew_UnsupportedProvider(t *testing.T) {
	_, err := New(config.StorageConfig{Provider: "ftp"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestNew_DefaultsToLocal(t *testing.T) {
	s, err := New(config.StorageConfig{Provider: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)
}
