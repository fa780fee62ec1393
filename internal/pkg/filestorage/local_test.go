package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)
	return storage
}

func uploadFixture(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func TestSaveFile(t *testing.T) {
	t.Run("stores under sub path with generated name", func(t *testing.T) {
		storage := newTestStorage(t)
		fh := uploadFixture(t, "Photo.JPG", []byte("image-bytes"))

		stored, err := storage.SaveFile(fh, "42")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stored.Path, "42/"))
		assert.True(t, strings.HasSuffix(stored.Path, ".jpg"))
		assert.Equal(t, "http://localhost:8080/uploads/"+stored.Path, stored.URL)

		content, err := os.ReadFile(filepath.Join(storage.basePath, stored.Path))
		require.NoError(t, err)
		assert.Equal(t, []byte("image-bytes"), content)
	})

	t.Run("generated names do not collide", func(t *testing.T) {
		storage := newTestStorage(t)

		first, err := storage.SaveFile(uploadFixture(t, "a.png", []byte("one")), "42")
		require.NoError(t, err)
		second, err := storage.SaveFile(uploadFixture(t, "a.png", []byte("two")), "42")
		require.NoError(t, err)

		assert.NotEqual(t, first.Path, second.Path)
	})

	t.Run("rejects traversal in sub path", func(t *testing.T) {
		storage := newTestStorage(t)
		fh := uploadFixture(t, "a.png", []byte("one"))

		_, err := storage.SaveFile(fh, "../outside")

		assert.Error(t, err)
	})

	t.Run("rejects nil file header", func(t *testing.T) {
		storage := newTestStorage(t)

		_, err := storage.SaveFile(nil, "42")

		assert.Error(t, err)
	})
}

func TestDeleteFile(t *testing.T) {
	t.Run("removes a stored file", func(t *testing.T) {
		storage := newTestStorage(t)
		stored, err := storage.SaveFile(uploadFixture(t, "a.png", []byte("one")), "42")
		require.NoError(t, err)

		require.NoError(t, storage.DeleteFile(stored.Path))

		_, err = os.Stat(filepath.Join(storage.basePath, stored.Path))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		storage := newTestStorage(t)
		assert.NoError(t, storage.DeleteFile("42/nothing-here.png"))
	})

	t.Run("rejects traversal", func(t *testing.T) {
		storage := newTestStorage(t)
		assert.Error(t, storage.DeleteFile("../etc/passwd"))
	})
}

func TestBaseURL(t *testing.T) {
	storage := newTestStorage(t)
	assert.Equal(t, "http://localhost:8080/uploads", storage.BaseURL())
}
