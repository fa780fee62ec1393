package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clicksapp/clicks/internal/app/models"
	"github.com/clicksapp/clicks/internal/app/models/dto"
	"github.com/clicksapp/clicks/internal/pkg/apperrors"
	"github.com/clicksapp/clicks/internal/pkg/filestorage"
)

type fakeFileStore struct {
	files  map[int64]*models.File
	nextID int64
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[int64]*models.File), nextID: 1}
}

func (f *fakeFileStore) Create(ctx context.Context, file *models.File) (int64, error) {
	file.ID = f.nextID
	f.nextID++
	file.CreatedAt = time.Now()
	file.UpdatedAt = file.CreatedAt
	f.files[file.ID] = file
	return file.ID, nil
}

type fakeStorage struct {
	saved   []string
	saveErr error
}

func (f *fakeStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (*filestorage.StoredFile, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	path := subPath + "/" + fileHeader.Filename
	f.saved = append(f.saved, path)
	return &filestorage.StoredFile{
		Path: path,
		URL:  "http://localhost:8080/uploads/" + path,
	}, nil
}

func (f *fakeStorage) DeleteFile(path string) error { return nil }

func (f *fakeStorage) BaseURL() string { return "http://localhost:8080/uploads" }

func newTestProfileService() (ProfileService, *fakeProfileStore, *fakeFileStore, *fakeStorage) {
	profiles := newFakeProfileStore()
	files := newFakeFileStore()
	storage := &fakeStorage{}
	svc := NewProfileService(profiles, files, storage)
	return svc, profiles, files, storage
}

// avatarUpload builds a multipart file header the way gin would hand it
// to the controller.
func avatarUpload(t *testing.T, filename, contentType string, size int) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="avatar"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xFF}, size))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["avatar"][0]
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the full form", func(t *testing.T) {
		svc, profiles, _, _ := newTestProfileService()

		resp, err := svc.UpdateProfile(ctx, 42, &dto.UpdateProfileRequest{
			DisplayName: "Alice",
			Username:    "alice_42",
			Bio:         "Photographer",
			Website:     "https://alice.example.com",
			Twitter:     "@alice",
		})

		require.NoError(t, err)
		require.NotNil(t, resp.DisplayName)
		assert.Equal(t, "Alice", *resp.DisplayName)
		require.NotNil(t, resp.Username)
		assert.Equal(t, "alice_42", *resp.Username)
		require.NotNil(t, resp.Twitter)
		assert.Equal(t, "alice", *resp.Twitter)

		stored := profiles.profiles[int64(42)]
		require.NotNil(t, stored)
		assert.Equal(t, "alice_42", *stored.Username)
	})

	t.Run("empty fields clear stored values", func(t *testing.T) {
		svc, profiles, _, _ := newTestProfileService()

		_, err := svc.UpdateProfile(ctx, 42, &dto.UpdateProfileRequest{
			DisplayName: "Alice",
			Bio:         "Photographer",
		})
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, 42, &dto.UpdateProfileRequest{
			DisplayName: "Alice",
		})
		require.NoError(t, err)

		stored := profiles.profiles[int64(42)]
		assert.Nil(t, stored.Bio)
		require.NotNil(t, stored.DisplayName)
		assert.Equal(t, "Alice", *stored.DisplayName)
	})

	t.Run("rejects invalid username and website together", func(t *testing.T) {
		svc, profiles, _, _ := newTestProfileService()

		_, err := svc.UpdateProfile(ctx, 42, &dto.UpdateProfileRequest{
			Username: "Not Valid!",
			Website:  "not-a-url",
		})

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "username")
		assert.Contains(t, verr.Fields, "website")
		assert.Empty(t, profiles.profiles)
	})

	t.Run("rejects taken username", func(t *testing.T) {
		svc, _, _, _ := newTestProfileService()

		_, err := svc.UpdateProfile(ctx, 7, &dto.UpdateProfileRequest{Username: "alice"})
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, 42, &dto.UpdateProfileRequest{Username: "alice"})
		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	})

	t.Run("keeping your own username is allowed", func(t *testing.T) {
		svc, _, _, _ := newTestProfileService()

		_, err := svc.UpdateProfile(ctx, 42, &dto.UpdateProfileRequest{Username: "alice"})
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, 42, &dto.UpdateProfileRequest{Username: "alice", Bio: "Updated"})
		assert.NoError(t, err)
	})

	t.Run("rejects overlong bio", func(t *testing.T) {
		svc, _, _, _ := newTestProfileService()

		_, err := svc.UpdateProfile(ctx, 42, &dto.UpdateProfileRequest{
			Bio: strings.Repeat("x", 501),
		})

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "bio")
	})
}

func TestUpdateAvatar(t *testing.T) {
	ctx := context.Background()

	t.Run("stores image and updates reference", func(t *testing.T) {
		svc, profiles, files, storage := newTestProfileService()

		fh := avatarUpload(t, "me.jpg", "image/jpeg", 1024)
		resp, err := svc.UpdateAvatar(ctx, 42, fh)

		require.NoError(t, err)
		assert.NotZero(t, resp.AvatarFileID)
		assert.Contains(t, resp.AvatarURL, "42/")
		assert.Len(t, storage.saved, 1)
		assert.Len(t, files.files, 1)

		stored := profiles.profiles[int64(42)]
		require.NotNil(t, stored.AvatarFileID)
		assert.Equal(t, resp.AvatarFileID, *stored.AvatarFileID)
	})

	t.Run("rejects unsupported content type", func(t *testing.T) {
		svc, _, files, _ := newTestProfileService()

		fh := avatarUpload(t, "document.pdf", "application/pdf", 1024)
		_, err := svc.UpdateAvatar(ctx, 42, fh)

		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Empty(t, files.files)
	})

	t.Run("rejects oversized image", func(t *testing.T) {
		svc, _, _, _ := newTestProfileService()

		fh := avatarUpload(t, "huge.jpg", "image/jpeg", MaxAvatarSize+1)
		_, err := svc.UpdateAvatar(ctx, 42, fh)

		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("maps storage failure to upload failed", func(t *testing.T) {
		svc, _, files, storage := newTestProfileService()
		storage.saveErr = errors.New("disk full")

		fh := avatarUpload(t, "me.png", "image/png", 1024)
		_, err := svc.UpdateAvatar(ctx, 42, fh)

		assert.ErrorIs(t, err, apperrors.ErrStorageUploadFailed)
		assert.Empty(t, files.files)
	})
}
