package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/clicksapp/clicks/internal/app/models"
	"github.com/clicksapp/clicks/internal/app/models/dto"
	"github.com/clicksapp/clicks/internal/pkg/apperrors"
	"github.com/clicksapp/clicks/internal/pkg/filestorage"
	"github.com/clicksapp/clicks/internal/pkg/logger"
	"github.com/clicksapp/clicks/internal/pkg/validation"
)

// ProfileStore is the persistence surface ProfileService needs for profiles
type ProfileStore interface {
	FindByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	UpdateAvatar(ctx context.Context, userID int64, fileID int64) error
	UsernameExists(ctx context.Context, username string, excludeUserID int64) (bool, error)
}

// FileStore is the persistence surface ProfileService needs for file records
type FileStore interface {
	Create(ctx context.Context, file *models.File) (int64, error)
}

// Allowed avatar MIME types
var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// MaxAvatarSize is the upload size limit for avatar images
const MaxAvatarSize = 5 << 20

// ProfileService defines profile operations
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	UpdateAvatar(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (*dto.UpdateAvatarResponse, error)
}

type profileService struct {
	profiles ProfileStore
	files    FileStore
	storage  filestorage.FileStorage
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles ProfileStore, files FileStore, storage filestorage.FileStorage) ProfileService {
	return &profileService{
		profiles: profiles,
		files:    files,
		storage:  storage,
	}
}

// GetProfile returns a user's profile
func (s *profileService) GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := mapProfileToResponse(profile)
	return &resp, nil
}

// UpdateProfile validates and writes the full profile form. Empty fields
// clear the stored value. Nothing is written when validation fails.
func (s *profileService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if userID <= 0 {
		return nil, apperrors.ErrUnauthenticated
	}

	form := normalizeProfileForm(req)
	if err := validateProfileForm(form); err != nil {
		return nil, err
	}

	if form.Username != nil {
		taken, err := s.profiles.UsernameExists(ctx, *form.Username, userID)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to check username availability")
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrUsernameTaken
		}
	}

	form.UserID = userID
	if err := s.profiles.Update(ctx, form); err != nil {
		logger.Error().Err(err).Int64("userId", userID).Msg("Failed to update profile")
		return nil, err
	}

	logger.Info().Int64("userId", userID).Msg("Profile updated")

	return s.GetProfile(ctx, userID)
}

// UpdateAvatar stores a new avatar image and points the profile at it.
// The previous avatar object is kept; only the reference moves.
func (s *profileService) UpdateAvatar(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (*dto.UpdateAvatarResponse, error) {
	if userID <= 0 {
		return nil, apperrors.ErrUnauthenticated
	}

	if fileHeader == nil || fileHeader.Size == 0 {
		return nil, apperrors.NewValidationError().Add("avatar", "an image file is required")
	}
	if fileHeader.Size > MaxAvatarSize {
		return nil, apperrors.NewValidationError().Add("avatar", "image must be at most 5 MB")
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedAvatarTypes[contentType] {
		return nil, apperrors.NewValidationError().Add("avatar", "image must be JPEG, PNG or WebP")
	}

	stored, err := s.storage.SaveFile(fileHeader, strconv.FormatInt(userID, 10))
	if err != nil {
		logger.Error().Err(err).Int64("userId", userID).Msg("Failed to store avatar image")
		return nil, apperrors.NewCustomError(apperrors.ErrStorageUploadFailed, "could not store avatar image")
	}

	file := &models.File{
		FileName:   fileHeader.Filename,
		FilePath:   stored.Path,
		FileURL:    stored.URL,
		FileSize:   fileHeader.Size,
		FileType:   contentType,
		UploadedBy: userID,
	}
	if _, err := s.files.Create(ctx, file); err != nil {
		logger.Error().Err(err).Int64("userId", userID).Msg("Failed to record avatar file")
		return nil, err
	}

	if err := s.profiles.UpdateAvatar(ctx, userID, file.ID); err != nil {
		logger.Error().Err(err).Int64("userId", userID).Msg("Failed to update avatar reference")
		return nil, err
	}

	logger.Info().Int64("userId", userID).Int64("fileId", file.ID).Msg("Avatar updated")

	return &dto.UpdateAvatarResponse{
		AvatarFileID: file.ID,
		AvatarURL:    file.FileURL,
	}, nil
}

// normalizeProfileForm trims the form and maps empty strings to nil
func normalizeProfileForm(req *dto.UpdateProfileRequest) *models.Profile {
	return &models.Profile{
		DisplayName: optionalString(req.DisplayName),
		Username:    optionalString(strings.ToLower(req.Username)),
		Bio:         optionalString(req.Bio),
		Location:    optionalString(req.Location),
		Website:     optionalString(req.Website),
		Twitter:     optionalString(strings.TrimPrefix(strings.TrimSpace(req.Twitter), "@")),
		Instagram:   optionalString(strings.TrimPrefix(strings.TrimSpace(req.Instagram), "@")),
	}
}

func validateProfileForm(form *models.Profile) error {
	verr := apperrors.NewValidationError()

	if form.DisplayName != nil && len(*form.DisplayName) > validation.DisplayNameMaxLength {
		verr.Add("displayName", fmt.Sprintf("must be at most %d characters", validation.DisplayNameMaxLength))
	}

	if form.Username != nil {
		if len(*form.Username) < validation.UsernameMinLength || len(*form.Username) > validation.UsernameMaxLength {
			verr.Add("username", fmt.Sprintf("must be between %d and %d characters", validation.UsernameMinLength, validation.UsernameMaxLength))
		} else if !validation.CompiledPatterns.Username.MatchString(*form.Username) {
			verr.Add("username", "may only contain lowercase letters, digits and underscores")
		}
	}

	if form.Bio != nil && len(*form.Bio) > validation.BioMaxLength {
		verr.Add("bio", fmt.Sprintf("must be at most %d characters", validation.BioMaxLength))
	}

	if form.Location != nil && len(*form.Location) > validation.LocationMaxLength {
		verr.Add("location", fmt.Sprintf("must be at most %d characters", validation.LocationMaxLength))
	}

	if form.Website != nil {
		u, err := url.Parse(*form.Website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			verr.Add("website", "must be a valid http or https URL")
		}
	}

	if form.Twitter != nil && !validation.CompiledPatterns.SocialHandle.MatchString(*form.Twitter) {
		verr.Add("twitter", "must be a valid handle")
	}
	if form.Instagram != nil && !validation.CompiledPatterns.SocialHandle.MatchString(*form.Instagram) {
		verr.Add("instagram", "must be a valid handle")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func mapProfileToResponse(profile *models.Profile) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		Username:    profile.Username,
		Bio:         profile.Bio,
		Location:    profile.Location,
		Website:     profile.Website,
		Twitter:     profile.Twitter,
		Instagram:   profile.Instagram,
		UpdatedAt:   profile.UpdatedAt,
	}
	if profile.AvatarFile != nil {
		url := profile.AvatarFile.FileURL
		resp.AvatarURL = &url
	}
	return resp
}
