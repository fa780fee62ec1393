package dto

import "time"

// UpdateProfileRequest represents the full profile form. Empty strings clear
// the corresponding field; the service validates the whole form before the
// single update write.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Website     string `json:"website"`
	Twitter     string `json:"twitter"`
	Instagram   string `json:"instagram"`
}

// ProfileResponse represents a user's public profile
type ProfileResponse struct {
	UserID      int64     `json:"userId"`
	DisplayName *string   `json:"displayName,omitempty"`
	Username    *string   `json:"username,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Twitter     *string   `json:"twitter,omitempty"`
	Instagram   *string   `json:"instagram,omitempty"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateAvatarResponse represents a successful avatar replacement
type UpdateAvatarResponse struct {
	AvatarFileID int64  `json:"avatarFileId"`
	AvatarURL    string `json:"avatarUrl"`
}
