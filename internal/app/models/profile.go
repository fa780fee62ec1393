package models

import "time"

// Profile defines the public-facing record of a user, one row per user.
// The primary key is the user's ID (shared with the 'users' table).
type Profile struct {
	UserID       int64   `json:"userId" db:"user_id"`
	DisplayName  *string `json:"displayName,omitempty" db:"display_name"`
	Username     *string `json:"username,omitempty" db:"username"`
	Bio          *string `json:"bio,omitempty" db:"bio"`
	Location     *string `json:"location,omitempty" db:"location"`
	Website      *string `json:"website,omitempty" db:"website"`
	Twitter      *string `json:"twitter,omitempty" db:"twitter"`
	Instagram    *string `json:"instagram,omitempty" db:"instagram"`
	AvatarFileID *int64  `json:"avatarFileId,omitempty" db:"avatar_file_id"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	AvatarFile *File `json:"avatarFile,omitempty"`
}
