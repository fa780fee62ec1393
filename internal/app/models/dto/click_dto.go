package dto

import "time"

// --- Request DTOs ---

// ScheduleRequest represents an optional posting schedule for a click
type ScheduleRequest struct {
	Frequency string `json:"frequency"`
	Day       int    `json:"day"`
	Time      string `json:"time"`
}

// CreateClickRequest represents click creation data. Field-level constraints
// are enforced by the service so every violation is reported per field.
type CreateClickRequest struct {
	Name            string           `json:"name" binding:"required"`
	Description     string           `json:"description"`
	Schedule        *ScheduleRequest `json:"schedule"`
	Invitees        []int64          `json:"invitees"`
	ClientRequestID string           `json:"clientRequestId" binding:"omitempty,uuid"`
}

// UpdateClickRequest represents click update data
type UpdateClickRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Schedule    *ScheduleRequest `json:"schedule"`
}

// InviteMembersRequest represents a batch invitation by an admin
type InviteMembersRequest struct {
	Invitees []int64 `json:"invitees" binding:"required,min=1"`
}

// UpdateMemberRoleRequest changes a member's role within a click
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member"`
}

// ClickFilterRequest represents click list filter parameters
type ClickFilterRequest struct {
	Search   *string `form:"search,omitempty"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// ScheduleResponse mirrors ScheduleRequest in responses
type ScheduleResponse struct {
	Frequency string `json:"frequency"`
	Day       int    `json:"day"`
	Time      string `json:"time"`
}

// ClickResponse represents basic click information
type ClickResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	CreatedBy   int64             `json:"createdBy"`
	Schedule    *ScheduleResponse `json:"schedule,omitempty"`
	MemberCount int               `json:"memberCount,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// MemberResponse represents a member of a click
type MemberResponse struct {
	UserID   int64              `json:"userId"`
	Role     string             `json:"role"`
	JoinedAt time.Time          `json:"joinedAt"`
	User     *UserBasicResponse `json:"user,omitempty"`
}

// UserBasicResponse represents minimal user information for member listings
type UserBasicResponse struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName,omitempty"`
	Username    *string `json:"username,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// ClickDetailResponse extends ClickResponse with member details
type ClickDetailResponse struct {
	ClickResponse
	Members []MemberResponse `json:"members"`
}

// ClickListResponse represents a paginated list of clicks
type ClickListResponse struct {
	Clicks         []ClickResponse `json:"clicks"`
	PaginationInfo PaginationInfo  `json:"pagination"`
}

// InviteMembersResponse reports how many invitations landed
type InviteMembersResponse struct {
	ClickID int64 `json:"clickId"`
	Invited int   `json:"invited"`
}
