package models

import "time"

// Click represents a named group for sharing photos on a schedule
type Click struct {
	ID              int64   `json:"id" db:"id"`
	Name            string  `json:"name" db:"name"`
	Description     *string `json:"description,omitempty" db:"description"`
	CreatedBy       int64   `json:"createdBy" db:"created_by"`
	ClientRequestID *string `json:"-" db:"client_request_id"`

	// Posting schedule; all three are set together or all absent
	ScheduleFrequency *ScheduleFrequency `json:"scheduleFrequency,omitempty" db:"schedule_frequency"`
	ScheduleDay       *int               `json:"scheduleDay,omitempty" db:"schedule_day"`
	ScheduleTime      *string            `json:"scheduleTime,omitempty" db:"schedule_time"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Members     []*Membership `json:"members,omitempty"`
	MemberCount int           `json:"memberCount,omitempty"`
}

// Membership represents a user's membership in a click
type Membership struct {
	ID       int64          `json:"id" db:"id"`
	ClickID  int64          `json:"clickId" db:"click_id"`
	UserID   int64          `json:"userId" db:"user_id"`
	Role     MembershipRole `json:"role" db:"role"`
	JoinedAt time.Time      `json:"joinedAt" db:"joined_at"`

	// Related entities
	User    *User    `json:"user,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}
