package services

import (
	"context"
	"fmt"
	"strings"

	clickauth "github.com/clicksapp/clicks/internal/app/auth"
	"github.com/clicksapp/clicks/internal/app/models"
	"github.com/clicksapp/clicks/internal/app/models/dto"
	"github.com/clicksapp/clicks/internal/pkg/apperrors"
	"github.com/clicksapp/clicks/internal/pkg/helpers"
	"github.com/clicksapp/clicks/internal/pkg/logger"
	"github.com/clicksapp/clicks/internal/pkg/validation"
)

// ClickStore is the persistence surface ClickService needs for clicks
type ClickStore interface {
	CreateWithAdmin(ctx context.Context, click *models.Click) (*models.Click, error)
	FindByID(ctx context.Context, id int64) (*models.Click, error)
	FindAllForUser(ctx context.Context, userID int64, search *string, offset, limit int) ([]*models.Click, int64, error)
	Update(ctx context.Context, click *models.Click) error
	Delete(ctx context.Context, id int64) error
}

// MembershipStore is the persistence surface ClickService needs for members
type MembershipStore interface {
	AddMembers(ctx context.Context, clickID int64, userIDs []int64, role models.MembershipRole) (int64, error)
	FindByClickID(ctx context.Context, clickID int64) ([]*models.Membership, error)
	FindRole(ctx context.Context, clickID, userID int64) (models.MembershipRole, bool, error)
	CountAdmins(ctx context.Context, clickID int64) (int, error)
	Remove(ctx context.Context, clickID, userID int64) error
	UpdateRole(ctx context.Context, clickID, userID int64, role models.MembershipRole) error
}

// ClickService defines click directory and membership operations
type ClickService interface {
	CreateClick(ctx context.Context, userID int64, req *dto.CreateClickRequest) (*dto.ClickResponse, error)
	GetClick(ctx context.Context, userID, clickID int64) (*dto.ClickDetailResponse, error)
	ListClicks(ctx context.Context, userID int64, filter *dto.ClickFilterRequest) (*dto.ClickListResponse, error)
	UpdateClick(ctx context.Context, userID, clickID int64, req *dto.UpdateClickRequest) (*dto.ClickResponse, error)
	DeleteClick(ctx context.Context, userID, clickID int64) error
	GetMembers(ctx context.Context, userID, clickID int64) ([]dto.MemberResponse, error)
	JoinClick(ctx context.Context, userID, clickID int64) error
	InviteMembers(ctx context.Context, userID, clickID int64, req *dto.InviteMembersRequest) (*dto.InviteMembersResponse, error)
	RemoveMember(ctx context.Context, userID, clickID, memberID int64) error
	UpdateMemberRole(ctx context.Context, userID, clickID, memberID int64, role models.MembershipRole) error
	LeaveClick(ctx context.Context, userID, clickID int64) error
}

type clickService struct {
	clicks      ClickStore
	memberships MembershipStore
	authz       *clickauth.AuthorizationService
}

// NewClickService creates a new ClickService
func NewClickService(clicks ClickStore, memberships MembershipStore, authz *clickauth.AuthorizationService) ClickService {
	return &clickService{
		clicks:      clicks,
		memberships: memberships,
		authz:       authz,
	}
}

// CreateClick validates the request, creates the click together with the
// creator's admin membership, then adds invitees. A failure in the invitee
// batch does not undo the click; the response is returned alongside
// ErrPartialFailure so the caller can surface the degraded outcome.
func (s *clickService) CreateClick(ctx context.Context, userID int64, req *dto.CreateClickRequest) (*dto.ClickResponse, error) {
	if userID <= 0 {
		return nil, apperrors.ErrUnauthenticated
	}

	if err := validateClickForm(req.Name, req.Description, req.Schedule); err != nil {
		return nil, err
	}

	click := &models.Click{
		Name:        strings.TrimSpace(req.Name),
		Description: optionalString(req.Description),
		CreatedBy:   userID,
	}
	if req.ClientRequestID != "" {
		click.ClientRequestID = &req.ClientRequestID
	}
	applySchedule(click, req.Schedule)

	created, err := s.clicks.CreateWithAdmin(ctx, click)
	if err != nil {
		logger.Error().Err(err).Int64("userId", userID).Str("name", click.Name).Msg("Failed to create click")
		return nil, apperrors.NewCustomError(apperrors.ErrClickCreationFailed, "could not create click")
	}

	logger.Info().Int64("clickId", created.ID).Int64("userId", userID).Msg("Click created")

	resp := mapClickToResponse(created)
	resp.MemberCount = 1

	invitees := dedupeInvitees(req.Invitees, userID)
	if len(invitees) > 0 {
		added, err := s.memberships.AddMembers(ctx, created.ID, invitees, models.RoleMember)
		if err != nil {
			logger.Error().Err(err).Int64("clickId", created.ID).Msg("Failed to add invitees after click creation")
			return &resp, apperrors.NewCustomError(apperrors.ErrPartialFailure,
				fmt.Sprintf("click created but %d invitation(s) could not be added", len(invitees)))
		}
		resp.MemberCount += int(added)
	}

	return &resp, nil
}

// GetClick returns a click with its members. Only members may view it.
func (s *clickService) GetClick(ctx context.Context, userID, clickID int64) (*dto.ClickDetailResponse, error) {
	if _, err := s.authz.RequireMember(ctx, clickID, userID); err != nil {
		return nil, err
	}

	click, err := s.clicks.FindByID(ctx, clickID)
	if err != nil {
		return nil, err
	}

	members, err := s.memberships.FindByClickID(ctx, clickID)
	if err != nil {
		return nil, err
	}

	detail := &dto.ClickDetailResponse{
		ClickResponse: mapClickToResponse(click),
		Members:       mapMembersToResponse(members),
	}
	return detail, nil
}

// ListClicks returns the caller's clicks, paginated
func (s *clickService) ListClicks(ctx context.Context, userID int64, filter *dto.ClickFilterRequest) (*dto.ClickListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	clicks, total, err := s.clicks.FindAllForUser(ctx, userID, filter.Search, offset, limit)
	if err != nil {
		logger.Error().Err(err).Int64("userId", userID).Msg("Failed to list clicks")
		return nil, err
	}

	items := make([]dto.ClickResponse, 0, len(clicks))
	for _, click := range clicks {
		items = append(items, mapClickToResponse(click))
	}

	return &dto.ClickListResponse{
		Clicks:         items,
		PaginationInfo: helpers.NewPaginationInfo(filter.Page, filter.PageSize, total),
	}, nil
}

// UpdateClick modifies a click. Only admins may update.
func (s *clickService) UpdateClick(ctx context.Context, userID, clickID int64, req *dto.UpdateClickRequest) (*dto.ClickResponse, error) {
	if err := s.authz.RequireAdmin(ctx, clickID, userID); err != nil {
		return nil, err
	}

	if err := validateClickForm(req.Name, req.Description, req.Schedule); err != nil {
		return nil, err
	}

	click, err := s.clicks.FindByID(ctx, clickID)
	if err != nil {
		return nil, err
	}

	click.Name = strings.TrimSpace(req.Name)
	click.Description = optionalString(req.Description)
	click.ScheduleFrequency = nil
	click.ScheduleDay = nil
	click.ScheduleTime = nil
	applySchedule(click, req.Schedule)

	if err := s.clicks.Update(ctx, click); err != nil {
		logger.Error().Err(err).Int64("clickId", clickID).Msg("Failed to update click")
		return nil, err
	}

	resp := mapClickToResponse(click)
	return &resp, nil
}

// DeleteClick removes a click and its memberships. Only admins may delete.
func (s *clickService) DeleteClick(ctx context.Context, userID, clickID int64) error {
	if err := s.authz.RequireAdmin(ctx, clickID, userID); err != nil {
		return err
	}

	if err := s.clicks.Delete(ctx, clickID); err != nil {
		logger.Error().Err(err).Int64("clickId", clickID).Msg("Failed to delete click")
		return err
	}

	logger.Info().Int64("clickId", clickID).Int64("userId", userID).Msg("Click deleted")
	return nil
}

// GetMembers lists a click's members. Only members may view the list.
func (s *clickService) GetMembers(ctx context.Context, userID, clickID int64) ([]dto.MemberResponse, error) {
	if _, err := s.authz.RequireMember(ctx, clickID, userID); err != nil {
		return nil, err
	}

	members, err := s.memberships.FindByClickID(ctx, clickID)
	if err != nil {
		return nil, err
	}

	return mapMembersToResponse(members), nil
}

// JoinClick adds the caller to a click as a regular member
func (s *clickService) JoinClick(ctx context.Context, userID, clickID int64) error {
	if userID <= 0 {
		return apperrors.ErrUnauthenticated
	}

	if _, err := s.clicks.FindByID(ctx, clickID); err != nil {
		return err
	}

	_, isMember, err := s.memberships.FindRole(ctx, clickID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return apperrors.NewConflictError("you are already a member of this click")
	}

	if _, err := s.memberships.AddMembers(ctx, clickID, []int64{userID}, models.RoleMember); err != nil {
		logger.Error().Err(err).Int64("clickId", clickID).Int64("userId", userID).Msg("Failed to join click")
		return err
	}

	logger.Info().Int64("clickId", clickID).Int64("userId", userID).Msg("Member joined click")
	return nil
}

// InviteMembers adds the given users to a click. Only admins may invite.
// Users already in the click are skipped silently.
func (s *clickService) InviteMembers(ctx context.Context, userID, clickID int64, req *dto.InviteMembersRequest) (*dto.InviteMembersResponse, error) {
	if err := s.authz.RequireAdmin(ctx, clickID, userID); err != nil {
		return nil, err
	}

	invitees := dedupeInvitees(req.Invitees, 0)
	if len(invitees) == 0 {
		return nil, apperrors.NewBadRequestError("no valid invitees given")
	}

	added, err := s.memberships.AddMembers(ctx, clickID, invitees, models.RoleMember)
	if err != nil {
		logger.Error().Err(err).Int64("clickId", clickID).Msg("Failed to invite members")
		return nil, err
	}

	logger.Info().Int64("clickId", clickID).Int64("added", added).Msg("Members invited")

	return &dto.InviteMembersResponse{
		ClickID: clickID,
		Invited: int(added),
	}, nil
}

// RemoveMember removes another user from a click. Only admins may remove,
// and the last admin cannot be removed.
func (s *clickService) RemoveMember(ctx context.Context, userID, clickID, memberID int64) error {
	if err := s.authz.RequireAdmin(ctx, clickID, userID); err != nil {
		return err
	}

	role, ok, err := s.memberships.FindRole(ctx, clickID, memberID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewResourceNotFoundError("user is not a member of this click")
	}

	if role == models.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, clickID); err != nil {
			return err
		}
	}

	return s.memberships.Remove(ctx, clickID, memberID)
}

// UpdateMemberRole promotes or demotes a member. Only admins may change
// roles, and the last admin cannot be demoted.
func (s *clickService) UpdateMemberRole(ctx context.Context, userID, clickID, memberID int64, role models.MembershipRole) error {
	if err := s.authz.RequireAdmin(ctx, clickID, userID); err != nil {
		return err
	}

	current, ok, err := s.memberships.FindRole(ctx, clickID, memberID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewResourceNotFoundError("user is not a member of this click")
	}
	if current == role {
		return nil
	}

	if current == models.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, clickID); err != nil {
			return err
		}
	}

	if err := s.memberships.UpdateRole(ctx, clickID, memberID, role); err != nil {
		logger.Error().Err(err).Int64("clickId", clickID).Int64("memberId", memberID).Msg("Failed to update member role")
		return err
	}

	logger.Info().Int64("clickId", clickID).Int64("memberId", memberID).Str("role", string(role)).Msg("Member role updated")
	return nil
}

// LeaveClick removes the caller's own membership. The last admin cannot
// leave without first promoting another member.
func (s *clickService) LeaveClick(ctx context.Context, userID, clickID int64) error {
	role, err := s.authz.RequireMember(ctx, clickID, userID)
	if err != nil {
		return err
	}

	if role == models.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, clickID); err != nil {
			return err
		}
	}

	if err := s.memberships.Remove(ctx, clickID, userID); err != nil {
		return err
	}

	logger.Info().Int64("clickId", clickID).Int64("userId", userID).Msg("Member left click")
	return nil
}

func (s *clickService) ensureNotLastAdmin(ctx context.Context, clickID int64) error {
	admins, err := s.memberships.CountAdmins(ctx, clickID)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return apperrors.NewConflictError("a click must keep at least one admin")
	}
	return nil
}

// validateClickForm checks the common click fields and collects every
// violation before any write happens.
func validateClickForm(name, description string, schedule *dto.ScheduleRequest) error {
	verr := apperrors.NewValidationError()

	trimmed := strings.TrimSpace(name)
	if len(trimmed) < validation.ClickNameMinLength {
		verr.Add("name", fmt.Sprintf("must be at least %d characters", validation.ClickNameMinLength))
	} else if len(trimmed) > validation.ClickNameMaxLength {
		verr.Add("name", fmt.Sprintf("must be at most %d characters", validation.ClickNameMaxLength))
	}

	if len(description) > validation.DescriptionMaxLength {
		verr.Add("description", fmt.Sprintf("must be at most %d characters", validation.DescriptionMaxLength))
	}

	if schedule != nil {
		if !models.ValidFrequency(models.ScheduleFrequency(schedule.Frequency)) {
			verr.Add("schedule.frequency", "must be one of daily, weekly, monthly")
		}
		if schedule.Day < validation.ScheduleDayMin || schedule.Day > validation.ScheduleDayMax {
			verr.Add("schedule.day", fmt.Sprintf("must be between %d and %d", validation.ScheduleDayMin, validation.ScheduleDayMax))
		}
		if !validation.CompiledPatterns.TimeOfDay.MatchString(schedule.Time) {
			verr.Add("schedule.time", "must be a 24h time in HH:MM format")
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// dedupeInvitees drops duplicates, non-positive ids and the excluded user
func dedupeInvitees(invitees []int64, exclude int64) []int64 {
	if len(invitees) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(invitees))
	result := make([]int64, 0, len(invitees))
	for _, id := range invitees {
		if id <= 0 || id == exclude {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func applySchedule(click *models.Click, schedule *dto.ScheduleRequest) {
	if schedule == nil {
		return
	}
	freq := models.ScheduleFrequency(schedule.Frequency)
	click.ScheduleFrequency = &freq
	day := schedule.Day
	click.ScheduleDay = &day
	t := schedule.Time
	click.ScheduleTime = &t
}

func optionalString(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapClickToResponse(click *models.Click) dto.ClickResponse {
	resp := dto.ClickResponse{
		ID:          click.ID,
		Name:        click.Name,
		Description: click.Description,
		CreatedBy:   click.CreatedBy,
		MemberCount: click.MemberCount,
		CreatedAt:   click.CreatedAt,
		UpdatedAt:   click.UpdatedAt,
	}
	if click.ScheduleFrequency != nil && click.ScheduleDay != nil && click.ScheduleTime != nil {
		resp.Schedule = &dto.ScheduleResponse{
			Frequency: string(*click.ScheduleFrequency),
			Day:       *click.ScheduleDay,
			Time:      *click.ScheduleTime,
		}
	}
	return resp
}

func mapMembersToResponse(members []*models.Membership) []dto.MemberResponse {
	result := make([]dto.MemberResponse, 0, len(members))
	for _, m := range members {
		item := dto.MemberResponse{
			UserID:   m.UserID,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		}
		if m.User != nil {
			basic := &dto.UserBasicResponse{
				ID:    m.User.ID,
				Email: m.User.Email,
			}
			if m.Profile != nil {
				basic.DisplayName = m.Profile.DisplayName
				basic.Username = m.Profile.Username
				if m.Profile.AvatarFile != nil {
					url := m.Profile.AvatarFile.FileURL
					basic.AvatarURL = &url
				}
			}
			item.User = basic
		}
		result = append(result, item)
	}
	return result
}
