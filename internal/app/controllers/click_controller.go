package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clicksapp/clicks/internal/app/models"
	"github.com/clicksapp/clicks/internal/app/models/dto"
	"github.com/clicksapp/clicks/internal/app/services"
	"github.com/clicksapp/clicks/internal/middleware"
	"github.com/clicksapp/clicks/internal/pkg/apperrors"
)

// ClickController handles click directory and membership endpoints
type ClickController struct {
	clickService services.ClickService
}

// NewClickController creates a new ClickController
func NewClickController(clickService services.ClickService) *ClickController {
	return &ClickController{clickService: clickService}
}

// Create handles POST /clicks. When invitations fail after the click itself
// was persisted, the click is still returned with a warning attached.
func (cc *ClickController) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.CreateClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	resp, err := cc.clickService.CreateClick(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrPartialFailure) && resp != nil {
			warning := dto.NewErrorDetail(dto.ErrorCodePartialFailure, err.Error()).
				WithSeverity(dto.ErrorSeverityWarning)
			c.JSON(http.StatusCreated,
				dto.NewPartialResponse(resp, "Click created with incomplete invitations", warning))
			return
		}
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// List handles GET /clicks
func (cc *ClickController) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var filter dto.ClickFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	resp, err := cc.clickService.ListClicks(c.Request.Context(), userID, &filter)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Get handles GET /clicks/:id
func (cc *ClickController) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	clickID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := cc.clickService.GetClick(c.Request.Context(), userID, clickID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Update handles PUT /clicks/:id
func (cc *ClickController) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	clickID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	resp, err := cc.clickService.UpdateClick(c.Request.Context(), userID, clickID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Delete handles DELETE /clicks/:id
func (cc *ClickController) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	clickID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.clickService.DeleteClick(c.Request.Context(), userID, clickID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Click deleted"))
}

// Members handles GET /clicks/:id/members
func (cc *ClickController) Members(c *gin.Context) {
	userID := middleware.GetUserID(c)
	clickID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := cc.clickService.GetMembers(c.Request.Context(), userID, clickID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Join handles POST /clicks/:id/members
func (cc *ClickController) Join(c *gin.Context) {
	userID := middleware.GetUserID(c)
	clickID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.clickService.JoinClick(c.Request.Context(), userID, clickID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewMessageResponse(nil, "Joined click"))
}

// Invite handles POST /clicks/:id/invitations
func (cc *ClickController) Invite(c *gin.Context) {
	userID := middleware.GetUserID(c)
	clickID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.InviteMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	resp, err := cc.clickService.InviteMembers(c.Request.Context(), userID, clickID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RemoveMember handles DELETE /clicks/:id/members/:userId
func (cc *ClickController) RemoveMember(c *gin.Context) {
	userID := middleware.GetUserID(c)
	clickID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := cc.clickService.RemoveMember(c.Request.Context(), userID, clickID, memberID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Member removed"))
}

// UpdateMemberRole handles PUT /clicks/:id/members/:userId/role
func (cc *ClickController) UpdateMemberRole(c *gin.Context) {
	userID := middleware.GetUserID(c)
	clickID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	err := cc.clickService.UpdateMemberRole(c.Request.Context(), userID, clickID, memberID,
		models.MembershipRole(req.Role))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Member role updated"))
}

// Leave handles DELETE /clicks/:id/members
func (cc *ClickController) Leave(c *gin.Context) {
	userID := middleware.GetUserID(c)
	clickID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.clickService.LeaveClick(c.Request.Context(), userID, clickID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Left click"))
}

// parseIDParam parses a positive int64 path parameter, writing a 400
// response when it is malformed.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || value <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter").
			WithField(name)
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return value, true
}
