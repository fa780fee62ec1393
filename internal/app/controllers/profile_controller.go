package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clicksapp/clicks/internal/app/models/dto"
	"github.com/clicksapp/clicks/internal/app/services"
	"github.com/clicksapp/clicks/internal/middleware"
)

// ProfileController handles profile endpoints
type ProfileController struct {
	profileService services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// Get handles GET /users/me/profile
func (pc *ProfileController) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	resp, err := pc.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Update handles PUT /users/me/profile. The request carries the full form;
// omitted or empty fields clear the stored values.
func (pc *ProfileController) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	resp, err := pc.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateAvatar handles POST /users/me/profile/avatar
func (pc *ProfileController) UpdateAvatar(c *gin.Context) {
	userID := middleware.GetUserID(c)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "An avatar image file is required").
			WithField("avatar")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	resp, err := pc.profileService.UpdateAvatar(c.Request.Context(), userID, fileHeader)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
