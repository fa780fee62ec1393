package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clicksapp/clicks/internal/app/models"
	"github.com/clicksapp/clicks/internal/app/models/dto"
	"github.com/clicksapp/clicks/internal/middleware"
	"github.com/clicksapp/clicks/internal/pkg/apperrors"
)

// stubClickService returns canned results for the endpoints under test
type stubClickService struct {
	createResp *dto.ClickResponse
	createErr  error
}

func (s *stubClickService) CreateClick(ctx context.Context, userID int64, req *dto.CreateClickRequest) (*dto.ClickResponse, error) {
	return s.createResp, s.createErr
}

func (s *stubClickService) GetClick(ctx context.Context, userID, clickID int64) (*dto.ClickDetailResponse, error) {
	return nil, apperrors.ErrClickNotFound
}

func (s *stubClickService) ListClicks(ctx context.Context, userID int64, filter *dto.ClickFilterRequest) (*dto.ClickListResponse, error) {
	return &dto.ClickListResponse{}, nil
}

func (s *stubClickService) UpdateClick(ctx context.Context, userID, clickID int64, req *dto.UpdateClickRequest) (*dto.ClickResponse, error) {
	return nil, apperrors.ErrClickNotFound
}

func (s *stubClickService) DeleteClick(ctx context.Context, userID, clickID int64) error {
	return apperrors.ErrClickNotFound
}

func (s *stubClickService) GetMembers(ctx context.Context, userID, clickID int64) ([]dto.MemberResponse, error) {
	return nil, nil
}

func (s *stubClickService) InviteMembers(ctx context.Context, userID, clickID int64, req *dto.InviteMembersRequest) (*dto.InviteMembersResponse, error) {
	return nil, nil
}

func (s *stubClickService) JoinClick(ctx context.Context, userID, clickID int64) error {
	return nil
}

func (s *stubClickService) RemoveMember(ctx context.Context, userID, clickID, memberID int64) error {
	return nil
}

func (s *stubClickService) UpdateMemberRole(ctx context.Context, userID, clickID, memberID int64, role models.MembershipRole) error {
	return nil
}

func (s *stubClickService) LeaveClick(ctx context.Context, userID, clickID int64) error {
	return nil
}

func newClickTestRouter(svc *stubClickService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, int64(42))
	})
	controller := NewClickController(svc)
	router.POST("/clicks", controller.Create)
	router.GET("/clicks/:id", controller.Get)
	return router
}

func TestClickControllerCreate(t *testing.T) {
	t.Run("returns 201 with the click", func(t *testing.T) {
		svc := &stubClickService{
			createResp: &dto.ClickResponse{ID: 1, Name: "Family Photos", CreatedBy: 42, MemberCount: 1},
		}
		router := newClickTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/clicks",
			strings.NewReader(`{"name":"Family Photos"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var body dto.APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Nil(t, body.Error)
	})

	t.Run("partial failure still returns 201 with a warning", func(t *testing.T) {
		svc := &stubClickService{
			createResp: &dto.ClickResponse{ID: 1, Name: "Family Photos", CreatedBy: 42, MemberCount: 1},
			createErr:  apperrors.NewCustomError(apperrors.ErrPartialFailure, "click created but 2 invitation(s) could not be added"),
		}
		router := newClickTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/clicks",
			strings.NewReader(`{"name":"Family Photos","invitees":[7,9]}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var body dto.APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, dto.ErrorCodePartialFailure, body.Error.Code)
		assert.Equal(t, dto.ErrorSeverityWarning, body.Error.Severity)
		assert.NotNil(t, body.Data)
	})

	t.Run("validation error returns 400", func(t *testing.T) {
		svc := &stubClickService{
			createErr: apperrors.NewValidationError().Add("name", "must be at least 3 characters"),
		}
		router := newClickTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/clicks",
			strings.NewReader(`{"name":"ab"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, dto.ErrorCodeValidationFailed, body.Error.Code)
	})

	t.Run("creation failure returns 500", func(t *testing.T) {
		svc := &stubClickService{
			createErr: apperrors.NewCustomError(apperrors.ErrClickCreationFailed, "could not create click"),
		}
		router := newClickTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/clicks",
			strings.NewReader(`{"name":"Family Photos"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)

		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, dto.ErrorCodeClickCreationFailed, body.Error.Code)
	})

	t.Run("malformed id parameter returns 400", func(t *testing.T) {
		router := newClickTestRouter(&stubClickService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/clicks/abc", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
