package middleware

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/extracenter/backend/internal/app/models/dto"
	"github.com/extracenter/backend/internal/pkg/apperrors"
)

func handle(t *testing.T, err error) (int, *dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	HandleAPIError(c, err)

	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return w.Code, &resp
}

func TestHandleAPIErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{apperrors.ErrUserNotFound, 404, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrCenterNotFound, 404, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrCourseNotFound, 404, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrTeacherNotFound, 404, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrStudentNotFound, 404, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrNotMember, 404, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrNotEnrolled, 404, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrSlotNotFound, 404, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrEmailAlreadyExists, 409, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrAlreadyMember, 409, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrAlreadyEnrolled, 409, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrCenterHasCourses, 409, dto.ErrorCodeResourceConflict},
		{apperrors.ErrCourseHasEnrollments, 409, dto.ErrorCodeResourceConflict},
		{apperrors.ErrPermissionDenied, 403, dto.ErrorCodeForbidden},
		{apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrAccountDisabled, 401, dto.ErrorCodeAccountDisabled},
		{apperrors.ErrAccountLocked, 401, dto.ErrorCodeAccountLocked},
		{apperrors.ErrTokenExpired, 401, dto.ErrorCodeExpiredToken},
		{apperrors.ErrTokenInvalid, 401, dto.ErrorCodeInvalidToken},
		{apperrors.ErrValidationFailed, 400, dto.ErrorCodeValidationFailed},
		{apperrors.ErrBadRequest, 400, dto.ErrorCodeValidationFailed},
		{fmt.Errorf("unexpected"), 500, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		status, resp := handle(t, tc.err)
		if status != tc.wantStatus {
			t.Errorf("%v: expected status %d, got %d", tc.err, tc.wantStatus, status)
		}
		if resp.Error == nil || resp.Error.Code != tc.wantCode {
			t.Errorf("%v: expected code %s, got %+v", tc.err, tc.wantCode, resp.Error)
		}
	}
}

func TestHandleAPIErrorWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading course: %w", apperrors.ErrCourseNotFound)
	status, _ := handle(t, wrapped)
	if status != 404 {
		t.Errorf("expected wrapped sentinel to map to 404, got %d", status)
	}

	custom := apperrors.NewConflictError("user still manages centers")
	status, resp := handle(t, custom)
	if status != 409 {
		t.Errorf("expected CustomError conflict to map to 409, got %d", status)
	}
	if resp.Error.Message != "user still manages centers" {
		t.Errorf("expected custom message preserved, got %q", resp.Error.Message)
	}
}
