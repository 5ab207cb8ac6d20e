package controller

import (
	"errors"
	"exam_portal_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto the response envelope. Anything not
// listed is logged and reported as a 500.
func writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidSubmission),
		errors.Is(err, util.ErrInvalidInput):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrResultProcessing):
		util.BadRequest(ctx, util.ErrResultProcessing.Error())
	case errors.Is(err, util.ErrExamNotFound),
		errors.Is(err, util.ErrStudentNotFound),
		errors.Is(err, util.ErrResultNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrAppealNotFound),
		errors.Is(err, util.ErrCodeAnswerNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFoundMessage(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrUsernameTaken),
		errors.Is(err, util.ErrCourseCodeTaken),
		errors.Is(err, util.ErrExamHasResults),
		errors.Is(err, util.ErrQuestionInUse),
		errors.Is(err, util.ErrConcurrentUpdate):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
