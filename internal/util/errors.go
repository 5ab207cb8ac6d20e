package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrExamNotFound       = errors.New("exam not found")
	ErrResultNotFound     = errors.New("result not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrAppealNotFound     = errors.New("appeal not found")
	ErrCodeAnswerNotFound = errors.New("code answer not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrCourseCodeTaken    = errors.New("course code already exists")

	// ErrInvalidSubmission rejects a malformed submission before any state is touched.
	ErrInvalidSubmission = errors.New("invalid result submission")
	// ErrResultProcessing is returned for any failure after validation; the
	// submission is rolled back when it is returned.
	ErrResultProcessing = errors.New("failed to process result")
	// ErrConcurrentUpdate means the exam document changed since it was read.
	ErrConcurrentUpdate = errors.New("exam was modified concurrently")

	ErrExamHasResults = errors.New("exam already has results")
	ErrQuestionInUse  = errors.New("question is used by an exam")
	ErrInvalidInput   = errors.New("invalid input")
)
