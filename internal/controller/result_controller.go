package controller

import (
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	ResultService *service.ResultService
}

func NewResultController(resultService *service.ResultService) *ResultController {
	return &ResultController{ResultService: resultService}
}

// SubmitResult godoc
// @Summary Submit exam answers
// @Description Scores the answers by position against the exam's MCQ list, stores the
// @Description single result of the (exam, student) pair and re-ranks the exam.
// @Tags results
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitResultRequest true "submission"
// @Success 201 {object} util.Response{data=model.Result}
// @Failure 400 {object} util.Response "invalid submission or processing failure"
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response "exam or student not found"
// @Router /api/result [post]
func (c *ResultController) SubmitResult(ctx *gin.Context) {
	var req service.SubmitResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if req.StudentID == "" && claims.Role == model.Student {
		req.StudentID = claims.UserID
	}
	if claims.Role != model.Admin && req.StudentID != claims.UserID {
		util.Forbidden(ctx)
		return
	}

	result, err := c.ResultService.Submit(ctx.Request.Context(), &req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// ownsOrStaff lets staff read any result and students only their own.
func ownsOrStaff(claims *util.Claims, result *model.Result) bool {
	return claims.Role != model.Student || result.StudentID == claims.UserID
}

// @Summary Get result
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "result id"
// @Success 200 {object} util.Response{data=model.Result}
// @Router /api/result/{id} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	result, err := c.ResultService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	if !ownsOrStaff(util.GetUserFromContext(ctx), result) {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, result)
}

// @Summary Get a student's result of an exam
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "exam id"
// @Param username path string true "student username"
// @Success 200 {object} util.Response{data=model.Result}
// @Router /api/result/{id}/{username} [get]
func (c *ResultController) GetExamResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	username := ctx.Param("username")
	if claims.Role == model.Student && claims.Username != username {
		util.Forbidden(ctx)
		return
	}

	result, err := c.ResultService.GetByExamAndUsername(ctx.Request.Context(), ctx.Param("id"), username)
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Download a code answer
// @Description Streams the submitted source of one code question of a result.
// @Description Students may only read their own answers.
// @Tags results
// @Produce plain
// @Security ApiKeyAuth
// @Param id path string true "result id"
// @Param questionId path string true "code question id"
// @Success 200 {string} string "source"
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/code-answers/{id}/{questionId} [get]
func (c *ResultController) GetCodeAnswer(ctx *gin.Context) {
	answer, rc, err := c.ResultService.OpenCodeAnswer(ctx.Request.Context(), ctx.Param("id"), ctx.Param("questionId"), util.GetUserFromContext(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	defer rc.Close()

	ctx.DataFromReader(http.StatusOK, -1, "text/plain; charset=utf-8", rc, map[string]string{
		"X-Code-Language": answer.Language,
	})
}

// @Summary Delete result
// @Description Removes the result and its appeals; the exam analytics and ranks are rebuilt
// @Tags results
// @Security ApiKeyAuth
// @Param id path string true "result id"
// @Success 200 {object} util.Response
// @Router /api/result/{id} [delete]
func (c *ResultController) DeleteResult(ctx *gin.Context) {
	if err := c.ResultService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
