package controller

import (
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// CreateMCQ godoc
// @Summary Create MCQ question
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.MCQInput true "question"
// @Success 201 {object} util.Response{data=model.MCQQuestion}
// @Router /api/mcq-questions [post]
func (c *QuestionController) CreateMCQ(ctx *gin.Context) {
	var in service.MCQInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	q, err := c.QuestionService.CreateMCQ(ctx.Request.Context(), claims.UserID, &in)
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// GetMCQ godoc
// @Summary Get MCQ question
// @Description Students get the options without correctness flags
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "question id"
// @Success 200 {object} util.Response{data=model.MCQQuestion}
// @Router /api/mcq-questions/{id} [get]
func (c *QuestionController) GetMCQ(ctx *gin.Context) {
	q, err := c.QuestionService.GetMCQ(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}

	if claims := util.GetUserFromContext(ctx); claims != nil && claims.Role == model.Student {
		q = service.HideAnswers(q)
	}
	util.Success(ctx, q)
}

// @Summary Update MCQ question
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "question id"
// @Param body body service.MCQInput true "question"
// @Success 200 {object} util.Response{data=model.MCQQuestion}
// @Failure 409 {object} util.Response "already used for scoring"
// @Router /api/mcq-questions/{id} [put]
func (c *QuestionController) UpdateMCQ(ctx *gin.Context) {
	var in service.MCQInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.UpdateMCQ(ctx.Request.Context(), ctx.Param("id"), &in, util.GetUserFromContext(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary Delete MCQ question
// @Tags questions
// @Security ApiKeyAuth
// @Param id path string true "question id"
// @Success 200 {object} util.Response
// @Router /api/mcq-questions/{id} [delete]
func (c *QuestionController) DeleteMCQ(ctx *gin.Context) {
	if err := c.QuestionService.DeleteMCQ(ctx.Request.Context(), ctx.Param("id"), util.GetUserFromContext(ctx)); err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Create code question
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CodeQuestionInput true "question"
// @Success 201 {object} util.Response{data=model.CodeQuestion}
// @Router /api/code-questions [post]
func (c *QuestionController) CreateCode(ctx *gin.Context) {
	var in service.CodeQuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	q, err := c.QuestionService.CreateCode(ctx.Request.Context(), claims.UserID, &in)
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary Get code question
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "question id"
// @Success 200 {object} util.Response{data=model.CodeQuestion}
// @Router /api/code-questions/{id} [get]
func (c *QuestionController) GetCode(ctx *gin.Context) {
	q, err := c.QuestionService.GetCode(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary Update code question
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "question id"
// @Param body body service.CodeQuestionInput true "question"
// @Success 200 {object} util.Response{data=model.CodeQuestion}
// @Router /api/code-questions/{id} [put]
func (c *QuestionController) UpdateCode(ctx *gin.Context) {
	var in service.CodeQuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.UpdateCode(ctx.Request.Context(), ctx.Param("id"), &in, util.GetUserFromContext(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary Delete code question
// @Tags questions
// @Security ApiKeyAuth
// @Param id path string true "question id"
// @Success 200 {object} util.Response
// @Router /api/code-questions/{id} [delete]
func (c *QuestionController) DeleteCode(ctx *gin.Context) {
	if err := c.QuestionService.DeleteCode(ctx.Request.Context(), ctx.Param("id"), util.GetUserFromContext(ctx)); err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
