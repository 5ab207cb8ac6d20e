package controller

import (
	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService   *service.ExamService
	ResultService *service.ResultService
	AppealService *service.AppealService
}

func NewExamController(examService *service.ExamService, resultService *service.ResultService, appealService *service.AppealService) *ExamController {
	return &ExamController{
		ExamService:   examService,
		ResultService: resultService,
		AppealService: appealService,
	}
}

// CreateExam godoc
// @Summary Create exam
// @Description Referenced questions and course must exist; max marks default to the question total
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ExamInput true "exam"
// @Success 201 {object} util.Response{data=model.Exam}
// @Failure 404 {object} util.Response
// @Router /api/exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	var in service.ExamInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	exam, err := c.ExamService.Create(ctx.Request.Context(), claims.UserID, &in)
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// @Summary List exams
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param courseId query string false "course filter"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx)
	exams, total, err := c.ExamService.List(ctx.Request.Context(), ctx.Query("courseId"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: exams, Total: total, Page: page, Limit: limit})
}

// @Summary Get exam with analytics
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "exam id"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	exam, err := c.ExamService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary Update exam
// @Description The question lists cannot change once results exist
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "exam id"
// @Param body body service.ExamInput true "exam"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 409 {object} util.Response
// @Router /api/exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	var in service.ExamInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.Update(ctx.Request.Context(), ctx.Param("id"), &in, util.GetUserFromContext(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary Delete exam
// @Tags exams
// @Security ApiKeyAuth
// @Param id path string true "exam id"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "exam has results"
// @Router /api/exams/{id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	if err := c.ExamService.Delete(ctx.Request.Context(), ctx.Param("id"), util.GetUserFromContext(ctx)); err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Results of an exam, best rank first
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "exam id"
// @Success 200 {object} util.Response{data=[]model.Result}
// @Router /api/exams/{id}/results [get]
func (c *ExamController) ListResults(ctx *gin.Context) {
	results, err := c.ResultService.ListByExam(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// @Summary Appeals of an exam
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "exam id"
// @Success 200 {object} util.Response{data=[]model.Appeal}
// @Router /api/exams/{id}/appeals [get]
func (c *ExamController) ListAppeals(ctx *gin.Context) {
	appeals, err := c.AppealService.ListByExam(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, appeals)
}
