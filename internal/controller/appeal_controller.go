package controller

import (
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AppealController struct {
	AppealService *service.AppealService
}

func NewAppealController(appealService *service.AppealService) *AppealController {
	return &AppealController{AppealService: appealService}
}

// @Summary Appeal a result
// @Tags appeals
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AppealInput true "appeal"
// @Success 201 {object} util.Response{data=model.Appeal}
// @Router /api/appeal [post]
func (c *AppealController) CreateAppeal(ctx *gin.Context) {
	var in service.AppealInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	appeal, err := c.AppealService.Create(ctx.Request.Context(), claims.UserID, &in)
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Created(ctx, appeal)
}

// @Summary Get appeal
// @Tags appeals
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "appeal id"
// @Success 200 {object} util.Response{data=model.Appeal}
// @Router /api/appeal/{id} [get]
func (c *AppealController) GetAppeal(ctx *gin.Context) {
	appeal, err := c.AppealService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	claims := util.GetUserFromContext(ctx)
	if claims.Role == model.Student && appeal.StudentID != claims.UserID {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, appeal)
}

// @Summary Resolve appeal
// @Tags appeals
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "appeal id"
// @Param body body service.ResolveAppealInput true "decision"
// @Success 200 {object} util.Response{data=model.Appeal}
// @Router /api/appeal/{id} [put]
func (c *AppealController) ResolveAppeal(ctx *gin.Context) {
	var in service.ResolveAppealInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	appeal, err := c.AppealService.Resolve(ctx.Request.Context(), ctx.Param("id"), &in, util.GetUserFromContext(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, appeal)
}

// @Summary Delete appeal
// @Tags appeals
// @Security ApiKeyAuth
// @Param id path string true "appeal id"
// @Success 200 {object} util.Response
// @Router /api/appeal/{id} [delete]
func (c *AppealController) DeleteAppeal(ctx *gin.Context) {
	if err := c.AppealService.Delete(ctx.Request.Context(), ctx.Param("id"), util.GetUserFromContext(ctx)); err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
