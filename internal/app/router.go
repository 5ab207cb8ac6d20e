package app

import (
	"exam_portal_backend/docs"
	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/middleware"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		authGroup.GET("/profile", c.auth.Profile)

		a.registerAdminRoutes(authGroup, c)
		a.registerCourseRoutes(authGroup, c)
		a.registerQuestionRoutes(authGroup, c)
		a.registerExamRoutes(authGroup, c)
		a.registerResultRoutes(authGroup, c)
		a.registerAppealRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin", middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/users", c.user.CreateUser)
		admin.GET("/users", c.user.ListUsers)
		admin.GET("/users/:id", c.user.GetUser)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.DELETE("/users/:id", c.user.DeleteUser)
	}
}

func (a *App) registerCourseRoutes(rg *gin.RouterGroup, c *controllers) {
	incharge := middleware.RoleMiddleware(model.ProgramIncharge)

	rg.GET("/courses", c.course.ListCourses)
	rg.GET("/courses/:id", c.course.GetCourse)
	rg.POST("/courses", incharge, c.course.CreateCourse)
	rg.PUT("/courses/:id", incharge, c.course.UpdateCourse)
	rg.DELETE("/courses/:id", incharge, c.course.DeleteCourse)
}

func (a *App) registerQuestionRoutes(rg *gin.RouterGroup, c *controllers) {
	professor := middleware.RoleMiddleware(model.Professor)

	rg.GET("/mcq-questions/:id", c.question.GetMCQ)
	rg.POST("/mcq-questions", professor, c.question.CreateMCQ)
	rg.PUT("/mcq-questions/:id", professor, c.question.UpdateMCQ)
	rg.DELETE("/mcq-questions/:id", professor, c.question.DeleteMCQ)

	rg.GET("/code-questions/:id", c.question.GetCode)
	rg.POST("/code-questions", professor, c.question.CreateCode)
	rg.PUT("/code-questions/:id", professor, c.question.UpdateCode)
	rg.DELETE("/code-questions/:id", professor, c.question.DeleteCode)
}

func (a *App) registerExamRoutes(rg *gin.RouterGroup, c *controllers) {
	professor := middleware.RoleMiddleware(model.Professor)
	staff := middleware.RoleMiddleware(model.Professor, model.ProgramIncharge)

	rg.GET("/exams", c.exam.ListExams)
	rg.GET("/exams/:id", c.exam.GetExam)
	rg.POST("/exams", professor, c.exam.CreateExam)
	rg.PUT("/exams/:id", professor, c.exam.UpdateExam)
	rg.DELETE("/exams/:id", professor, c.exam.DeleteExam)
	rg.GET("/exams/:id/results", staff, c.exam.ListResults)
	rg.GET("/exams/:id/appeals", staff, c.exam.ListAppeals)
}

func (a *App) registerResultRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/result", middleware.RoleMiddleware(model.Student), c.result.SubmitResult)
	rg.GET("/result/:id", c.result.GetResult)
	// :id is the exam here; gin needs one wildcard name per segment
	rg.GET("/result/:id/:username", c.result.GetExamResult)
	rg.DELETE("/result/:id", middleware.RoleMiddleware(model.Admin), c.result.DeleteResult)
	rg.GET("/code-answers/:id/:questionId", c.result.GetCodeAnswer)
}

func (a *App) registerAppealRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/appeal", middleware.RoleMiddleware(model.Student), c.appeal.CreateAppeal)
	rg.GET("/appeal/:id", c.appeal.GetAppeal)
	rg.PUT("/appeal/:id", middleware.RoleMiddleware(model.Professor), c.appeal.ResolveAppeal)
	rg.DELETE("/appeal/:id", middleware.RoleMiddleware(model.Student), c.appeal.DeleteAppeal)
}
