package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/admissions-crm-api/api/swagger"
	"github.com/noah-isme/admissions-crm-api/internal/handler"
	"github.com/noah-isme/admissions-crm-api/internal/middleware"
	"github.com/noah-isme/admissions-crm-api/internal/service"
	"github.com/noah-isme/admissions-crm-api/pkg/config"
	"github.com/noah-isme/admissions-crm-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/admissions-crm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/admissions-crm-api/pkg/middleware/requestid"
)

type routerDeps struct {
	auth        *service.AuthService
	catalog     *service.CatalogService
	roster      *service.RosterService
	surveys     *service.SurveyService
	intake      *service.IntakeService
	enrollments *service.EnrollmentTotalService
	coverage    *service.CoverageService
	exporter    *service.ExportService
	breakdowns  *service.BreakdownService
	metrics     *service.MetricsService
	db          handler.Pinger
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.RequestMetrics(deps.metrics, cfg.APIPrefix))

	metricsHandler := handler.NewMetricsHandler(deps.metrics, deps.db)
	authHandler := handler.NewAuthHandler(deps.auth)
	catalogHandler := handler.NewCatalogHandler(deps.catalog)
	rosterHandler := handler.NewRosterHandler(deps.roster)
	surveyHandler := handler.NewSurveyHandler(deps.surveys)
	intakeHandler := handler.NewIntakeHandler(deps.intake)
	enrollmentHandler := handler.NewEnrollmentHandler(deps.enrollments)
	analyticsHandler := handler.NewAnalyticsHandler(deps.coverage, deps.exporter, deps.breakdowns)

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	intakeBot := api.Group("/bot1", middleware.ServiceToken(service.IntakeServiceName, cfg.Services.Tokens))
	intakeBot.POST("/admissions-2026/submit", intakeHandler.SubmitAdmission)
	intakeBot.POST("/polito-academy/submit", intakeHandler.SubmitAcademy)

	bot := api.Group("/bot2", middleware.ServiceToken(service.SurveyServiceName, cfg.Services.Tokens))
	bot.POST("/surveys/submit", surveyHandler.Submit)

	secured := api.Group("", middleware.JWT(deps.auth))
	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/auth/logout", authHandler.Logout)

	viewer := secured.Group("", middleware.RequireViewer())
	viewer.GET("/catalog/items", catalogHandler.Items)
	viewer.GET("/catalog/programs", catalogHandler.Programs)
	viewer.GET("/bot2/roster", rosterHandler.List)
	viewer.GET("/bot2/surveys", surveyHandler.List)
	viewer.GET("/bot2/enrollments", enrollmentHandler.List)

	analytics := viewer.Group("/analytics", middleware.WithResponseMeta())
	analytics.GET("/bot2/course-year-coverage", analyticsHandler.CourseYearCoverage)
	analytics.GET("/bot2/program-coverage", analyticsHandler.ProgramCoverage)
	analytics.GET("/bot2/program-course-matrix", analyticsHandler.ProgramCourseMatrix)
	analytics.GET("/bot2/program-details-by-year", analyticsHandler.ProgramDetailsByYear)
	analytics.GET("/bot2/enrollments-overview", analyticsHandler.EnrollmentOverview)
	analytics.GET("/bot2/enrollments-overview/export", analyticsHandler.ExportEnrollmentOverview)
	analytics.GET("/bot2/academic-years", analyticsHandler.AcademicYears)
	analytics.GET("/admissions-2026/by-direction", analyticsHandler.AdmissionsByDirection)
	analytics.GET("/admissions-2026/by-track", analyticsHandler.AdmissionsByTrack)
	analytics.GET("/polito-academy/by-subject", analyticsHandler.AcademyBySubject)

	admin := secured.Group("", middleware.RequireAdmin())
	admin.POST("/admin/roster/import", rosterHandler.Import)
	admin.POST("/bot2/enrollments", enrollmentHandler.Upsert)
	admin.GET("/system/metrics", metricsHandler.Snapshot)

	return r
}
