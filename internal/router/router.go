package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-portal-api/pkg/middleware/requestid"
)

// Options controls the optional parts of the route table.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	AuthRequired   bool
	EnableDocs     bool
}

// Handlers groups every HTTP handler mounted by New. Files may be nil when the
// local storage backend is not in use.
type Handlers struct {
	Profile   *handler.ProfileHandler
	Auth      *handler.AuthHandler
	Students  *handler.StudentHandler
	Guardians *handler.GuardianHandler
	Exports   *handler.ExportHandler
	Files     *handler.FilesHandler
	Metrics   *handler.MetricsHandler
}

type tokenValidator interface {
	ValidateToken(token string) (*models.GuardianClaims, error)
}

// New builds the gin engine with middleware and the full route table.
func New(opts Options, h Handlers, auth tokenValidator, metrics *service.MetricsService, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log, "/health", "/metrics"))
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(opts.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)
	if h.Files != nil {
		api.GET("/files/:token", h.Files.Download)
	}

	students := api.Group("/students")
	{
		students.GET("", h.Students.List)
		students.POST("", h.Students.Create)
		students.GET("/:id", h.Students.Get)
		students.PUT("/:id", h.Students.Update)
		students.DELETE("/:id", h.Students.Delete)

		students.GET("/:id/home", h.Profile.Home)
		students.GET("/:id/about", h.Profile.About)
		students.GET("/:id/reports", h.Profile.Reports)
		students.GET("/:id/reports/export", h.Exports.ReportSummary)
		students.GET("/:id/timetable", h.Profile.Timetable)
	}

	guardians := api.Group("/guardians")
	{
		guardians.POST("", h.Guardians.Create)
		guardians.GET("/:id", h.Guardians.Get)
		guardians.PUT("/:id", h.Guardians.Update)
		guardians.DELETE("/:id", h.Guardians.Delete)
	}

	scoped := guardians.Group("/:id")
	scoped.Use(middleware.Chain(opts.AuthRequired, middleware.JWT(auth), middleware.GuardianScope())...)
	{
		scoped.POST("/change-password", h.Auth.ChangePassword)
		scoped.GET("/students", h.Profile.Children)
		scoped.GET("/pi", h.Profile.GuardianInfo)
	}

	return r
}
