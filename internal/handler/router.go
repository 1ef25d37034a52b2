package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-directory-api/internal/middleware"
	"github.com/noah-isme/faculty-directory-api/internal/service"
	"github.com/noah-isme/faculty-directory-api/pkg/config"
	"github.com/noah-isme/faculty-directory-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/faculty-directory-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/faculty-directory-api/pkg/middleware/requestid"
)

// RouterConfig collects everything the HTTP surface needs.
type RouterConfig struct {
	Cfg    *config.Config
	Logger *zap.Logger

	Departments *DepartmentHandler
	Professors  *ProfessorHandler
	Courses     *CourseHandler
	Schedules   *ScheduleHandler
	Auth        *AuthHandler
	Exports     *ExportHandler

	AuthService *service.AuthService
	Metrics     *service.MetricsService
	Redis       *redis.Client
}

// NewRouter assembles the gin engine: reads are public, every mutation
// sits behind admin JWT.
func NewRouter(rc RouterConfig) *gin.Engine {
	if rc.Cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(rc.Logger))
	r.Use(corsmiddleware.New(rc.Cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(rc.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(rc.Metrics.Handler()))

	if rc.Cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Static("/photos", rc.Cfg.Photos.Dir)

	api := r.Group(rc.Cfg.APIPrefix)

	public := api.Group("")
	if rc.Cfg.Cache.Enabled && rc.Redis != nil {
		public.Use(middleware.Cache(rc.Redis, rc.Cfg.Cache.TTL, rc.Metrics))
	}
	public.GET("/departments", rc.Departments.List)
	public.GET("/departments/:id", rc.Departments.Get)
	public.GET("/professors", rc.Professors.List)
	public.GET("/professors/:id", rc.Professors.Get)
	public.GET("/professors/:id/schedule", rc.Schedules.ListForProfessor)
	public.GET("/courses", rc.Courses.List)
	public.GET("/courses/:code", rc.Courses.Get)
	public.GET("/schedules", rc.Schedules.ListAll)
	public.GET("/exports/directory", rc.Exports.Directory)
	public.GET("/exports/professors/:id/schedule", rc.Exports.ProfessorSchedule)
	public.GET("/exports/schedules", rc.Exports.Roster)

	api.POST("/auth/login", rc.Auth.Login)

	admin := api.Group("")
	admin.Use(middleware.JWT(rc.AuthService))
	admin.Use(invalidateOnWrite(rc.Redis))

	admin.GET("/auth/me", rc.Auth.Me)
	admin.POST("/auth/change-password", rc.Auth.ChangePassword)
	admin.GET("/auth/admins", rc.Auth.ListAdmins)
	admin.POST("/auth/admins", rc.Auth.CreateAdmin)

	admin.POST("/departments", rc.Departments.Create)
	admin.PUT("/departments/:id", rc.Departments.Update)
	admin.DELETE("/departments/:id", rc.Departments.Delete)

	admin.POST("/professors", rc.Professors.Create)
	admin.PUT("/professors/:id", rc.Professors.Update)
	admin.DELETE("/professors/:id", rc.Professors.Delete)
	admin.POST("/professors/:id/photo", rc.Professors.UploadPhoto)

	admin.POST("/courses", rc.Courses.Create)
	admin.PUT("/courses/:code", rc.Courses.Update)
	admin.DELETE("/courses/:code", rc.Courses.Delete)

	admin.POST("/schedules", rc.Schedules.Create)
	admin.PUT("/schedules/:id", rc.Schedules.Update)
	admin.DELETE("/schedules/:id", rc.Schedules.Delete)

	return r
}

// invalidateOnWrite drops cached reads after any successful mutation.
func invalidateOnWrite(client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if client == nil || c.Request.Method == http.MethodGet {
			return
		}
		if status := c.Writer.Status(); status >= 200 && status < 300 {
			middleware.InvalidateCache(client)
		}
	}
}
