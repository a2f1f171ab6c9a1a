package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tenco/blog/config"
	"github.com/tenco/blog/controllers"
	"github.com/tenco/blog/middleware"
	"github.com/tenco/blog/repositories"
	"github.com/tenco/blog/services"
	"github.com/tenco/blog/utils"
	"github.com/tenco/blog/views"
)

// SetupRouter wires repositories, services, controllers and middlewares.
func SetupRouter(db *gorm.DB, sessions utils.SessionStore) (*gin.Engine, error) {
	cfg := config.Get()
	switch cfg.App.GinMode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	gl, err := utils.NewRollingFileLogger(cfg.App.GinPath, cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("gin logger: %w", err)
	}
	r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(gl, true))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.App.AllowedOrigins) == 1 && cfg.App.AllowedOrigins[0] == "*" {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.App.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.SessionLoader(sessions, cfg.Session.CookieName))

	tmpl, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	logger := utils.L()
	boardRepo := repositories.NewBoardRepository(db)
	replyRepo := repositories.NewReplyRepository(db)
	userRepo := repositories.NewUserRepository(db)

	boardService := services.NewBoardService(db, boardRepo, replyRepo, userRepo, logger)
	replyService := services.NewReplyService(db, boardRepo, replyRepo, userRepo, logger)
	userService := services.NewUserService(db, userRepo, logger)

	boardController := controllers.NewBoardController(boardService, logger)
	replyController := controllers.NewReplyController(replyService, logger)
	userController := controllers.NewUserController(userService, sessions, cfg.Session, logger)
	healthController := controllers.NewHealthController(db, sessions)

	limiter := middleware.NewRateLimiter(cfg.App.RateLimitPerMinute).Middleware()

	r.GET("/health", healthController.Check)

	r.GET("/", boardController.Index)
	r.GET("/login-form", userController.LoginForm)
	r.GET("/join-form", userController.JoinForm)
	r.POST("/login", limiter, userController.Login)
	r.POST("/join", limiter, userController.Join)
	r.POST("/logout", userController.Logout)

	// gin matches the static segment before the :id wildcard
	r.GET("/board/save-form", middleware.LoginRequired(), boardController.SaveForm)
	r.GET("/board/:id", boardController.Detail)

	board := r.Group("/board", middleware.LoginRequired())
	board.POST("/save", limiter, boardController.Save)
	board.GET("/:id/board-update", boardController.UpdateForm)
	board.POST("/:id/update-form", limiter, boardController.Update)
	board.POST("/:id/delete", limiter, boardController.Delete)

	reply := r.Group("/reply", middleware.LoginRequired(), limiter)
	reply.POST("/save", replyController.Save)
	reply.POST("/:id/delete", replyController.Delete)

	r.NoRoute(func(ctx *gin.Context) {
		ctx.HTML(http.StatusNotFound, "error", gin.H{
			"status":      http.StatusNotFound,
			"message":     "page not found",
			"sessionUser": middleware.CurrentUser(ctx),
		})
	})

	return r, nil
}
