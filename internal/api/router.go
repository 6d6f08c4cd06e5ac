package api

import (
	"noticeboard/config"
	"noticeboard/internal/api/handler"
	"noticeboard/internal/middleware"
	"noticeboard/internal/repository"
	"noticeboard/internal/scheduler"
	"noticeboard/internal/service"
	"noticeboard/pkg/async"
	"noticeboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// SetupRouter 设置API路由，同时完成依赖装配并启动后台调度器
func SetupRouter(cfg *config.Config, logger *logger.Logger, db *sqlx.DB, redisClient *redis.Client) (*gin.Engine, *scheduler.ViewCountScheduler) {
	// 创建Gin引擎
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 使用中间件
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// 创建异步工作器
	worker := async.NewWorker(100, logger)
	worker.Start(5) // 启动5个工作协程

	// 初始化存储库
	memberRepo := repository.NewMemberRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	viewCache := repository.NewViewCountCache(redisClient)
	listCache := repository.NewNoticeListCache(redisClient, logger)

	// 初始化服务
	viewCountService := service.NewViewCountService(viewCache, logger)
	noticeService := service.NewNoticeService(memberRepo, noticeRepo, attachmentRepo, listCache, viewCountService, worker, logger)
	memberService := service.NewMemberService(memberRepo, logger)

	// 初始化浏览量刷库调度器
	viewCountScheduler := scheduler.NewViewCountScheduler(viewCache, noticeRepo, logger, cfg.ViewCount.FlushInterval)
	viewCountScheduler.Start()

	// 初始化处理器
	noticeHandler := handler.NewNoticeHandler(noticeService, logger)
	memberHandler := handler.NewMemberHandler(memberService, logger)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API版本v1
	v1 := router.Group("/api/v1")

	// 公告相关路由
	v1.POST("/notices", noticeHandler.CreateNotice)
	v1.GET("/notices", noticeHandler.GetNoticeList)
	v1.GET("/notices/:id", noticeHandler.GetNotice)
	v1.PUT("/notices/:id", noticeHandler.UpdateNotice)
	v1.DELETE("/notices/:id", noticeHandler.DeleteNotice)

	// 用户相关路由
	v1.POST("/members", memberHandler.Register)
	v1.GET("/members/:id", memberHandler.GetMember)

	return router, viewCountScheduler
}
