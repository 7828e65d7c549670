// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AmitMalivad/social-media-post-generator-tool/internal/config"
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/handler"
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/middleware"
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/pipeline"
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/repository"
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/service"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/database"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/es"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/kafka"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/llm"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/log"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/storage"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/token"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis、MinIO、Elasticsearch、Kafka
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	// 4. 初始化 Repository
	projectRepo := repository.NewProjectRepository(database.DB)
	postRepo := repository.NewPostRepository(database.DB)
	userRepo := repository.NewUserRepository(database.DB)
	resultCache := repository.NewResultCacheRepository(database.RDB)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	llmClient := llm.NewClient(cfg.LLM)
	cacheTTL := time.Duration(cfg.Cache.ResultTTLHours) * time.Hour
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	userService := service.NewUserService(userRepo, jwtManager)
	contentService := service.NewContentService(projectRepo, postRepo, resultCache, llmClient, cfg.MinIO, cacheTTL)
	searchService := service.NewSearchService(es.ESClient, cfg.Elasticsearch.IndexName)

	// 6. 初始化帖子索引流水线 (Indexer) 并启动后台 Kafka 消费者
	indexer := pipeline.NewIndexer(postRepo, cfg.Elasticsearch)
	go kafka.StartConsumer(cfg.Kafka, indexer)

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.CORS(), middleware.RequestLogger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 8. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组
		auth := apiV1.Group("/auth")
		{
			auth.POST("/refreshToken", handler.NewAuthHandler(userService).RefreshToken)
		}

		users := apiV1.Group("/users")
		{
			users.POST("/register", handler.NewUserHandler(userService).Register)
			users.POST("/login", handler.NewUserHandler(userService).Login)
		}

		// Content 路由组；生成入口保持公开，历史查询需要认证
		content := apiV1.Group("/content")
		{
			content.POST("", handler.NewContentHandler(contentService).Generate)

			authed := content.Group("/")
			authed.Use(middleware.AuthMiddleware(jwtManager, userService))
			{
				authed.GET("/projects", handler.NewContentHandler(contentService).ListProjects)
				authed.GET("/projects/:id", handler.NewContentHandler(contentService).GetProject)
			}
		}

		// Search 路由组，需要认证
		search := apiV1.Group("/search")
		search.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			search.GET("", handler.NewSearchHandler(searchService).SearchPosts)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	// Kafka 消费者是一个循环，会在进程退出时自然结束
	log.Info("服务已优雅关闭")
}
