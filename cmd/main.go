package main

import (
	"fmt"
	"log"

	"DugoutSync/internal/api"
	"DugoutSync/internal/config"
	"DugoutSync/internal/service"
	"DugoutSync/internal/storage"

	// 注册三个AI提供方适配器工厂
	_ "DugoutSync/internal/adapter/anthropic"
	_ "DugoutSync/internal/adapter/ollama"
	_ "DugoutSync/internal/adapter/openai"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logrusLogger := logrus.New()
	logrusLogger.SetLevel(logrus.InfoLevel)
	logrusLogger.Info("配置文件加载成功")

	// 3. 初始化JSON文件存储（目录不存在则创建，空集合播种默认内容）
	store, err := storage.NewStore(cfg.Storage.DataDir, logrusLogger)
	if err != nil {
		logrusLogger.Fatalf("初始化存储失败: %v", err)
	}
	logrusLogger.Infof("数据目录就绪: %s", store.DataDir())

	// 4. 初始化AI网关与Lyra服务
	gateway := service.NewAIGateway(cfg.AI, logrusLogger)
	lyra := service.NewLyraService(gateway, logrusLogger)

	// 5. 配置Gin运行模式（从配置读取：debug/release）
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	// 注册ppof 方便调试和监测性能问题
	pprof.Register(r)
	logrusLogger.Infof("Gin运行模式: %s", cfg.Server.Mode)

	// 6. CORS：本地前端开发端口
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:8080", "http://localhost:5173"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(corsConfig))

	// 7. 注册API路由
	healthHandler := api.NewHealthHandler(lyra, logrusLogger)
	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Health)

	playerHandler := api.NewPlayerHandler(store, logrusLogger)
	r.GET("/players", playerHandler.ListPlayers)
	r.POST("/players", playerHandler.CreatePlayer)
	r.GET("/players/:player_id", playerHandler.GetPlayer)
	r.PUT("/players/:player_id", playerHandler.UpdatePlayer)
	r.DELETE("/players/:player_id", playerHandler.DeletePlayer)

	lineupHandler := api.NewLineupHandler(store, logrusLogger)
	r.GET("/lineup", lineupHandler.GetLineup)
	r.PUT("/lineup", lineupHandler.UpdateLineup)
	r.GET("/field", lineupHandler.GetField)
	r.PUT("/field", lineupHandler.UpdateField)

	configHandler := api.NewConfigHandler(store, logrusLogger)
	r.GET("/configurations", configHandler.ListConfigurations)
	r.POST("/configurations", configHandler.CreateConfiguration)
	r.GET("/configurations/:config_id", configHandler.GetConfiguration)
	r.DELETE("/configurations/:config_id", configHandler.DeleteConfiguration)

	gameHandler := api.NewGameHandler(store, logrusLogger)
	r.GET("/games", gameHandler.ListGames)
	r.POST("/games", gameHandler.CreateGame)
	r.GET("/games/:game_id", gameHandler.GetGame)
	r.PUT("/games/:game_id", gameHandler.UpdateGame)
	r.DELETE("/games/:game_id", gameHandler.DeleteGame)
	r.GET("/games/:game_id/stats", gameHandler.GetGameStats)
	r.POST("/games/:game_id/stats", gameHandler.SaveGameStats)
	r.GET("/players/:player_id/stats", gameHandler.GetPlayerStats)
	r.GET("/players/:player_id/stats/season", gameHandler.GetPlayerSeasonStats)

	aiHandler := api.NewAIHandler(gateway, lyra, logrusLogger)
	r.POST("/lyra/analyze", aiHandler.AnalyzeWithLyra)
	r.POST("/lyra/chat/stream", aiHandler.StreamChat)
	r.GET("/settings/ai", aiHandler.GetAISettings)
	r.PUT("/settings/ai", aiHandler.UpdateAISettings)

	// 8. 启动服务（从配置读取端口）
	port := cfg.Server.Port
	logrusLogger.Infof("服务启动成功，端口：%d", port)
	if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
		logrusLogger.Fatalf("启动服务失败: %v", err)
	}
}
