package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/BlockRunAI/PredictOS/internal/adapter"
	_ "github.com/BlockRunAI/PredictOS/internal/adapter/kalshi"
	_ "github.com/BlockRunAI/PredictOS/internal/adapter/polymarket"
	"github.com/BlockRunAI/PredictOS/internal/api"
	"github.com/BlockRunAI/PredictOS/internal/config"
	"github.com/BlockRunAI/PredictOS/internal/interfaces"
	"github.com/BlockRunAI/PredictOS/internal/llm"
	"github.com/BlockRunAI/PredictOS/internal/model"
	"github.com/BlockRunAI/PredictOS/internal/repository"
	"github.com/BlockRunAI/PredictOS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// newLogger 按配置初始化日志
func newLogger(cfg config.LogConfig) *logrus.Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logrusLogger := newLogger(cfg.Log)
	logrusLogger.Info("配置文件加载成功")

	// 3. 行情适配器（各平台 init 中注册工厂）
	registry := adapter.NewPlatformRegistry(cfg, logrusLogger)
	if registry.GetPlatformCount() < 2 {
		logrusLogger.Fatalf("平台适配器不完整，已初始化：%v", registry.ListRegisteredPlatforms())
	}
	gateway := adapter.NewGateway(logrusLogger, registry.Adapters()...)

	// 4. 模型后端与路由
	if cfg.AI.OpenAI.APIKey == "" {
		logrusLogger.Warn("未配置 OPENAI_API_KEY，OpenAI 模型调用将失败")
	}
	if cfg.AI.XAI.APIKey == "" {
		logrusLogger.Warn("未配置 XAI_API_KEY，xAI 模型调用将失败")
	}
	router := llm.NewRouter(
		llm.NewResponsesClient("openai", cfg.AI.OpenAI, logrusLogger),
		llm.NewResponsesClient("xai", cfg.AI.XAI, logrusLogger),
		cfg.AI.Routing,
	)

	// 5. 审计库（可选，只写）
	var audit interfaces.AuditRecorder
	if cfg.Audit.Enabled && cfg.Audit.DSN != "" {
		db, err := repository.OpenAudit(cfg.Audit, logrusLogger)
		if err != nil {
			logrusLogger.Fatalf("初始化审计库失败: %v", err)
		}
		audit = repository.NewAuditRepository(db)
	} else {
		logrusLogger.Info("审计未启用")
	}

	// 6. 组装流水线
	webURLs := make(map[model.PlatformType]string)
	for _, p := range model.AllPlatforms() {
		webURLs[p] = cfg.Platform(string(p)).WebURL
	}
	judge := service.NewArbitrageJudge(router, cfg.AI.AnalysisMaxTokens, logrusLogger).WithWebURLs(webURLs)
	svc := service.NewArbitrageService(
		gateway,
		service.NewQuerySynthesizer(router, cfg.AI.QueryMaxTokens, logrusLogger),
		judge,
		audit,
		logrusLogger,
	)

	// 7. 配置Gin运行模式（从配置读取：debug/release）并注册路由
	gin.SetMode(cfg.Server.Mode)
	r := api.NewRouter(cfg.Server, api.NewArbitrageHandler(svc, logrusLogger), logrusLogger)
	logrusLogger.Infof("Gin运行模式: %s", cfg.Server.Mode)

	// 8. 启动服务（从配置读取端口）
	port := cfg.Server.Port
	logrusLogger.Infof("服务启动成功，端口：%d", port)
	if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
		logrusLogger.Fatalf("启动服务失败: %v", err)
	}
}
