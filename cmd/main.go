package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/pflag"

	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"

	"job-hunter-go/internal/agent"
	"job-hunter-go/internal/api/handler"
	"job-hunter-go/internal/api/router"
	"job-hunter-go/internal/config"
	appCoreLogger "job-hunter-go/internal/logger"
	"job-hunter-go/internal/parser"
	"job-hunter-go/internal/processor"
	"job-hunter-go/internal/scraper"
	"job-hunter-go/internal/storage"
	"job-hunter-go/internal/tailor"
	"job-hunter-go/internal/typeset"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	initLogger(cfg)
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	debug := cfg.Logger.Level == "debug"
	componentLogger := func(prefix string) *log.Logger {
		if debug {
			return log.New(os.Stderr, prefix, log.LstdFlags)
		}
		return log.New(io.Discard, "", 0)
	}

	// LLM客户端，use_ai关闭或服务器不在线时流水线自动降级
	var ollamaModel *agent.OllamaChatModel
	var structurer *parser.LLMStructurer
	if cfg.Ollama.UseAI {
		ollamaModel = agent.NewOllamaChatModel(cfg.Ollama.Host, cfg.Ollama.Model,
			agent.WithOllamaLogger(componentLogger("[OllamaMain] ")))
		structurer = parser.NewLLMStructurer(ollamaModel,
			parser.WithStructurerLogger(componentLogger("[StructurerMain] ")))
		glog.Infof("Ollama客户端初始化成功: %s (%s)", cfg.Ollama.Host, cfg.Ollama.Model)
	} else {
		glog.Warn("AI提取已禁用，简历结构化将使用正则降级")
	}

	// 文本提取链：Tika在前，本地PDF解析器兜底
	var extractorOptions []parser.TextExtractorOption
	extractorOptions = append(extractorOptions, parser.WithExtractorLogger(componentLogger("[ExtractorMain] ")))
	if cfg.Tika.ServerURL != "" {
		var tikaOptions []parser.TikaOption
		if cfg.Tika.Timeout > 0 {
			tikaOptions = append(tikaOptions, parser.WithTikaTimeout(time.Duration(cfg.Tika.Timeout)*time.Second))
		}
		tikaOptions = append(tikaOptions, parser.WithTikaLogger(componentLogger("[TikaMain] ")))
		extractorOptions = append(extractorOptions, parser.WithTika(parser.NewTikaExtractor(cfg.Tika.ServerURL, tikaOptions...)))
		glog.Info("Tika提取后端已配置")
	}
	einoExtractor, err := parser.NewEinoPDFExtractor(ctx, parser.WithEinoLogger(componentLogger("[EinoPDFMain] ")))
	if err != nil {
		glog.Warnf("创建本地PDF提取器失败，仅依赖Tika: %v", err)
	} else {
		extractorOptions = append(extractorOptions, parser.WithEinoPDF(einoExtractor))
	}
	textExtractor := parser.NewTextExtractor(extractorOptions...)
	glog.Info("文本提取器初始化成功")

	pipeline := processor.NewResumePipeline(textExtractor, structurer, ollamaModel, storageManager)
	glog.Info("简历处理流水线初始化成功")

	var jobScraper *scraper.JobScraper
	if cfg.Scraper.BaseURL != "" {
		jobScraper = scraper.NewJobScraper(&cfg.Scraper,
			scraper.WithScraperLogger(componentLogger("[ScraperMain] ")))
		glog.Info("岗位聚合客户端初始化成功")
	} else {
		glog.Warn("岗位聚合服务未配置，搜索接口不可用")
	}

	var resumeTailor *tailor.ResumeTailor
	if ollamaModel != nil {
		resumeTailor = tailor.NewResumeTailor(ollamaModel, storageManager, cfg.Data.OutputDir,
			tailor.WithTailorLogger(componentLogger("[TailorMain] ")))
		glog.Info("简历定制器初始化成功")
	}

	typesetter := typeset.NewTypesetter(&cfg.Typeset, cfg.Data.OutputDir,
		typeset.WithTypesetterLogger(componentLogger("[TypesetMain] ")))

	resumeHandler := handler.NewResumeHandler(cfg, pipeline)
	profileHandler := handler.NewProfileHandler(storageManager)
	jobHandler := handler.NewJobHandler(storageManager, jobScraper, resumeTailor, typesetter)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, resumeHandler, profileHandler, jobHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

func initLogger(cfg *config.Config) {
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	hertzCompatibleLogger := hertzadapter.From(appCoreLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
}
