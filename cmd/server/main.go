package main

import (
	"log"
	"os"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lighten/internal/cache"
	"github.com/lighten/internal/config"
	"github.com/lighten/internal/db"
	"github.com/lighten/internal/handler"
	"github.com/lighten/internal/logger"
	"github.com/lighten/internal/mail"
	"github.com/lighten/internal/router"
)

func main() {
	cfg, err := config.Load(os.Getenv("LIGHTEN_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	gin.SetMode(cfg.Server.GinMode)

	if err := db.Init(cfg.Database.Path); err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}

	if err := db.EnsureUser(cfg.Bootstrap.Username, cfg.Bootstrap.Password); err != nil {
		zlog.Fatal("failed to ensure bootstrap user", zap.Error(err))
	}

	// Redis 未配置或连不上时侧边栏直接走数据库
	var sidebarCache *cache.Cache
	if cfg.Redis.Addr != "" {
		sidebarCache, err = cache.New(cfg.Redis, zlog)
		if err != nil {
			zlog.Warn("redis unavailable, sidebar cache disabled", zap.Error(err))
			sidebarCache = nil
		} else {
			defer sidebarCache.Close()
		}
	}

	var mailer mail.Mailer
	if cfg.Mail.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg.Mail)
	} else {
		zlog.Info("smtp not configured, mails will be logged only")
		mailer = mail.NewLogMailer(zlog)
	}

	api := handler.NewAPI(db.DB, sidebarCache, mailer, zlog, cfg)
	store := cookie.NewStore([]byte(cfg.Session.Secret))
	r := router.Setup(api, store, cfg.Session.Name)

	zlog.Info("server starting", zap.String("addr", cfg.Server.ListenAddr))
	if err := r.Run(cfg.Server.ListenAddr); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
