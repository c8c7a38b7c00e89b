package handler

import (
	"bytes"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lighten/internal/cache"
	"github.com/lighten/internal/config"
	"github.com/lighten/internal/mail"
	"github.com/lighten/internal/service"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps(), goldmarkhtml.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	logger    *zap.Logger
	courses   *service.CourseService
	orgs      *service.OrganizationService
	teachers  *service.TeacherService
	favorites *service.FavoriteService
	comments  *service.CommentService
	emails    *service.EmailService
	users     *service.UserService

	uploadDir  string
	uploadURL  string
	pagination config.PaginationConfig
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, c *cache.Cache, mailer mail.Mailer, logger *zap.Logger, cfg *config.Config) *API {
	emailService := service.NewEmailService(gdb, mailer, logger, cfg.Server.BaseURL, cfg.Mail.TokenLength)

	return &API{
		db:         gdb,
		logger:     logger,
		courses:    service.NewCourseService(gdb, c),
		orgs:       service.NewOrganizationService(gdb, c),
		teachers:   service.NewTeacherService(gdb, c),
		favorites:  service.NewFavoriteService(gdb, logger),
		comments:   service.NewCommentService(gdb),
		emails:     emailService,
		users:      service.NewUserService(gdb, emailService),
		uploadDir:  cfg.Upload.Dir,
		uploadURL:  cfg.Upload.URLPath,
		pagination: cfg.Pagination,
	}
}

// renderMarkdown 把 markdown 渲染为净化后的 HTML（课程详情、机构介绍）
func renderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}

// renderServerError 详情页实体缺失等错误按原始行为"响亮地失败"，不做 404 包装
func (a *API) renderServerError(c *gin.Context, msg string) {
	c.HTML(500, "error.html", gin.H{"error": msg})
}
