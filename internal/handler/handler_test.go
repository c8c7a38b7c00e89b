package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lighten/internal/config"
	"github.com/lighten/internal/db"
	"github.com/lighten/internal/mail"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupHandlerTest 启动一个只挂 JSON 接口的测试引擎。
// 页面类 handler 依赖模板目录，不在这里注册。
func setupHandlerTest(t *testing.T, name string) (*gorm.DB, *gin.Engine, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("failed to load default config: %v", err)
	}

	logger := zap.NewNop()
	api := NewAPI(gdb, nil, mail.NewLogMailer(logger), logger, cfg)

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("lighten_session", store))

	r.POST("/favorites/add", api.AddFavorite)
	r.POST("/courses/comment/add", api.AddComment)
	r.POST("/organizations/ask/", api.AddAsk)
	r.POST("/forget", api.Forget)
	r.GET("/logout", api.Logout)
	r.POST("/users/update_email", api.UpdateEmail)
	r.POST("/users/update/pwd", api.UpdatePassword)

	// 测试专用登录口，直接往会话里写 user_id
	r.POST("/test/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set("user_id", uint(parsePositiveInt(c.PostForm("user_id"), 0)))
		if err := session.Save(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	cleanup := func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	return gdb, r, cleanup
}

// loginAs 通过测试登录口换取会话 cookie
func loginAs(t *testing.T, r *gin.Engine, userID uint) []*http.Cookie {
	t.Helper()

	form := url.Values{"user_id": {fmt.Sprint(userID)}}
	req := httptest.NewRequest(http.MethodPost, "/test/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	if w.Code != http.StatusOK || len(cookies) == 0 {
		t.Fatalf("failed to establish test session, status %d", w.Code)
	}
	return cookies
}

func postForm(r *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
