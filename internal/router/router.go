package router

import (
	"html/template"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/lighten/internal/handler"
)

// Setup 配置 Gin 引擎和路由
func Setup(api *handler.API, store sessions.Store, sessionName string) *gin.Engine {
	r := gin.Default()

	r.Use(sessions.Sessions(sessionName, store))

	// 加载模板并添加自定义函数
	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	})
	r.LoadHTMLGlob("web/template/*.html")

	r.Static("/static", "./web/static")

	r.GET("/", api.ShowIndex)

	// 登录注册与找回密码
	r.GET("/login", api.ShowLoginPage)
	r.POST("/login", api.Login)
	r.GET("/logout", api.Logout)
	r.GET("/register", api.ShowRegisterPage)
	r.POST("/register", api.Register)
	r.GET("/active/:code", api.Activate)
	r.GET("/forget", api.ShowForgetPage)
	r.POST("/forget", api.Forget)
	r.GET("/reset/:code", api.ShowResetPage)
	r.POST("/reset", api.Reset)

	// 课程
	courses := r.Group("/courses")
	{
		courses.GET("/", api.ShowCourseList)
		courses.GET("/:id/", api.ShowCourseDetail)
		courses.GET("/:id/comment/", api.ShowCourseComments)
		courses.POST("/comment/add", api.AddComment)

		// 视频页需要登录
		auth := courses.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/:id/video/", api.ShowCourseVideo)
		}
	}

	// 课程机构
	orgs := r.Group("/organizations")
	{
		orgs.GET("/", api.ShowOrgList)
		orgs.POST("/ask/", api.AddAsk)
		orgs.GET("/:id/:section/", api.ShowOrgDetail)
	}

	// 讲师
	teachers := r.Group("/teachers")
	{
		teachers.GET("/", api.ShowTeacherList)
		teachers.GET("/:id/", api.ShowTeacherDetail)
	}

	// 收藏
	r.POST("/favorites/add", api.AddFavorite)

	// 个人中心
	users := r.Group("/users")
	users.Use(handler.AuthRequired())
	{
		users.GET("/info/", api.ShowUserInfo)
		users.POST("/image/upload", api.UploadAvatar)
		users.POST("/send_email_code", api.SendEmailCode)
		users.POST("/update_email", api.UpdateEmail)
		users.POST("/update/pwd", api.UpdatePassword)
	}

	return r
}
