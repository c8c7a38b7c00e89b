package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/lighten/internal/service"
)

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"title": "登录"})
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := a.users.Authenticate(username, password)
	if err != nil {
		msg := "用户名或密码错误"
		if errors.Is(err, service.ErrUserInactive) {
			msg = "账号未激活，请先查收激活邮件"
		}
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"title": "登录", "error": msg})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"title": "登录", "error": "会话保存失败"})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		a.renderServerError(c, "会话保存失败")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// ShowRegisterPage 渲染注册页面
func (a *API) ShowRegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"title": "注册"})
}

// Register 创建账号并发送激活邮件
func (a *API) Register(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if _, err := a.users.Register(email, password); err != nil {
		msg := "注册失败"
		switch {
		case errors.Is(err, service.ErrUserExists):
			msg = "该邮箱已注册"
		case errors.Is(err, service.ErrPasswordTooShort):
			msg = "密码至少 6 位"
		case errors.Is(err, service.ErrRejected):
			msg = "请填写邮箱"
		}
		c.HTML(http.StatusBadRequest, "register.html", gin.H{"title": "注册", "error": msg})
		return
	}

	c.HTML(http.StatusOK, "register.html", gin.H{
		"title":   "注册",
		"message": "激活邮件已发送，请查收",
	})
}

// Activate 处理激活链接
func (a *API) Activate(c *gin.Context) {
	code := c.Param("code")
	if err := a.users.Activate(code); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"title": "登录", "error": "激活链接无效"})
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"title": "登录", "message": "激活成功，请登录"})
}

// ShowForgetPage 渲染找回密码页面
func (a *API) ShowForgetPage(c *gin.Context) {
	c.HTML(http.StatusOK, "forget.html", gin.H{"title": "找回密码"})
}

// Forget 发送密码重置邮件
func (a *API) Forget(c *gin.Context) {
	email := c.PostForm("email")
	if err := a.users.RequestPasswordReset(email); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondFail(c, "邮箱未注册")
			return
		}
		respondFail(c, "发送失败")
		return
	}
	respondSuccess(c, "重置邮件已发送")
}

// ShowResetPage 渲染密码重置页面
func (a *API) ShowResetPage(c *gin.Context) {
	c.HTML(http.StatusOK, "reset.html", gin.H{
		"title": "重置密码",
		"code":  c.Param("code"),
	})
}

// Reset 根据重置令牌修改密码
func (a *API) Reset(c *gin.Context) {
	code := c.PostForm("code")
	password := c.PostForm("password")

	if err := a.users.ResetPassword(code, password); err != nil {
		msg := "重置失败"
		switch {
		case errors.Is(err, service.ErrNotFound):
			msg = "重置链接无效"
		case errors.Is(err, service.ErrPasswordTooShort):
			msg = "密码至少 6 位"
		}
		c.HTML(http.StatusBadRequest, "reset.html", gin.H{"title": "重置密码", "code": code, "error": msg})
		return
	}

	c.HTML(http.StatusOK, "login.html", gin.H{"title": "登录", "message": "密码已重置，请登录"})
}

// AuthRequired 页面级认证中间件，未登录跳转登录页
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUserID(c) == 0 {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
