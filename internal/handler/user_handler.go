package handler

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/lighten/internal/db"
	"github.com/lighten/internal/service"
)

// 头像尺寸上限，超过直接拒绝
const maxAvatarEdge = 2000

// ShowUserInfo 渲染个人中心页面
func (a *API) ShowUserInfo(c *gin.Context) {
	user, err := a.users.Get(currentUserID(c))
	if err != nil {
		a.renderServerError(c, "用户不存在")
		return
	}

	c.HTML(http.StatusOK, "user-info.html", gin.H{
		"title": "个人中心",
		"user":  user,
	})
}

// UploadAvatar 处理头像上传：png/jpeg/webp，校验尺寸后落盘并更新用户记录
func (a *API) UploadAvatar(c *gin.Context) {
	userID := currentUserID(c)
	if userID == 0 {
		respondFail(c, "用户未登录")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondFail(c, "未找到上传的图片")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondFail(c, "只允许上传图片文件")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondFail(c, "读取图片失败")
		return
	}
	cfg, _, err := image.DecodeConfig(src)
	src.Close()
	if err != nil {
		respondFail(c, "无法识别的图片格式")
		return
	}
	if cfg.Width > maxAvatarEdge || cfg.Height > maxAvatarEdge {
		respondFail(c, "图片尺寸过大")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		respondFail(c, "创建上传目录失败")
		return
	}

	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondFail(c, "保存文件失败")
		return
	}

	avatarURL := fmt.Sprintf("%s/%s", strings.TrimRight(a.uploadURL, "/"), newFilename)
	if err := a.users.UpdateAvatar(userID, avatarURL); err != nil {
		respondFail(c, "更新头像失败")
		return
	}

	respondSuccess(c, avatarURL)
}

// SendEmailCode 用户修改绑定邮箱时发送验证码
func (a *API) SendEmailCode(c *gin.Context) {
	if currentUserID(c) == 0 {
		respondFail(c, "用户未登录")
		return
	}

	email := strings.TrimSpace(c.PostForm("email"))
	if email == "" {
		respondFail(c, "请填写邮箱")
		return
	}

	if _, err := a.emails.IssueVerification(email, db.SendTypeUpdateEmail); err != nil {
		respondFail(c, "发送失败")
		return
	}
	respondSuccess(c, "验证码已发送")
}

// UpdateEmail 校验验证码并更新绑定邮箱
func (a *API) UpdateEmail(c *gin.Context) {
	userID := currentUserID(c)
	if userID == 0 {
		respondFail(c, "用户未登录")
		return
	}

	email := strings.TrimSpace(c.PostForm("email"))
	code := strings.TrimSpace(c.PostForm("code"))

	if err := a.users.UpdateEmail(userID, email, code); err != nil {
		respondFail(c, "验证码无效")
		return
	}
	respondSuccess(c, "邮箱修改成功")
}

// UpdatePassword 个人中心修改密码，两次输入须一致
func (a *API) UpdatePassword(c *gin.Context) {
	userID := currentUserID(c)
	if userID == 0 {
		respondFail(c, "用户未登录")
		return
	}

	password1 := c.PostForm("password1")
	password2 := c.PostForm("password2")
	if password1 != password2 {
		respondFail(c, "两次输入的密码不一致")
		return
	}

	if err := a.users.UpdatePassword(userID, password1); err != nil {
		if errors.Is(err, service.ErrPasswordTooShort) {
			respondFail(c, "密码至少 6 位")
			return
		}
		respondFail(c, "修改失败")
		return
	}
	respondSuccess(c, "密码修改成功")
}
