package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ShowIndex 渲染首页：热门课程、机构排名
func (a *API) ShowIndex(c *gin.Context) {
	ctx := c.Request.Context()

	banners, err := a.courses.Banners(5)
	if err != nil {
		a.renderServerError(c, "获取轮播课程失败")
		return
	}

	hotCourses, err := a.courses.Hot(ctx, 6)
	if err != nil {
		a.renderServerError(c, "获取热门课程失败")
		return
	}

	hotOrgs, err := a.orgs.Hot(ctx, 3)
	if err != nil {
		a.renderServerError(c, "获取机构排名失败")
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title":      "首页",
		"banners":    banners,
		"hotCourses": hotCourses,
		"hotOrgs":    hotOrgs,
	})
}
