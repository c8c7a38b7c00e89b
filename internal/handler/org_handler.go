package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lighten/internal/service"
)

// ShowOrgList 渲染机构列表页，支持城市/类别/关键词筛选与排序
func (a *API) ShowOrgList(c *gin.Context) {
	cityID, _ := strconv.ParseUint(c.Query("city"), 10, 32)
	category := c.Query("ct")
	keywords := c.Query("keywords")
	sort := service.OrgSortKey(c.Query("sort"))
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	result, err := a.orgs.List(service.OrgFilter{
		CityID:   uint(cityID),
		Category: category,
		Keywords: keywords,
		Sort:     sort,
		Page:     page,
		PerPage:  a.pagination.OrganizationsPerPage,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidSortKey) {
			a.renderServerError(c, "无效的排序方式")
			return
		}
		a.renderServerError(c, "获取机构失败")
		return
	}

	hotOrgs, err := a.orgs.Hot(c.Request.Context(), 3)
	if err != nil {
		a.renderServerError(c, "获取机构排名失败")
		return
	}

	cities, err := a.orgs.Cities()
	if err != nil {
		a.renderServerError(c, "获取城市失败")
		return
	}

	c.HTML(http.StatusOK, "org-list.html", gin.H{
		"title":     "课程机构",
		"orgs":      result,
		"orgNums":   result.Total,
		"hotOrgs":   hotOrgs,
		"cities":    cities,
		"curCityID": uint(cityID),
		"category":  category,
		"keywords":  keywords,
		"sort":      string(sort),
	})
}

// orgSectionTemplates 分栏到模板的映射
var orgSectionTemplates = map[service.OrgSection]string{
	service.OrgSectionHome:     "org-detail-homepage.html",
	service.OrgSectionCourses:  "org-detail-course.html",
	service.OrgSectionDesc:     "org-detail-desc.html",
	service.OrgSectionTeachers: "org-detail-teachers.html",
}

// ShowOrgDetail 渲染机构详情页的某个分栏
func (a *API) ShowOrgDetail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderServerError(c, "无效的机构 id")
		return
	}

	section := service.OrgSection(c.Param("section"))
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	detail, err := a.orgs.Detail(id, section, currentUserID(c), page, a.pagination.CoursesPerPage)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSection) {
			a.renderServerError(c, "无效的机构分栏")
			return
		}
		a.renderServerError(c, "机构不存在")
		return
	}

	tmpl := orgSectionTemplates[section]
	c.HTML(http.StatusOK, tmpl, gin.H{
		"title":       detail.Organization.Name,
		"org":         detail.Organization,
		"descHTML":    renderMarkdown(detail.Organization.Description),
		"currentPage": string(section),
		"hasFav":      detail.HasFav,
		"topCourses":  detail.TopCourses,
		"topTeachers": detail.TopTeachers,
		"courses":     detail.Courses,
		"teachers":    detail.Teachers,
	})
}

// AddAsk 处理"我要学习"咨询表单，返回 JSON 信封
func (a *API) AddAsk(c *gin.Context) {
	name := c.PostForm("name")
	mobile := c.PostForm("mobile")
	courseName := c.PostForm("course_name")

	if err := a.orgs.AddAsk(name, mobile, courseName); err != nil {
		respondFail(c, "添加出错")
		return
	}
	respondSuccess(c, "添加成功")
}
