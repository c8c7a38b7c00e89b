package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lighten/internal/service"
)

// ShowTeacherList 渲染讲师列表页，带收藏数排行榜
func (a *API) ShowTeacherList(c *gin.Context) {
	sort := service.TeacherSortKey(c.Query("sort"))
	keywords := c.Query("keywords")
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	result, err := a.teachers.List(service.TeacherFilter{
		Keywords: keywords,
		Sort:     sort,
		Page:     page,
		PerPage:  a.pagination.TeachersPerPage,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidSortKey) {
			a.renderServerError(c, "无效的排序方式")
			return
		}
		a.renderServerError(c, "获取讲师失败")
		return
	}

	leaderboard, err := a.teachers.Leaderboard(c.Request.Context(), 5)
	if err != nil {
		a.renderServerError(c, "获取讲师排行失败")
		return
	}

	c.HTML(http.StatusOK, "teachers-list.html", gin.H{
		"title":       "授课讲师",
		"teachers":    result,
		"teacherNums": result.Total,
		"hotTeachers": leaderboard,
		"keywords":    keywords,
		"sort":        string(sort),
	})
}

// ShowTeacherDetail 渲染讲师详情页
func (a *API) ShowTeacherDetail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderServerError(c, "无效的讲师 id")
		return
	}

	detail, err := a.teachers.Detail(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		a.renderServerError(c, "讲师不存在")
		return
	}

	c.HTML(http.StatusOK, "teacher-detail.html", gin.H{
		"title":          detail.Teacher.Name,
		"teacher":        detail.Teacher,
		"teacherHasFav":  detail.TeacherHasFav,
		"orgHasFav":      detail.OrgHasFav,
		"hotTeachers":    detail.Leaderboard,
		"courses":        detail.Courses,
		"typicalCourses": detail.TypicalCourses,
	})
}
