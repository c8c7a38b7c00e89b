package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lighten/internal/service"
)

// ShowCourseList 渲染课程列表页，带热门课程侧边栏
func (a *API) ShowCourseList(c *gin.Context) {
	sort := service.CourseSortKey(c.Query("sort"))
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	result, err := a.courses.List(service.CourseFilter{
		Sort:    sort,
		Page:    page,
		PerPage: a.pagination.CoursesPerPage,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidSortKey) {
			a.renderServerError(c, "无效的排序方式")
			return
		}
		a.renderServerError(c, "获取课程失败")
		return
	}

	hotCourses, err := a.courses.Hot(c.Request.Context(), 3)
	if err != nil {
		a.renderServerError(c, "获取热门课程失败")
		return
	}

	c.HTML(http.StatusOK, "course-list.html", gin.H{
		"title":       "课程列表",
		"currentPage": "course_list",
		"courses":     result,
		"hotCourses":  hotCourses,
		"sort":        string(sort),
	})
}

// ShowCourseDetail 渲染课程详情页，点击数 +1
func (a *API) ShowCourseDetail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderServerError(c, "无效的课程 id")
		return
	}

	detail, err := a.courses.Detail(id, currentUserID(c))
	if err != nil {
		a.renderServerError(c, "课程不存在")
		return
	}

	c.HTML(http.StatusOK, "course-detail.html", gin.H{
		"title":        detail.Course.Name,
		"course":       detail.Course,
		"detailHTML":   renderMarkdown(detail.Course.Detail),
		"courseHasFav": detail.CourseHasFav,
		"orgHasFav":    detail.OrgHasFav,
		"related":      detail.Related,
	})
}

// ShowCourseVideo 渲染课程视频页；首次访问计入学习人数
func (a *API) ShowCourseVideo(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderServerError(c, "无效的课程 id")
		return
	}

	course, err := a.courses.Get(id)
	if err != nil {
		a.renderServerError(c, "课程不存在")
		return
	}

	if err := a.courses.StartLearning(id, currentUserID(c)); err != nil {
		a.renderServerError(c, "记录学习状态失败")
		return
	}

	resources, err := a.courses.Resources(id)
	if err != nil {
		a.renderServerError(c, "获取课程资料失败")
		return
	}

	c.HTML(http.StatusOK, "course-video.html", gin.H{
		"title":     course.Name,
		"course":    course,
		"resources": resources,
	})
}

// ShowCourseComments 渲染课程评论页
func (a *API) ShowCourseComments(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderServerError(c, "无效的课程 id")
		return
	}

	course, err := a.courses.Get(id)
	if err != nil {
		a.renderServerError(c, "课程不存在")
		return
	}

	comments, err := a.comments.ListForCourse(id)
	if err != nil {
		a.renderServerError(c, "获取评论失败")
		return
	}

	resources, err := a.courses.Resources(id)
	if err != nil {
		a.renderServerError(c, "获取课程资料失败")
		return
	}

	c.HTML(http.StatusOK, "course-comment.html", gin.H{
		"title":     course.Name,
		"course":    course,
		"comments":  comments,
		"resources": resources,
	})
}

// AddComment 追加课程评论，返回 JSON 信封
func (a *API) AddComment(c *gin.Context) {
	courseID := uint(parsePositiveInt(c.PostForm("course_id"), 0))
	text := c.PostForm("comment")

	if _, err := a.comments.Add(currentUserID(c), courseID, text); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			respondFail(c, "用户未登录")
		case errors.Is(err, service.ErrNotFound):
			respondFail(c, "课程不存在")
		default:
			respondFail(c, "添加失败")
		}
		return
	}

	respondSuccess(c, "添加成功")
}
