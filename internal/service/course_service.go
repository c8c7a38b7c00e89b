package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lighten/internal/cache"
	"github.com/lighten/internal/db"
)

// CourseSortKey 课程列表支持的排序键
type CourseSortKey string

const (
	CourseSortDefault  CourseSortKey = ""         // 最新
	CourseSortStudents CourseSortKey = "students" // 学习人数
	CourseSortHot      CourseSortKey = "hot"      // 点击数
)

// CourseFilter describes filters for listing courses.
type CourseFilter struct {
	Sort    CourseSortKey
	Page    int
	PerPage int
}

// CourseListResult aggregates paginated list data and counters.
type CourseListResult struct {
	Courses    []db.Course
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// CourseDetail 课程详情页视图模型
type CourseDetail struct {
	Course       db.Course
	CourseHasFav bool
	OrgHasFav    bool
	Related      []db.Course
}

// CourseService wraps course related database operations.
type CourseService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewCourseService creates a CourseService instance.
func NewCourseService(gdb *gorm.DB, c *cache.Cache) *CourseService {
	return &CourseService{db: gdb, cache: c}
}

// List returns courses ordered by recency or the requested sort key.
// 不认识的非空排序键直接拒绝，而不是静默回退默认排序。
func (s *CourseService) List(filter CourseFilter) (*CourseListResult, error) {
	result := &CourseListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 6
	}

	var orderBy string
	switch filter.Sort {
	case CourseSortDefault:
		orderBy = "created_at desc"
	case CourseSortStudents:
		orderBy = "students desc"
	case CourseSortHot:
		orderBy = "click_nums desc"
	default:
		return nil, ErrInvalidSortKey
	}

	if err := s.db.Model(&db.Course{}).Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	var courses []db.Course
	if err := s.db.Preload("Organization").
		Order(orderBy).
		Limit(result.PerPage).
		Offset(offset).
		Find(&courses).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Courses = courses
	return result, nil
}

// Hot returns the top-n courses by click count for the sidebar.
// Redis 可用时优先走缓存，缓存未命中或未配置时回源数据库。
func (s *CourseService) Hot(ctx context.Context, n int) ([]db.Course, error) {
	key := fmt.Sprintf("%s:%d", cache.KeyHotCourses, n)

	var courses []db.Course
	if s.cache.GetJSON(ctx, key, &courses) {
		return courses, nil
	}

	if err := s.db.Order("click_nums desc").Limit(n).Find(&courses).Error; err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, key, courses, cache.SidebarTTL)
	return courses, nil
}

// Banners returns up to n courses marked for the index carousel, newest first.
func (s *CourseService) Banners(n int) ([]db.Course, error) {
	var courses []db.Course
	if err := s.db.Where("is_banner = ?", true).
		Order("created_at desc").
		Limit(n).
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// Detail fetches a course with favorite flags and a related course.
// 点击数 +1 是读改写，两个并发请求可能只记一次，保持原始行为不加锁。
func (s *CourseService) Detail(id, viewer uint) (*CourseDetail, error) {
	var course db.Course
	if err := s.db.Preload("Organization").Preload("Teacher").First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	course.ClickNums++
	if err := s.db.Model(&db.Course{}).Where("id = ?", course.ID).
		Update("click_nums", course.ClickNums).Error; err != nil {
		return nil, err
	}

	detail := &CourseDetail{Course: course}

	var err error
	if detail.CourseHasFav, err = hasFavorite(s.db, viewer, course.ID, db.FavTypeCourse); err != nil {
		return nil, err
	}
	if detail.OrgHasFav, err = hasFavorite(s.db, viewer, course.OrganizationID, db.FavTypeOrganization); err != nil {
		return nil, err
	}

	// 相同 tag 的最高点击课程作为相关推荐，最多 1 门
	if course.Tag != "" {
		if err := s.db.Where("tag = ? AND id <> ?", course.Tag, course.ID).
			Order("click_nums desc").
			Limit(1).
			Find(&detail.Related).Error; err != nil {
			return nil, err
		}
	}

	return detail, nil
}

// Get fetches a course by id without side effects.
func (s *CourseService) Get(id uint) (*db.Course, error) {
	var course db.Course
	if err := s.db.Preload("Organization").First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// Resources returns the downloadable resources of a course.
func (s *CourseService) Resources(courseID uint) ([]db.CourseResource, error) {
	var resources []db.CourseResource
	if err := s.db.Where("course_id = ?", courseID).Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

// StartLearning 记录用户开始学习课程；同一用户只计一次学习人数。
func (s *CourseService) StartLearning(courseID, userID uint) error {
	if userID == 0 {
		return ErrUnauthorized
	}

	var course db.Course
	if err := s.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var count int64
	if err := s.db.Model(&db.UserCourse{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if err := s.db.Create(&db.UserCourse{UserID: userID, CourseID: courseID}).Error; err != nil {
		return err
	}

	return s.db.Model(&db.Course{}).Where("id = ?", courseID).
		Update("students", gorm.Expr("students + 1")).Error
}
