package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lighten/internal/cache"
	"github.com/lighten/internal/db"
)

// TeacherSortKey 讲师列表支持的排序键
type TeacherSortKey string

const (
	TeacherSortDefault TeacherSortKey = ""
	TeacherSortHot     TeacherSortKey = "hot"
)

// TeacherFilter describes filters for listing teachers.
type TeacherFilter struct {
	Keywords string
	Sort     TeacherSortKey
	Page     int
	PerPage  int
}

// TeacherListResult aggregates paginated list data and counters.
type TeacherListResult struct {
	Teachers   []db.Teacher
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// TeacherDetail 讲师详情页视图模型
type TeacherDetail struct {
	Teacher        db.Teacher
	TeacherHasFav  bool
	OrgHasFav      bool
	Leaderboard    []db.Teacher
	Courses        []db.Course
	TypicalCourses []db.Course
}

// TeacherService wraps teacher related database operations.
type TeacherService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewTeacherService creates a TeacherService instance.
func NewTeacherService(gdb *gorm.DB, c *cache.Cache) *TeacherService {
	return &TeacherService{db: gdb, cache: c}
}

// List returns teachers filtered by keywords, optionally sorted by clicks.
// 关键词匹配姓名/学位/公司/职位以及所属机构名称。
func (s *TeacherService) List(filter TeacherFilter) (*TeacherListResult, error) {
	result := &TeacherListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	var orderBy string
	switch filter.Sort {
	case TeacherSortDefault:
		orderBy = "teachers.created_at desc"
	case TeacherSortHot:
		orderBy = "teachers.click_nums desc"
	default:
		return nil, ErrInvalidSortKey
	}

	countQuery := s.db.Model(&db.Teacher{})
	countQuery = s.applyFilters(countQuery, filter)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	var teachers []db.Teacher
	dataQuery := s.db.Model(&db.Teacher{}).Preload("Organization")
	dataQuery = s.applyFilters(dataQuery, filter)
	if err := dataQuery.Order(orderBy).Limit(result.PerPage).Offset(offset).Find(&teachers).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Teachers = teachers
	return result, nil
}

func (s *TeacherService) applyFilters(query *gorm.DB, filter TeacherFilter) *gorm.DB {
	if keywords := strings.TrimSpace(filter.Keywords); keywords != "" {
		like := "%" + strings.ToLower(keywords) + "%"
		query = query.
			Joins("LEFT JOIN organizations ON organizations.id = teachers.organization_id").
			Where(`LOWER(teachers.name) LIKE ? OR LOWER(teachers.academic_degree) LIKE ?
				OR LOWER(teachers.work_company) LIKE ? OR LOWER(teachers.work_position) LIKE ?
				OR LOWER(organizations.name) LIKE ?`,
				like, like, like, like, like)
	}
	return query
}

// Leaderboard returns the top-n teachers by favorite count.
func (s *TeacherService) Leaderboard(ctx context.Context, n int) ([]db.Teacher, error) {
	key := fmt.Sprintf("%s:%d", cache.KeyTeacherLeaderboard, n)

	var teachers []db.Teacher
	if s.cache.GetJSON(ctx, key, &teachers) {
		return teachers, nil
	}

	if err := s.db.Order("fav_nums desc").Limit(n).Find(&teachers).Error; err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, key, teachers, cache.SidebarTTL)
	return teachers, nil
}

// Detail fetches a teacher with favorite flags, leaderboard and courses.
func (s *TeacherService) Detail(ctx context.Context, id, viewer uint) (*TeacherDetail, error) {
	var teacher db.Teacher
	if err := s.db.Preload("Organization").First(&teacher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	detail := &TeacherDetail{Teacher: teacher}

	var err error
	if detail.TeacherHasFav, err = hasFavorite(s.db, viewer, teacher.ID, db.FavTypeTeacher); err != nil {
		return nil, err
	}
	if detail.OrgHasFav, err = hasFavorite(s.db, viewer, teacher.OrganizationID, db.FavTypeOrganization); err != nil {
		return nil, err
	}

	if detail.Leaderboard, err = s.Leaderboard(ctx, 5); err != nil {
		return nil, err
	}

	// 所授课程按学习人数排序，前 2 门作为代表课程
	if err := s.db.Where("teacher_id = ?", teacher.ID).
		Order("students desc").
		Find(&detail.Courses).Error; err != nil {
		return nil, err
	}
	if len(detail.Courses) > 2 {
		detail.TypicalCourses = detail.Courses[:2]
	} else {
		detail.TypicalCourses = detail.Courses
	}

	return detail, nil
}
