package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/lighten/internal/cache"
	"github.com/lighten/internal/db"
)

// OrgSortKey 机构列表支持的排序键
type OrgSortKey string

const (
	OrgSortDefault  OrgSortKey = ""
	OrgSortStudents OrgSortKey = "students"
	OrgSortCourses  OrgSortKey = "courses"
)

// OrgSection 机构详情页的分栏
type OrgSection string

const (
	OrgSectionHome     OrgSection = "home"
	OrgSectionCourses  OrgSection = "courses"
	OrgSectionDesc     OrgSection = "desc"
	OrgSectionTeachers OrgSection = "teachers"
)

// OrgFilter describes filters for listing organizations.
type OrgFilter struct {
	CityID   uint
	Category string
	Keywords string
	Sort     OrgSortKey
	Page     int
	PerPage  int
}

// OrgListResult aggregates paginated list data and counters.
type OrgListResult struct {
	Organizations []db.Organization
	Total         int64
	TotalPages    int
	Page          int
	PerPage       int
}

// OrgDetail 机构详情页视图模型，按分栏填充不同字段
type OrgDetail struct {
	Organization db.Organization
	Section      OrgSection
	HasFav       bool

	// home 分栏
	TopCourses  []db.Course
	TopTeachers []db.Teacher

	// courses 分栏
	Courses *CourseListResult

	// teachers 分栏
	Teachers []db.Teacher
}

// OrganizationService wraps organization related database operations.
type OrganizationService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewOrganizationService creates an OrganizationService instance.
func NewOrganizationService(gdb *gorm.DB, c *cache.Cache) *OrganizationService {
	return &OrganizationService{db: gdb, cache: c}
}

// List returns organizations filtered by city, category and keywords.
// 关键词对名称/介绍/类别/地址做大小写不敏感的子串匹配，OR 组合。
func (s *OrganizationService) List(filter OrgFilter) (*OrgListResult, error) {
	result := &OrgListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 5
	}

	var orderBy string
	switch filter.Sort {
	case OrgSortDefault:
		orderBy = "created_at desc"
	case OrgSortStudents:
		orderBy = "student_nums desc"
	case OrgSortCourses:
		orderBy = "course_nums desc"
	default:
		return nil, ErrInvalidSortKey
	}

	query := s.db.Model(&db.Organization{})
	query = s.applyFilters(query, filter)

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	var orgs []db.Organization
	dataQuery := s.db.Model(&db.Organization{}).Preload("City")
	dataQuery = s.applyFilters(dataQuery, filter)
	if err := dataQuery.Order(orderBy).Limit(result.PerPage).Offset(offset).Find(&orgs).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Organizations = orgs
	return result, nil
}

func (s *OrganizationService) applyFilters(query *gorm.DB, filter OrgFilter) *gorm.DB {
	if keywords := strings.TrimSpace(filter.Keywords); keywords != "" {
		like := "%" + strings.ToLower(keywords) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ? OR LOWER(address) LIKE ?",
			like, like, like, like)
	}

	if filter.CityID > 0 {
		query = query.Where("city_id = ?", filter.CityID)
	}

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	return query
}

// Hot returns the top-n organizations by click count for the ranking sidebar.
func (s *OrganizationService) Hot(ctx context.Context, n int) ([]db.Organization, error) {
	key := fmt.Sprintf("%s:%d", cache.KeyHotOrganizations, n)

	var orgs []db.Organization
	if s.cache.GetJSON(ctx, key, &orgs) {
		return orgs, nil
	}

	if err := s.db.Order("click_nums desc").Limit(n).Find(&orgs).Error; err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, key, orgs, cache.SidebarTTL)
	return orgs, nil
}

// Cities returns all cities for the filter bar.
func (s *OrganizationService) Cities() ([]db.City, error) {
	var cities []db.City
	if err := s.db.Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

// Detail assembles an organization detail section view model.
func (s *OrganizationService) Detail(id uint, section OrgSection, viewer uint, coursePage, coursePerPage int) (*OrgDetail, error) {
	switch section {
	case OrgSectionHome, OrgSectionCourses, OrgSectionDesc, OrgSectionTeachers:
	default:
		return nil, ErrInvalidSection
	}

	var org db.Organization
	if err := s.db.Preload("City").First(&org, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	detail := &OrgDetail{Organization: org, Section: section}

	var err error
	if detail.HasFav, err = hasFavorite(s.db, viewer, org.ID, db.FavTypeOrganization); err != nil {
		return nil, err
	}

	switch section {
	case OrgSectionHome:
		if err := s.db.Where("organization_id = ?", org.ID).
			Order("students desc").
			Limit(3).
			Find(&detail.TopCourses).Error; err != nil {
			return nil, err
		}
		if err := s.db.Where("organization_id = ?", org.ID).
			Limit(1).
			Find(&detail.TopTeachers).Error; err != nil {
			return nil, err
		}

	case OrgSectionCourses:
		courses := &CourseListResult{Page: coursePage, PerPage: coursePerPage}
		if courses.Page <= 0 {
			courses.Page = 1
		}
		if courses.PerPage <= 0 {
			courses.PerPage = 6
		}

		base := s.db.Model(&db.Course{}).Where("organization_id = ?", org.ID)
		if err := base.Count(&courses.Total).Error; err != nil {
			return nil, err
		}

		offset := (courses.Page - 1) * courses.PerPage
		if err := s.db.Where("organization_id = ?", org.ID).
			Order("created_at desc").
			Limit(courses.PerPage).
			Offset(offset).
			Find(&courses.Courses).Error; err != nil {
			return nil, err
		}

		if courses.Total == 0 {
			courses.TotalPages = 1
		} else {
			courses.TotalPages = int((courses.Total + int64(courses.PerPage) - 1) / int64(courses.PerPage))
		}
		detail.Courses = courses

	case OrgSectionTeachers:
		if err := s.db.Where("organization_id = ?", org.ID).Find(&detail.Teachers).Error; err != nil {
			return nil, err
		}
	}

	return detail, nil
}

var mobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// AddAsk 保存"我要学习"咨询表单。
func (s *OrganizationService) AddAsk(name, mobile, courseName string) error {
	name = strings.TrimSpace(name)
	mobile = strings.TrimSpace(mobile)
	courseName = strings.TrimSpace(courseName)

	if name == "" || courseName == "" || !mobilePattern.MatchString(mobile) {
		return ErrRejected
	}

	return s.db.Create(&db.UserAsk{Name: name, Mobile: mobile, CourseName: courseName}).Error
}
