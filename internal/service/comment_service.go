package service

import (
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/lighten/internal/db"
)

// 评论入库前统一剥掉 HTML，展示层无需再转义富文本
var commentSanitizer = bluemonday.StrictPolicy()

// CommentService 负责课程评论的追加与查询。
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Add appends a comment to a course.
// 空文本或非法课程 id 无论是否登录一律返回 ErrRejected，未登录返回 ErrUnauthorized。
func (s *CommentService) Add(viewer, courseID uint, text string) (*db.CourseComment, error) {
	text = strings.TrimSpace(commentSanitizer.Sanitize(text))
	if text == "" || courseID == 0 {
		return nil, ErrRejected
	}

	if viewer == 0 {
		return nil, ErrUnauthorized
	}

	var course db.Course
	if err := s.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := db.CourseComment{CourseID: courseID, UserID: viewer, Comment: text}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForCourse returns a course's comments, newest first.
func (s *CommentService) ListForCourse(courseID uint) ([]db.CourseComment, error) {
	var comments []db.CourseComment
	if err := s.db.Preload("User").
		Where("course_id = ?", courseID).
		Order("created_at desc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
