package db

import "gorm.io/gorm"

// Course 定义了课程模型。
// ClickNums 在详情页每次访问时 +1（读改写，未加锁）。
type Course struct {
	gorm.Model
	Name           string `gorm:"not null;index"`
	Description    string
	Detail         string // 课程详情，markdown
	Tag            string `gorm:"index"`
	Degree         string // 难度: 初级/中级/高级
	LearnTimes     int    // 学习时长(分钟)
	Students       int    `gorm:"default:0"`
	ClickNums      int    `gorm:"default:0"`
	FavNums        int    `gorm:"default:0"`
	Image          string
	Category       string
	Notice         string
	IsBanner       bool `gorm:"default:false"` // 首页轮播位
	OrganizationID uint `gorm:"index"`
	TeacherID      uint `gorm:"index"`

	Organization Organization
	Teacher      Teacher
}

// CourseResource 课程资料(视频页下载列表)
type CourseResource struct {
	gorm.Model
	CourseID uint   `gorm:"not null;index"`
	Name     string `gorm:"not null"`
	Download string
}

// UserCourse 记录用户开始学习某课程，保证学习人数每人只计一次
type UserCourse struct {
	gorm.Model
	UserID   uint `gorm:"not null;index"`
	CourseID uint `gorm:"not null;index"`
}
