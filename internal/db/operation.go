package db

import "gorm.io/gorm"

// 收藏目标类型
const (
	FavTypeCourse       = 1
	FavTypeOrganization = 2
	FavTypeTeacher      = 3
)

// Favorite 用户收藏记录，(UserID, FavID, FavType) 的唯一性由应用层
// 先查后插保证，数据库不加唯一约束；并发下可能产生重复行。
type Favorite struct {
	gorm.Model
	UserID  uint `gorm:"not null;index"`
	FavID   uint `gorm:"not null;index"`
	FavType int  `gorm:"not null;index"`
}

// CourseComment 课程评论，只追加不修改
type CourseComment struct {
	gorm.Model
	CourseID uint   `gorm:"not null;index"`
	UserID   uint   `gorm:"not null;index"`
	Comment  string `gorm:"not null"`

	User User
}

// UserAsk 用户"我要学习"咨询表单
type UserAsk struct {
	gorm.Model
	Name       string `gorm:"not null"`
	Mobile     string `gorm:"not null"`
	CourseName string `gorm:"not null"`
}

// 验证邮件用途
const (
	SendTypeRegister    = "register"
	SendTypeForget      = "forget"
	SendTypeUpdateEmail = "update_email"
)

// EmailVerifyRecord 邮箱验证记录。令牌有效期不在本层校验。
type EmailVerifyRecord struct {
	gorm.Model
	Code     string `gorm:"not null;index"`
	Email    string `gorm:"not null;index"`
	SendType string `gorm:"not null"`
}
