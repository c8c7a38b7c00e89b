package db

import "gorm.io/gorm"

// City 城市字典，用于机构列表的城市筛选
type City struct {
	gorm.Model
	Name        string `gorm:"unique;not null"`
	Description string
}

// Organization 定义了课程机构模型
type Organization struct {
	gorm.Model
	Name        string `gorm:"not null;index"`
	Description string // 机构介绍，markdown
	Category    string `gorm:"index"` // 机构类别: 培训机构/高校/个人
	Address     string
	ClickNums   int `gorm:"default:0"`
	FavNums     int `gorm:"default:0"`
	StudentNums int `gorm:"default:0"`
	CourseNums  int `gorm:"default:0"`
	Image       string
	CityID      uint `gorm:"index"`

	City City
}

// Teacher 定义了讲师模型
type Teacher struct {
	gorm.Model
	Name           string `gorm:"not null;index"`
	Age            int
	WorkYears      int
	WorkCompany    string
	WorkPosition   string
	AcademicDegree string
	Points         string // 教学特点
	ClickNums      int    `gorm:"default:0"`
	FavNums        int    `gorm:"default:0"`
	Image          string
	OrganizationID uint `gorm:"index"`

	Organization Organization
}
