package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lighten/internal/db"
)

// ToggleResult 收藏开关的结果
type ToggleResult int

const (
	FavoriteAdded ToggleResult = iota
	FavoriteRemoved
)

// FavoriteService 负责收藏记录的增删与查询。
type FavoriteService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewFavoriteService creates a FavoriteService instance.
func NewFavoriteService(gdb *gorm.DB, logger *zap.Logger) *FavoriteService {
	return &FavoriteService{db: gdb, logger: logger}
}

// Toggle adds or removes a favorite record for the viewer.
// 先查后写，不在事务里：两个相同的并发请求可能都读到"不存在"而各插一条。
// 重复行在下一次 Toggle 时会被整体删除，保持原始行为不加唯一约束。
func (s *FavoriteService) Toggle(viewer, favID uint, favType int) (ToggleResult, error) {
	if viewer == 0 {
		return 0, ErrUnauthorized
	}

	targetName, targetKind, err := s.resolveTarget(favID, favType)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := s.db.Model(&db.Favorite{}).
		Where("user_id = ? AND fav_id = ? AND fav_type = ?", viewer, favID, favType).
		Count(&count).Error; err != nil {
		return 0, err
	}

	if count > 0 {
		if err := s.db.Where("user_id = ? AND fav_id = ? AND fav_type = ?", viewer, favID, favType).
			Delete(&db.Favorite{}).Error; err != nil {
			return 0, err
		}
		if err := s.adjustFavNums(favID, favType, -1); err != nil {
			return 0, err
		}

		s.logger.Info("favorite removed",
			zap.Uint("user_id", viewer),
			zap.String("kind", targetKind),
			zap.String("name", targetName))
		return FavoriteRemoved, nil
	}

	if err := s.db.Create(&db.Favorite{UserID: viewer, FavID: favID, FavType: favType}).Error; err != nil {
		return 0, err
	}
	if err := s.adjustFavNums(favID, favType, 1); err != nil {
		return 0, err
	}

	s.logger.Info("favorite added",
		zap.Uint("user_id", viewer),
		zap.String("kind", targetKind),
		zap.String("name", targetName))
	return FavoriteAdded, nil
}

// IsFavorite reports whether the viewer has favorited the target.
func (s *FavoriteService) IsFavorite(viewer, favID uint, favType int) (bool, error) {
	return hasFavorite(s.db, viewer, favID, favType)
}

// resolveTarget 校验收藏类型与目标存在性，返回目标名称与类别描述。
// 先校验类型再查目标，favID 为 0 时按目标不存在处理。
func (s *FavoriteService) resolveTarget(favID uint, favType int) (name, kind string, err error) {
	switch favType {
	case db.FavTypeCourse:
		var course db.Course
		if err := s.db.First(&course, favID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", "", ErrNotFound
			}
			return "", "", err
		}
		return course.Name, "课程", nil

	case db.FavTypeOrganization:
		var org db.Organization
		if err := s.db.First(&org, favID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", "", ErrNotFound
			}
			return "", "", err
		}
		return org.Name, "课程机构", nil

	case db.FavTypeTeacher:
		var teacher db.Teacher
		if err := s.db.First(&teacher, favID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", "", ErrNotFound
			}
			return "", "", err
		}
		return teacher.Name, "讲师", nil
	}

	return "", "", ErrInvalidTarget
}

// adjustFavNums 同步目标实体的收藏数，下限为 0
func (s *FavoriteService) adjustFavNums(favID uint, favType, delta int) error {
	expr := gorm.Expr("fav_nums + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("MAX(fav_nums + ?, 0)", delta)
	}

	switch favType {
	case db.FavTypeCourse:
		return s.db.Model(&db.Course{}).Where("id = ?", favID).Update("fav_nums", expr).Error
	case db.FavTypeOrganization:
		return s.db.Model(&db.Organization{}).Where("id = ?", favID).Update("fav_nums", expr).Error
	case db.FavTypeTeacher:
		return s.db.Model(&db.Teacher{}).Where("id = ?", favID).Update("fav_nums", expr).Error
	}
	return ErrInvalidTarget
}

// hasFavorite 查询收藏标记；未登录观察者恒为 false。
func hasFavorite(gdb *gorm.DB, viewer, favID uint, favType int) (bool, error) {
	if viewer == 0 || favID == 0 {
		return false, nil
	}

	var count int64
	if err := gdb.Model(&db.Favorite{}).
		Where("user_id = ? AND fav_id = ? AND fav_type = ?", viewer, favID, favType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
