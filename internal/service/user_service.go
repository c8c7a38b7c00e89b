package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lighten/internal/db"
)

var (
	ErrUserExists       = errors.New("username or email already registered")
	ErrBadCredentials   = errors.New("invalid username or password")
	ErrUserInactive     = errors.New("account not activated")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// UserService 负责账号注册、激活与密码重置。
type UserService struct {
	db     *gorm.DB
	emails *EmailService
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB, emails *EmailService) *UserService {
	return &UserService{db: gdb, emails: emails}
}

// Register 创建未激活账号并签发注册激活邮件。
func (s *UserService) Register(email, password string) (*db.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrRejected
	}
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}

	var count int64
	if err := s.db.Model(&db.User{}).
		Where("username = ? OR email = ?", email, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// 注册时用户名即邮箱，与原始站点一致
	user := db.User{Username: email, Email: email, Password: string(hashed), IsActive: false}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	if _, err := s.emails.IssueVerification(email, db.SendTypeRegister); err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate 校验用户名(或邮箱)与密码，账号须已激活。
func (s *UserService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ? OR email = ?", username, username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return &user, nil
}

// Activate 根据激活链接里的令牌激活账号。
func (s *UserService) Activate(code string) error {
	email, err := s.emails.Verify(code, db.SendTypeRegister)
	if err != nil {
		return err
	}

	return s.db.Model(&db.User{}).
		Where("email = ?", email).
		Update("is_active", true).Error
}

// RequestPasswordReset 签发密码重置邮件；邮箱未注册时返回 ErrNotFound。
func (s *UserService) RequestPasswordReset(email string) error {
	var count int64
	if err := s.db.Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	_, err := s.emails.IssueVerification(email, db.SendTypeForget)
	return err
}

// ResetPassword 根据重置令牌设置新密码。
func (s *UserService) ResetPassword(code, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	email, err := s.emails.Verify(code, db.SendTypeForget)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.Model(&db.User{}).
		Where("email = ?", email).
		Update("password", string(hashed)).Error
}

// UpdateEmail 校验 update_email 验证码后更新绑定邮箱。
// 验证码必须是签发给目标邮箱的，不匹配返回 ErrRejected。
func (s *UserService) UpdateEmail(userID uint, email, code string) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrRejected
	}

	verified, err := s.emails.Verify(code, db.SendTypeUpdateEmail)
	if err != nil {
		return err
	}
	if verified != email {
		return ErrRejected
	}

	return s.db.Model(&db.User{}).
		Where("id = ?", userID).
		Update("email", email).Error
}

// UpdatePassword 修改已登录用户的密码。
func (s *UserService) UpdatePassword(userID uint, newPassword string) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.Model(&db.User{}).
		Where("id = ?", userID).
		Update("password", string(hashed)).Error
}

// UpdateAvatar 更新用户头像路径。
func (s *UserService) UpdateAvatar(userID uint, path string) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	return s.db.Model(&db.User{}).Where("id = ?", userID).Update("avatar", path).Error
}

// Get fetches a user by id.
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
