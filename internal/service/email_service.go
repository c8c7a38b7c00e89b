package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lighten/internal/db"
	"github.com/lighten/internal/mail"
)

// tokenAlphabet 去掉了易混淆的 I l O 0 1，验证码输入体验更好
const tokenAlphabet = "AaBbCcDdEeFfGgHhJjKkMmNnPpQqRrSsTtUuVvWwXxYyZz23456789"

const defaultTokenLength = 16

// EmailService 负责签发验证邮件：生成令牌、落库、异步投递。
type EmailService struct {
	db          *gorm.DB
	mailer      mail.Mailer
	logger      *zap.Logger
	baseURL     string
	tokenLength int
}

// NewEmailService creates an EmailService instance.
// tokenLength <= 0 时使用默认长度 16。
func NewEmailService(gdb *gorm.DB, mailer mail.Mailer, logger *zap.Logger, baseURL string, tokenLength int) *EmailService {
	if tokenLength <= 0 {
		tokenLength = defaultTokenLength
	}
	return &EmailService{
		db:          gdb,
		mailer:      mailer,
		logger:      logger,
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokenLength: tokenLength,
	}
}

// GenerateToken 从固定字母表生成随机令牌
func GenerateToken(length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(tokenAlphabet[rand.IntN(len(tokenAlphabet))])
	}
	return b.String()
}

// IssueVerification 生成验证记录并异步发送邮件。
// 调用方不等待投递结果；SMTP 失败只记 Warn 日志，不向上传递。
// 返回签发的令牌，便于测试与上层拼接。
func (s *EmailService) IssueVerification(email, purpose string) (string, error) {
	var subject, body string

	token := GenerateToken(s.tokenLength)

	switch purpose {
	case db.SendTypeRegister:
		subject = "Lighten - 注册激活"
		body = fmt.Sprintf("请点击下面的链接激活你的账号: %s/active/%s", s.baseURL, token)
	case db.SendTypeForget:
		subject = "Lighten - 密码重置"
		body = fmt.Sprintf("请点击下面的链接重置你的密码: %s/reset/%s", s.baseURL, token)
	case db.SendTypeUpdateEmail:
		subject = "Lighten - 邮箱修改验证码"
		body = fmt.Sprintf("你的邮箱验证码为: %s", token)
	default:
		return "", ErrInvalidPurpose
	}

	record := db.EmailVerifyRecord{Code: token, Email: email, SendType: purpose}
	if err := s.db.Create(&record).Error; err != nil {
		return "", err
	}

	// 投递放到独立 goroutine，HTTP 响应不被 SMTP 延迟阻塞
	go func() {
		if err := s.mailer.Send(email, subject, body); err != nil {
			s.logger.Warn("verification mail delivery failed",
				zap.String("email", email),
				zap.String("purpose", purpose),
				zap.Error(err))
		}
	}()

	return token, nil
}

// Verify 按令牌和用途查找最新的验证记录，返回对应邮箱。
// 本层不做有效期校验。
func (s *EmailService) Verify(code, purpose string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", ErrNotFound
	}

	var record db.EmailVerifyRecord
	if err := s.db.Where("code = ? AND send_type = ?", code, purpose).
		Order("created_at desc").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return record.Email, nil
}
