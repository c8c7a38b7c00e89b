package service

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lighten/internal/db"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

// captureMailer 把投递结果写进 channel，方便测试异步发送
type captureMailer struct {
	sent chan sentMail
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{sent: make(chan sentMail, 4)}
}

func (m *captureMailer) Send(to, subject, body string) error {
	m.sent <- sentMail{to: to, subject: subject, body: body}
	return nil
}

func TestGenerateTokenAvoidsAmbiguousCharacters(t *testing.T) {
	for i := 0; i < 200; i++ {
		token := GenerateToken(16)
		if len(token) != 16 {
			t.Fatalf("expected 16-char token, got %q", token)
		}
		if strings.ContainsAny(token, "IlO01") {
			t.Fatalf("token contains ambiguous character: %q", token)
		}
	}
}

func TestIssueVerificationPersistsRecordAndSends(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t, "email-issue")
	defer cleanup()

	mailer := newCaptureMailer()
	svc := NewEmailService(gdb, mailer, zap.NewNop(), "http://127.0.0.1:8080/", 0)

	token, err := svc.IssueVerification("user@example.com", db.SendTypeRegister)
	if err != nil {
		t.Fatalf("issue verification: %v", err)
	}
	if len(token) != 16 {
		t.Fatalf("expected default token length 16, got %d", len(token))
	}

	var record db.EmailVerifyRecord
	if err := gdb.Where("code = ?", token).First(&record).Error; err != nil {
		t.Fatalf("verification record not persisted: %v", err)
	}
	if record.Email != "user@example.com" || record.SendType != db.SendTypeRegister {
		t.Fatalf("unexpected record: %+v", record)
	}

	select {
	case mail := <-mailer.sent:
		if mail.to != "user@example.com" {
			t.Fatalf("mail sent to %q", mail.to)
		}
		if !strings.Contains(mail.body, "http://127.0.0.1:8080/active/"+token) {
			t.Fatalf("mail body missing activation link: %q", mail.body)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("mail was never dispatched")
	}
}

func TestIssueVerificationForgetBuildsResetLink(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t, "email-forget")
	defer cleanup()

	mailer := newCaptureMailer()
	svc := NewEmailService(gdb, mailer, zap.NewNop(), "http://127.0.0.1:8080", 8)

	token, err := svc.IssueVerification("user@example.com", db.SendTypeForget)
	if err != nil {
		t.Fatalf("issue verification: %v", err)
	}
	if len(token) != 8 {
		t.Fatalf("expected configured token length 8, got %d", len(token))
	}

	select {
	case mail := <-mailer.sent:
		if !strings.Contains(mail.body, "/reset/"+token) {
			t.Fatalf("mail body missing reset link: %q", mail.body)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("mail was never dispatched")
	}
}

func TestIssueVerificationUnknownPurpose(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t, "email-purpose")
	defer cleanup()

	svc := NewEmailService(gdb, newCaptureMailer(), zap.NewNop(), "http://127.0.0.1:8080", 0)

	if _, err := svc.IssueVerification("user@example.com", "promo"); err != ErrInvalidPurpose {
		t.Fatalf("expected ErrInvalidPurpose, got %v", err)
	}

	var count int64
	gdb.Model(&db.EmailVerifyRecord{}).Count(&count)
	if count != 0 {
		t.Fatalf("record persisted for invalid purpose")
	}
}

func TestVerifyReturnsEmailForCode(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t, "email-verify")
	defer cleanup()

	now := time.Now()
	records := []db.EmailVerifyRecord{
		{Code: "AbCd2345", Email: "old@example.com", SendType: db.SendTypeRegister},
		{Code: "AbCd2345", Email: "new@example.com", SendType: db.SendTypeRegister},
	}
	records[0].CreatedAt = now.Add(-time.Hour)
	records[1].CreatedAt = now
	for i := range records {
		if err := gdb.Create(&records[i]).Error; err != nil {
			t.Fatalf("failed to seed record: %v", err)
		}
	}

	svc := NewEmailService(gdb, newCaptureMailer(), zap.NewNop(), "http://127.0.0.1:8080", 0)

	// 同一令牌取最新一条
	email, err := svc.Verify("AbCd2345", db.SendTypeRegister)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if email != "new@example.com" {
		t.Fatalf("expected newest record email, got %q", email)
	}

	if _, err := svc.Verify("missing", db.SendTypeRegister); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Verify("AbCd2345", db.SendTypeForget); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for wrong purpose, got %v", err)
	}
}
