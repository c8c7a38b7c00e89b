package service

import (
	"testing"

	"go.uber.org/zap"

	"github.com/lighten/internal/db"
)

func newUserServiceForTest(t *testing.T, name string) (*UserService, func()) {
	t.Helper()
	gdb, cleanup := setupServiceTestDB(t, name)
	emails := NewEmailService(gdb, newCaptureMailer(), zap.NewNop(), "http://127.0.0.1:8080", 0)
	return NewUserService(gdb, emails), cleanup
}

func TestRegisterActivateAuthenticate(t *testing.T) {
	svc, cleanup := newUserServiceForTest(t, "user-flow")
	defer cleanup()

	user, err := svc.Register("new@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.IsActive {
		t.Fatalf("freshly registered account must be inactive")
	}
	if user.Username != "new@example.com" {
		t.Fatalf("registration should use email as username, got %q", user.Username)
	}

	// 未激活不能登录
	if _, err := svc.Authenticate("new@example.com", "secret123"); err != ErrUserInactive {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}

	var record db.EmailVerifyRecord
	if err := svc.db.Where("email = ? AND send_type = ?", "new@example.com", db.SendTypeRegister).
		First(&record).Error; err != nil {
		t.Fatalf("register did not issue a verification record: %v", err)
	}

	if err := svc.Activate(record.Code); err != nil {
		t.Fatalf("activate: %v", err)
	}

	got, err := svc.Authenticate("new@example.com", "secret123")
	if err != nil {
		t.Fatalf("authenticate after activation: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("authenticated wrong user: %d", got.ID)
	}

	if _, err := svc.Authenticate("new@example.com", "wrongpass"); err != ErrBadCredentials {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "secret123"); err != ErrBadCredentials {
		t.Fatalf("expected ErrBadCredentials for unknown user, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, cleanup := newUserServiceForTest(t, "user-validation")
	defer cleanup()

	if _, err := svc.Register("short@example.com", "abc"); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if _, err := svc.Register("   ", "secret123"); err != ErrRejected {
		t.Fatalf("expected ErrRejected for blank email, got %v", err)
	}

	if _, err := svc.Register("dup@example.com", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register("dup@example.com", "secret456"); err != ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestActivateBadCode(t *testing.T) {
	svc, cleanup := newUserServiceForTest(t, "user-activate")
	defer cleanup()

	if err := svc.Activate("missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	svc, cleanup := newUserServiceForTest(t, "user-reset")
	defer cleanup()

	if _, err := svc.Register("reset@example.com", "oldpass1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	var record db.EmailVerifyRecord
	if err := svc.db.Where("send_type = ?", db.SendTypeRegister).First(&record).Error; err != nil {
		t.Fatalf("missing register record: %v", err)
	}
	if err := svc.Activate(record.Code); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if err := svc.RequestPasswordReset("nobody@example.com"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown email, got %v", err)
	}
	if err := svc.RequestPasswordReset("reset@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}

	var reset db.EmailVerifyRecord
	if err := svc.db.Where("email = ? AND send_type = ?", "reset@example.com", db.SendTypeForget).
		First(&reset).Error; err != nil {
		t.Fatalf("missing reset record: %v", err)
	}

	if err := svc.ResetPassword(reset.Code, "123"); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := svc.ResetPassword("missing", "newpass1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for bad code, got %v", err)
	}
	if err := svc.ResetPassword(reset.Code, "newpass1"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if _, err := svc.Authenticate("reset@example.com", "oldpass1"); err != ErrBadCredentials {
		t.Fatalf("old password should be rejected, got %v", err)
	}
	if _, err := svc.Authenticate("reset@example.com", "newpass1"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
}

func TestUpdateEmailConsumesVerificationCode(t *testing.T) {
	svc, cleanup := newUserServiceForTest(t, "user-email")
	defer cleanup()

	user, err := svc.Register("old@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	code, err := svc.emails.IssueVerification("new@example.com", db.SendTypeUpdateEmail)
	if err != nil {
		t.Fatalf("issue update_email code: %v", err)
	}

	if err := svc.UpdateEmail(0, "new@example.com", code); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := svc.UpdateEmail(user.ID, "new@example.com", "wrongcode"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown code, got %v", err)
	}
	// 验证码签发给别的邮箱时不能用
	if err := svc.UpdateEmail(user.ID, "other@example.com", code); err != ErrRejected {
		t.Fatalf("expected ErrRejected for mismatched email, got %v", err)
	}

	if err := svc.UpdateEmail(user.ID, "new@example.com", code); err != nil {
		t.Fatalf("update email: %v", err)
	}

	got, err := svc.Get(user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != "new@example.com" {
		t.Fatalf("email not updated, got %q", got.Email)
	}
}

func TestUpdatePassword(t *testing.T) {
	svc, cleanup := newUserServiceForTest(t, "user-updatepwd")
	defer cleanup()

	user, err := svc.Register("pwd@example.com", "oldpass1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	var record db.EmailVerifyRecord
	if err := svc.db.Where("send_type = ?", db.SendTypeRegister).First(&record).Error; err != nil {
		t.Fatalf("missing register record: %v", err)
	}
	if err := svc.Activate(record.Code); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if err := svc.UpdatePassword(0, "newpass1"); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := svc.UpdatePassword(user.ID, "123"); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := svc.UpdatePassword(user.ID, "newpass1"); err != nil {
		t.Fatalf("update password: %v", err)
	}

	if _, err := svc.Authenticate("pwd@example.com", "oldpass1"); err != ErrBadCredentials {
		t.Fatalf("old password should be rejected, got %v", err)
	}
	if _, err := svc.Authenticate("pwd@example.com", "newpass1"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
}

func TestUpdateAvatar(t *testing.T) {
	svc, cleanup := newUserServiceForTest(t, "user-avatar")
	defer cleanup()

	if err := svc.UpdateAvatar(0, "/static/upload/x.png"); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	user, err := svc.Register("avatar@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.UpdateAvatar(user.ID, "/static/upload/x.png"); err != nil {
		t.Fatalf("update avatar: %v", err)
	}

	got, err := svc.Get(user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Avatar != "/static/upload/x.png" {
		t.Fatalf("avatar not updated, got %q", got.Avatar)
	}
}
