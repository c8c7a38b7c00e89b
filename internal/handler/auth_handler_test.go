package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/lighten/internal/db"
)

func TestForgetUnknownEmail(t *testing.T) {
	_, r, cleanup := setupHandlerTest(t, "forget-unknown")
	defer cleanup()

	form := url.Values{"email": {"nobody@example.com"}}
	resp := decodeEnvelope(t, postForm(r, "/forget", form, nil))

	if resp.Status != "fail" || resp.Msg != "邮箱未注册" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	_, r, cleanup := setupHandlerTest(t, "logout")
	defer cleanup()

	cookies := loginAs(t, r, 7)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect after logout, got %d", w.Code)
	}

	// 登出响应里的会话 cookie 不再带登录态
	cleared := w.Result().Cookies()
	if len(cleared) == 0 {
		t.Fatalf("expected logout to rewrite the session cookie")
	}
	form := url.Values{
		"fav_id":   {"1"},
		"fav_type": {"1"},
	}
	resp := decodeEnvelope(t, postForm(r, "/favorites/add", form, cleared))
	if resp.Status != "fail" || resp.Msg != "用户未登录" {
		t.Fatalf("session survived logout: %+v", resp)
	}
}

func TestForgetIssuesResetRecord(t *testing.T) {
	gdb, r, cleanup := setupHandlerTest(t, "forget-ok")
	defer cleanup()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := db.User{Username: "reset@example.com", Email: "reset@example.com", Password: string(hashed), IsActive: true}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	form := url.Values{"email": {"reset@example.com"}}
	resp := decodeEnvelope(t, postForm(r, "/forget", form, nil))

	if resp.Status != "success" || resp.Msg != "重置邮件已发送" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	var record db.EmailVerifyRecord
	if err := gdb.Where("email = ? AND send_type = ?", "reset@example.com", db.SendTypeForget).
		First(&record).Error; err != nil {
		t.Fatalf("reset record not persisted: %v", err)
	}
}
