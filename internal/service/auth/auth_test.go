// Package auth 提供认证服务单元测试
package auth

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/suiyuan/blog-ai/internal/config"
	"github.com/suiyuan/blog-ai/internal/model"
)

// mockUserRepository Mock User Repository
type mockUserRepository struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*model.User)}
}

func (m *mockUserRepository) CreateUser(user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetUserByID(id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) GetUserByUsername(username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) UpdateUser(user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func newTestService(admin config.AdminConfig) (*Service, *mockUserRepository) {
	repo := newMockUserRepo()
	return NewService(repo, admin), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(config.AdminConfig{})
	ctx := context.Background()

	info, err := svc.Register(ctx, &RegisterRequest{
		Username: "tester",
		Email:    "tester@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if info.Username != "tester" {
		t.Errorf("Username = %q", info.Username)
	}

	resp, err := svc.Login(ctx, &LoginRequest{Email: "tester@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if !resp.Success || resp.Token == "" {
		t.Errorf("登录应成功并下发令牌, resp = %+v", resp)
	}

	user, err := svc.ValidateToken(ctx, resp.Token)
	if err != nil {
		t.Fatalf("令牌校验失败: %v", err)
	}
	if user.Email != "tester@example.com" {
		t.Errorf("令牌对应用户 = %q", user.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(config.AdminConfig{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{Username: "a", Email: "dup@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if _, err := svc.Register(ctx, &RegisterRequest{Username: "b", Email: "dup@example.com", Password: "secret123"}); err == nil {
		t.Error("重复邮箱应注册失败")
	}
	if _, err := svc.Register(ctx, &RegisterRequest{Username: "a", Email: "other@example.com", Password: "secret123"}); err == nil {
		t.Error("重复用户名应注册失败")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(config.AdminConfig{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{Username: "tester", Email: "t@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// 密码错误和用户不存在返回同一条消息，不泄漏账号是否存在
	wrongPwd, err := svc.Login(ctx, &LoginRequest{Email: "t@example.com", Password: "wrong-pass"})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	noUser, err := svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	if wrongPwd.Success || noUser.Success {
		t.Error("错误凭据不应登录成功")
	}
	if wrongPwd.Message != noUser.Message {
		t.Errorf("两种失败的消息应一致: %q vs %q", wrongPwd.Message, noUser.Message)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	svc, repo := newTestService(config.AdminConfig{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{Username: "tester", Email: "t@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	for _, u := range repo.users {
		u.IsActive = false
	}

	resp, err := svc.Login(ctx, &LoginRequest{Email: "t@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	if resp.Success {
		t.Error("禁用账号不应登录成功")
	}
}

func TestChangePassword(t *testing.T) {
	svc, repo := newTestService(config.AdminConfig{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{Username: "tester", Email: "t@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	var userID string
	for id := range repo.users {
		userID = id
	}

	if err := svc.ChangePassword(ctx, userID, "bad-old", "newpass456"); err == nil {
		t.Error("旧密码错误应失败")
	}
	if err := svc.ChangePassword(ctx, userID, "secret123", "newpass456"); err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}

	resp, _ := svc.Login(ctx, &LoginRequest{Email: "t@example.com", Password: "newpass456"})
	if !resp.Success {
		t.Error("新密码应能登录")
	}
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name  string
		admin config.AdminConfig
		email string
		want  bool
	}{
		{"空名单默认拒绝", config.AdminConfig{}, "a@example.com", false},
		{"空名单显式放行", config.AdminConfig{AllowAll: true}, "a@example.com", true},
		{"名单命中", config.AdminConfig{Emails: "a@example.com,b@example.com"}, "a@example.com", true},
		{"名单命中忽略大小写", config.AdminConfig{Emails: "Admin@Example.com"}, "ADMIN@example.com", true},
		{"名单未命中", config.AdminConfig{Emails: "a@example.com"}, "c@example.com", false},
		{"有名单时 AllowAll 不生效", config.AdminConfig{Emails: "a@example.com", AllowAll: true}, "c@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(tt.admin)
			if got := svc.IsAdmin(tt.email); got != tt.want {
				t.Errorf("IsAdmin(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}
