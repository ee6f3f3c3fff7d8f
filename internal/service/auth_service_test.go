package service

import (
	"context"
	"testing"
	"time"

	"go-blog-api/internal/apperr"
	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/repo/memory"
)

func newAuthService() (*AuthService, *auth.JWTer) {
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	return NewAuthService(memory.NewUserRepo(), jwter), jwter
}

func TestRegisterAndLogin(t *testing.T) {
	svc, jwter := newAuthService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "A@X.com", "pw123456")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == "" || u.Username != "alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.Email != "a@x.com" {
		t.Fatalf("email must be lowercased, got %q", u.Email)
	}
	if u.Role != "member" {
		t.Fatalf("default role must be member, got %q", u.Role)
	}

	token, logged, err := svc.Login(ctx, "alice", "pw123456")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != u.ID {
		t.Fatalf("login returned wrong user")
	}
	claims, err := jwter.Parse(token)
	if err != nil {
		t.Fatalf("issued token must parse: %v", err)
	}
	if claims.UID != u.ID || claims.Username != "alice" {
		t.Fatalf("token must carry subject id and username, got %+v", claims)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"missing username", "", "a@x.com", "pw"},
		{"missing email", "alice", "", "pw"},
		{"missing password", "alice", "a@x.com", ""},
		{"short username", "al", "a@x.com", "pw"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.username, tc.email, tc.password); !apperr.IsKind(err, apperr.KindValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@x.com", "pw123456"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "other@x.com", "pw123456"); !apperr.IsKind(err, apperr.KindDuplicate) {
		t.Fatalf("duplicate username: expected duplicate error, got %v", err)
	}
	// 邮箱判重不区分大小写
	if _, err := svc.Register(ctx, "alice2", "A@x.COM", "pw123456"); !apperr.IsKind(err, apperr.KindDuplicate) {
		t.Fatalf("duplicate email: expected duplicate error, got %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@x.com", "pw123456"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice", "wrong"); !apperr.IsKind(err, apperr.KindInvalidCredentials) {
		t.Fatalf("wrong password: expected invalid credentials, got %v", err)
	}
	// 未知用户与错密码不可区分
	if _, _, err := svc.Login(ctx, "nobody", "pw123456"); !apperr.IsKind(err, apperr.KindInvalidCredentials) {
		t.Fatalf("unknown user: expected invalid credentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "", ""); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("missing fields: expected validation error, got %v", err)
	}
}
