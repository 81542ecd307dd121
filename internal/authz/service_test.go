package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func mustEnforce(t *testing.T, svc *Service, userID uint, obj, act string) bool {
	t.Helper()
	allow, err := svc.EnforceUser(userID, obj, act)
	if err != nil {
		t.Fatalf("enforce %s %s failed: %v", act, obj, err)
	}
	return allow
}

func TestEnforceUserWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("moderator", "/admin/posts/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetUserRoles(5, []string{"moderator"}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	if !mustEnforce(t, svc, 5, "/api/v1/admin/posts/42", "get") {
		t.Fatalf("expected allow=true")
	}
	if mustEnforce(t, svc, 5, "/api/v1/admin/posts/42", "DELETE") {
		t.Fatalf("expected allow=false")
	}
	if mustEnforce(t, svc, 6, "/api/v1/admin/posts/42", "GET") {
		t.Fatalf("user without roles must be denied")
	}
}

func TestSetUserRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetUserRoles(2, []string{"author"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	if err := svc.SetUserRoles(2, []string{"editor"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err := svc.GetUserRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:editor" {
		t.Fatalf("roles want [role:editor], got=%v", roles)
	}

	if err := svc.SetUserRoles(2, nil); err != nil {
		t.Fatalf("clear roles failed: %v", err)
	}
	roles, _ = svc.GetUserRoles(2)
	if len(roles) != 0 {
		t.Fatalf("roles should be cleared, got=%v", roles)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/posts/:id", want: "/admin/posts/:id"},
		{in: "/admin/categories/:id", want: "/admin/categories/:id"},
		{in: "admin/posts", want: "/admin/posts"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap must be idempotent: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	want := "role:author,role:editor,role:reader"
	if got := strings.Join(roles, ","); got != want {
		t.Fatalf("roles want %s, got %s", want, got)
	}

	if err := svc.SetUserRoles(3, []string{"author"}); err != nil {
		t.Fatalf("set author failed: %v", err)
	}
	if err := svc.SetUserRoles(4, []string{"editor"}); err != nil {
		t.Fatalf("set editor failed: %v", err)
	}

	cases := []struct {
		user uint
		obj  string
		act  string
		want bool
	}{
		{3, "/admin/posts", "GET", true},
		{3, "/admin/posts", "POST", true},
		{3, "/admin/posts/7", "PUT", true},
		{3, "/admin/posts/7", "DELETE", false},
		{3, "/admin/categories", "POST", false},
		{3, "/admin/users/9", "DELETE", false},
		{4, "/admin/posts/7", "DELETE", true},
		{4, "/admin/categories/2", "PUT", true},
		{4, "/admin/upload/thumbnail", "POST", true},
		{4, "/admin/users", "POST", false},
	}
	for _, c := range cases {
		if got := mustEnforce(t, svc, c.user, c.obj, c.act); got != c.want {
			t.Fatalf("user %d %s %s: want %v got %v", c.user, c.act, c.obj, c.want, got)
		}
	}

	policies, err := svc.GetRolePolicies("editor")
	if err != nil {
		t.Fatalf("get role policies failed: %v", err)
	}
	if len(policies) != 3 || policies[0].Object != "/admin/categories" {
		t.Fatalf("unexpected editor policies: %+v", policies)
	}
}
