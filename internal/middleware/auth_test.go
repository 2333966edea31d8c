package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/goShop/internal/store"
	"github.com/MrEthical07/goShop/internal/token"
)

type fakeLookup struct {
	users map[string]*store.User
}

func (f *fakeLookup) UserByID(_ context.Context, id string) (*store.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

func newGuardedRouter(t *testing.T) (*gin.Engine, *token.Manager, *fakeLookup) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := token.NewManager(token.Config{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	lookup := &fakeLookup{users: map[string]*store.User{}}

	router := gin.New()
	router.GET("/protected", ProtectRoute(tokens, lookup), func(c *gin.Context) {
		user, _ := UserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	router.GET("/admin", ProtectRoute(tokens, lookup), AdminRoute(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, tokens, lookup
}

func get(router *gin.Engine, path, accessToken string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accessToken != "" {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: accessToken})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProtectRoute(t *testing.T) {
	router, tokens, lookup := newGuardedRouter(t)
	lookup.users["u1"] = &store.User{ID: "u1", Role: store.RoleCustomer}

	if w := get(router, "/protected", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing cookie: status %d", w.Code)
	}
	if w := get(router, "/protected", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token: status %d", w.Code)
	}

	access, err := tokens.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	if w := get(router, "/protected", access); w.Code != http.StatusOK {
		t.Fatalf("valid token: status %d, body %s", w.Code, w.Body.String())
	}

	// A valid token for a deleted user is rejected.
	orphan, err := tokens.IssueAccess("gone")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	if w := get(router, "/protected", orphan); w.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user: status %d", w.Code)
	}
}

func TestAdminRoute(t *testing.T) {
	router, tokens, lookup := newGuardedRouter(t)
	lookup.users["cust"] = &store.User{ID: "cust", Role: store.RoleCustomer}
	lookup.users["adm"] = &store.User{ID: "adm", Role: store.RoleAdmin}

	custToken, err := tokens.IssueAccess("cust")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	if w := get(router, "/admin", custToken); w.Code != http.StatusForbidden {
		t.Fatalf("customer on admin route: status %d", w.Code)
	}

	admToken, err := tokens.IssueAccess("adm")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	if w := get(router, "/admin", admToken); w.Code != http.StatusOK {
		t.Fatalf("admin on admin route: status %d", w.Code)
	}
}
