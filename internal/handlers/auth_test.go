package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"smartbin"
	"smartbin/internal/service"
)

func TestRegister(t *testing.T) {
	auth := &authStub{
		registerFn: func(ctx context.Context, p service.RegisterParams) (*smartbin.User, error) {
			return &smartbin.User{
				ID: 1, Username: "operator1", Email: p.Email, Role: p.Role, IsActive: true,
			}, nil
		},
	}
	router := newTestRouter(stubServices(nil, auth, nil))

	w := doJSON(router, http.MethodPost, "/auth/register", map[string]any{
		"username": "Operator1", "email": "op@smartwaste.com",
		"phoneNumber": "5550001", "password": "hunter22", "role": "operator",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["message"] != "User registered successfully" {
		t.Fatalf("message = %v", body["message"])
	}
	user := body["user"].(map[string]any)
	if user["username"] != "operator1" || user["role"] != "operator" {
		t.Fatalf("user = %v", user)
	}
	// The password hash is never exposed.
	if _, ok := user["passwordHash"]; ok {
		t.Fatal("response leaks password hash")
	}
}

func TestRegister_MissingFieldIs400(t *testing.T) {
	called := false
	auth := &authStub{
		registerFn: func(ctx context.Context, p service.RegisterParams) (*smartbin.User, error) {
			called = true
			return nil, nil
		},
	}
	router := newTestRouter(stubServices(nil, auth, nil))

	w := doJSON(router, http.MethodPost, "/auth/register", map[string]any{
		"username": "operator1", "password": "hunter22",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if called {
		t.Fatal("service must not be called on a binding failure")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	auth := &authStub{
		registerFn: func(ctx context.Context, p service.RegisterParams) (*smartbin.User, error) {
			return nil, service.ErrDuplicateUser
		},
	}
	router := newTestRouter(stubServices(nil, auth, nil))

	w := doJSON(router, http.MethodPost, "/auth/register", map[string]any{
		"username": "admin", "email": "x@y.z", "phoneNumber": "1", "password": "p", "role": "r",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLogin(t *testing.T) {
	auth := &authStub{
		tokenFn: func(ctx context.Context, username, password string) (string, *smartbin.User, error) {
			if password != "admin123" {
				return "", nil, service.ErrInvalidPassword
			}
			return "signed.jwt.token", &smartbin.User{
				Username: "admin", Email: "admin@smartwaste.com", Role: "administrator",
			}, nil
		},
	}
	router := newTestRouter(stubServices(nil, auth, nil))

	w := doJSON(router, http.MethodPost, "/auth/login", map[string]any{
		"username": "admin", "password": "admin123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["token"] != "signed.jwt.token" {
		t.Fatalf("token = %v", body["token"])
	}
	user := body["user"].(map[string]any)
	if user["role"] != "administrator" {
		t.Fatalf("user = %v", user)
	}
}

func TestLogin_BadCredentialsAre401(t *testing.T) {
	auth := &authStub{
		tokenFn: func(ctx context.Context, username, password string) (string, *smartbin.User, error) {
			return "", nil, service.ErrInvalidPassword
		},
	}
	router := newTestRouter(stubServices(nil, auth, nil))

	w := doJSON(router, http.MethodPost, "/auth/login", map[string]any{
		"username": "admin", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLogin_UnknownUserIs401(t *testing.T) {
	auth := &authStub{
		tokenFn: func(ctx context.Context, username, password string) (string, *smartbin.User, error) {
			return "", nil, service.ErrUserNotFound
		},
	}
	router := newTestRouter(stubServices(nil, auth, nil))

	w := doJSON(router, http.MethodPost, "/auth/login", map[string]any{
		"username": "ghost", "password": "pw",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
