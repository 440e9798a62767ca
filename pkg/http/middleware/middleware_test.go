// Copyright 2025 Portal Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package middleware

import (
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/http/jwt"
	"github.com/go-portal/portal/pkg/log"
	"github.com/gofiber/fiber/v2"
)

const testSecret = "0123456789abcdef"

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}

// staticLookup reports every user as active with the given stored role.
func staticLookup(role string) UserLookup {
	return func(userId string) (string, bool, error) {
		return role, true, nil
	}
}

func newAuthedApp(lookup UserLookup, handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(AuthorizationMiddleware(testSecret, lookup))
	for _, h := range handlers {
		app.Use(h)
	}
	app.Get("/test", func(c *fiber.Ctx) error {
		return http.WithRepNotDetail(c)
	})
	return app
}

func responseCode(t *testing.T, resp *stdhttp.Response) int {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	var envelope struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return envelope.Code
}

func TestAuthorizationMiddleware_MissingToken(t *testing.T) {
	app := newAuthedApp(staticLookup("staff"))

	req := httptest.NewRequest(stdhttp.MethodGet, "/test", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if code := responseCode(t, resp); code != http.TokenBeEmpty.Code {
		t.Errorf("expected code %d, got %d", http.TokenBeEmpty.Code, code)
	}
}

func TestAuthorizationMiddleware_BadScheme(t *testing.T) {
	app := newAuthedApp(staticLookup("staff"))

	req := httptest.NewRequest(stdhttp.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Basic abcdef")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if code := responseCode(t, resp); code != http.AuthorizationIncorrect.Code {
		t.Errorf("expected code %d, got %d", http.AuthorizationIncorrect.Code, code)
	}
}

func TestAuthorizationMiddleware_ValidToken(t *testing.T) {
	app := newAuthedApp(staticLookup("staff"))

	aToken, _, err := jwt.GenToken("42", "staff", []byte(testSecret), time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("GenToken error: %v", err)
	}

	req := httptest.NewRequest(stdhttp.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+aToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if code := responseCode(t, resp); code != http.Success.Code {
		t.Errorf("expected code %d, got %d", http.Success.Code, code)
	}
}

func TestAuthorizationMiddleware_RefreshTokenRejected(t *testing.T) {
	app := newAuthedApp(staticLookup("staff"))

	_, rToken, err := jwt.GenToken("42", "staff", []byte(testSecret), time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("GenToken error: %v", err)
	}

	req := httptest.NewRequest(stdhttp.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+rToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if code := responseCode(t, resp); code != http.TokenFormatIncorrect.Code {
		t.Errorf("expected code %d, got %d", http.TokenFormatIncorrect.Code, code)
	}
}

func TestAuthorizationMiddleware_InactiveUserRejected(t *testing.T) {
	app := newAuthedApp(func(userId string) (string, bool, error) {
		return "staff", false, nil
	})

	aToken, _, err := jwt.GenToken("42", "staff", []byte(testSecret), time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("GenToken error: %v", err)
	}

	req := httptest.NewRequest(stdhttp.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+aToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if code := responseCode(t, resp); code != http.Unauthorized.Code {
		t.Errorf("expected code %d, got %d", http.Unauthorized.Code, code)
	}
}

// A role change must take effect immediately, even while an older token
// minted with the higher role is still valid.
func TestAuthorizationMiddleware_StoredRoleSupersedesToken(t *testing.T) {
	app := newAuthedApp(staticLookup("employee"), RequireRoles("staff"))

	aToken, _, err := jwt.GenToken("42", "staff", []byte(testSecret), time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("GenToken error: %v", err)
	}

	req := httptest.NewRequest(stdhttp.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+aToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if code := responseCode(t, resp); code != http.PermissionDenied.Code {
		t.Errorf("expected code %d, got %d", http.PermissionDenied.Code, code)
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		allowed  []string
		wantCode int
	}{
		{"allowed role", "staff", []string{"staff"}, http.Success.Code},
		{"allowed among many", "patron", []string{"staff", "patron"}, http.Success.Code},
		{"denied role", "employee", []string{"staff"}, http.PermissionDenied.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newAuthedApp(staticLookup(tt.role), RequireRoles(tt.allowed...))

			aToken, _, err := jwt.GenToken("1", tt.role, []byte(testSecret), time.Hour, time.Hour)
			if err != nil {
				t.Fatalf("GenToken error: %v", err)
			}

			req := httptest.NewRequest(stdhttp.MethodGet, "/test", nil)
			req.Header.Set("Authorization", "Bearer "+aToken)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("failed to test request: %v", err)
			}
			if code := responseCode(t, resp); code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, code)
			}
		})
	}
}

func TestRequestMiddleware_WithExistingRequestId(t *testing.T) {
	app := fiber.New()
	app.Use(RequestMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		requestId := c.Get("X-Request-Id")
		if requestId != "existing-request-id-12345" {
			t.Errorf("X-Request-Id should be preserved, got: %s", requestId)
		}
		return c.SendString("ok")
	})

	req := httptest.NewRequest(stdhttp.MethodGet, "/test", nil)
	req.Header.Set("X-Request-Id", "existing-request-id-12345")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestRequestMiddleware_WithoutRequestId(t *testing.T) {
	app := fiber.New()
	app.Use(RequestMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		if c.Get("X-Request-Id") == "" {
			t.Error("X-Request-Id header should be generated")
		}
		return c.SendString("ok")
	})

	req := httptest.NewRequest(stdhttp.MethodGet, "/test", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("failed to test request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}
