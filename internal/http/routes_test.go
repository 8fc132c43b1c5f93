package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type rejectAll struct{}

func (rejectAll) Parse(string) (string, error) { return "", errors.New("bad token") }

func newTestRouter(tokens middleware.TokenParser, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Deps{
		Handler:   &handlers.Handler{},
		Health:    handlers.NewHealthHandler(okPinger{}, "test"),
		Limiter:   middleware.NewRateLimiter(nil, limit, time.Minute),
		TokenAuth: tokens,
	})
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOperationalEndpoints(t *testing.T) {
	c := qt.New(t)
	r := newTestRouter(nil, 100)

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/api/health"} {
		c.Check(serve(r, http.MethodGet, path, "").Code, qt.Equals, http.StatusOK, qt.Commentf(path))
	}
}

func TestRouteParamsAreNormalized(t *testing.T) {
	c := qt.New(t)
	r := newTestRouter(nil, 100)

	for _, path := range []string{
		"/api/users/not-a-uuid",
		"/api/boards/user_zzz",
		"/api/boards/user_zzz/members",
		"/api/tasks/board/123",
		"/api/tasks/user/abc",
		"/api/tasks/xyz",
	} {
		w := serve(r, http.MethodGet, path, "")
		c.Check(w.Code, qt.Equals, http.StatusBadRequest, qt.Commentf(path))
		c.Check(w.Body.String(), qt.Contains, "invalid identifier format")
	}
}

func TestBearerAuthGuardsAPI(t *testing.T) {
	c := qt.New(t)
	r := newTestRouter(rejectAll{}, 100)

	c.Assert(serve(r, http.MethodGet, "/api/boards", "").Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(serve(r, http.MethodPost, "/api/tasks", `{}`).Code, qt.Equals, http.StatusUnauthorized)

	// Registration, login and health stay open.
	c.Assert(serve(r, http.MethodPost, "/api/users", `{"username":`).Code, qt.Equals, http.StatusBadRequest)
	c.Assert(serve(r, http.MethodPost, "/api/users/3f2504e0-4f89-41d3-9a0c-0305e82c3301/login", `{"password":`).Code,
		qt.Equals, http.StatusBadRequest)
	c.Assert(serve(r, http.MethodGet, "/api/health", "").Code, qt.Equals, http.StatusOK)
}

func TestAPIRateLimit(t *testing.T) {
	c := qt.New(t)
	r := newTestRouter(nil, 2)

	c.Assert(serve(r, http.MethodGet, "/api/health", "").Code, qt.Equals, http.StatusOK)
	c.Assert(serve(r, http.MethodGet, "/api/health", "").Code, qt.Equals, http.StatusOK)
	w := serve(r, http.MethodGet, "/api/health", "")
	c.Assert(w.Code, qt.Equals, http.StatusTooManyRequests)
	c.Assert(w.Body.String(), qt.Contains, "Too many requests")

	// Health checks are outside the limited group.
	c.Assert(serve(r, http.MethodGet, "/healthz", "").Code, qt.Equals, http.StatusOK)
}
