package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpH "github.com/yungbote/aiclub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/aiclub-backend/internal/http/middleware"
	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/ctxutil"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/services"
)

type roleTokens struct{}

func (roleTokens) Login(context.Context, string, string) (*services.Session, error) { return nil, nil }
func (roleTokens) Refresh(context.Context, string) (*services.Session, error)       { return nil, nil }
func (roleTokens) Logout(context.Context) error                                     { return nil }

func (roleTokens) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	switch token {
	case "super_admin", "admin", "student":
		return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: uuid.New(), Role: token}), nil
	}
	return ctx, apierr.Newf(http.StatusUnauthorized, "invalid_token", "invalid or expired token")
}

// Only the middleware chain runs in these cases; the handlers are never reached.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	r, err := NewRouter(RouterConfig{
		Log:            log,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, roleTokens{}),
		HealthHandler:  httpH.NewHealthHandler(nil),
		AgentHandler:   httpH.NewAgentHandler(log, nil),
		ManualHandler:  httpH.NewManualHandler(log, nil),
		AdminHandler:   httpH.NewAdminHandler(log, nil),
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return r
}

func TestRouterHealthcheck(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
}

func TestRouterRoleGates(t *testing.T) {
	r := newTestRouter(t)
	cases := []struct {
		method string
		path   string
		token  string
		want   int
	}{
		{http.MethodPost, "/api/agents/create-agent", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/agents/create-agent", "admin", http.StatusForbidden},
		{http.MethodDelete, "/api/agents/" + uuid.NewString(), "student", http.StatusForbidden},
		{http.MethodPost, "/api/manuals", "admin", http.StatusForbidden},
		{http.MethodGet, "/api/manuals/latest", "student", http.StatusForbidden},
		{http.MethodGet, "/api/manuals/view/" + uuid.NewString(), "", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/dashboard-counts", "admin", http.StatusForbidden},
		{http.MethodGet, "/api/admin/clubs", "admin", http.StatusForbidden},
		{http.MethodGet, "/api/admin/clubs", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/manuals/latest?token=admin", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/manuals/view/" + uuid.NewString() + "?token=student", "", http.StatusForbidden},
		{http.MethodDelete, "/api/students/" + uuid.NewString(), "bogus", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("%s %s as %q: want=%d got=%d", tc.method, tc.path, tc.token, tc.want, w.Code)
		}
	}
}
