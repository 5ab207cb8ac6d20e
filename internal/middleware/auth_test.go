package middleware

import (
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func tokenFor(t *testing.T, role model.UserRole) string {
	t.Helper()
	u := &model.User{Username: "u-" + string(role), Role: role}
	u.ID = model.GenerateUUID()
	token, err := util.GenerateJWT(u, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func newRouter(roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", AuthMiddleware(testSecret), RoleMiddleware(roles...), func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).Username)
	})
	return r
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name  string
		role  model.UserRole
		token bool
		want  int
	}{
		{name: "no token", token: false, want: http.StatusUnauthorized},
		{name: "allowed role", role: model.Professor, token: true, want: http.StatusOK},
		{name: "admin bypass", role: model.Admin, token: true, want: http.StatusOK},
		{name: "other role", role: model.Student, token: true, want: http.StatusForbidden},
	}

	r := newRouter(model.Professor)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if tt.token {
				req.Header.Set("Authorization", "Bearer "+tokenFor(t, tt.role))
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthMiddlewareRejectsGarbage(t *testing.T) {
	r := newRouter(model.Student)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
