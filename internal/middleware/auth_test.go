package middleware

import (
	"context"
	"farsihub_backend/internal/config"
	"farsihub_backend/internal/model"
	"farsihub_backend/internal/service"
	"farsihub_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return cfg
}

func testRouter(cfg *config.Config, sessions *service.SessionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(cfg, sessions), func(c *gin.Context) {
		util.Success(c, gin.H{"userId": util.GetUserFromContext(c).UserID})
	})
	router.GET("/admin", AuthMiddleware(cfg, sessions), RoleMiddleware(model.Admin), func(c *gin.Context) {
		util.Success(c, nil)
	})
	return router
}

func tokenFor(t *testing.T, cfg *config.Config, role model.UserRole) (string, *util.Claims) {
	t.Helper()
	user := &model.User{Name: "T", Email: "t@test.test", Role: role}
	user.ID = model.GenerateUUID()

	token, err := util.GenerateJWT(user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	claims, err := util.ParseJWT(token, cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("ParseJWT() error = %v", err)
	}
	return token, claims
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	sessions := service.NewSessionService(nil, nil, nil)
	router := testRouter(cfg, sessions)

	token, _ := tokenFor(t, cfg, model.Student)

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{name: "no token", wantStatus: http.StatusUnauthorized},
		{name: "bearer token", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "query token", query: "?token=" + token, wantStatus: http.StatusOK},
		{name: "malformed header", header: token, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.token", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddlewareRevokedToken(t *testing.T) {
	cfg := testConfig()
	sessions := service.NewSessionService(nil, nil, nil)
	router := testRouter(cfg, sessions)

	token, claims := tokenFor(t, cfg, model.Student)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, sessions.Logout(context.Background(), claims))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testConfig()
	sessions := service.NewSessionService(nil, nil, nil)
	router := testRouter(cfg, sessions)

	adminToken, _ := tokenFor(t, cfg, model.Admin)
	studentToken, _ := tokenFor(t, cfg, model.Student)

	var denied *util.PermissionError
	util.SetPermissionSink(func(perr *util.PermissionError) {
		denied = perr
	})
	defer util.SetPermissionSink(nil)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, denied)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The denial reached the diagnostics sink with its context.
	if assert.NotNil(t, denied) {
		assert.Equal(t, "get", denied.Op)
		assert.Equal(t, "/admin", denied.Path)
	}
}
